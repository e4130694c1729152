package pressroom

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pressroom/content"
)

const feedSize = 20

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// feed builds the RSS document of the newest indexable articles.
func (a *App) feed(articles []content.Article) rssXML {
	site := a.Config.Site
	items := make([]rssItem, 0, min(len(articles), feedSize))
	for _, art := range articles {
		if !art.IsIndexed {
			continue
		}
		if len(items) == feedSize {
			break
		}
		link := site.URL + art.Path()
		item := rssItem{
			Title:       art.Title,
			Link:        link,
			Description: art.Description(),
			Category:    art.CollectionName(),
			GUID:        link,
		}
		if art.PublishedAt != nil {
			item.PubDate = art.PublishedAt.UTC().Format(http.TimeFormat)
		}
		items = append(items, item)
	}
	description := a.Config.Description
	if description == "" {
		description = site.Name
	}
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       site.Name,
			Link:        site.URL + "/",
			Description: description,
			Language:    site.Language,
			Items:       items,
		},
	}
}

func (a *App) renderRSS(c echo.Context, articles []content.Article) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(a.feed(articles))
}
