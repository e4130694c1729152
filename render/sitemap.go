package render

import (
	"encoding/xml"
	"time"

	"github.com/eringen/pressroom/content"
)

// URLSet is the root element of a sitemap document.
type URLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapURL is one sitemap entry.
type SitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap lists the home page, the list page and every indexable article.
func Sitemap(site Site, articles []content.Article) URLSet {
	set := URLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []SitemapURL{
			{Loc: site.URL + "/"},
			{Loc: site.Absolute(site.ListPath)},
		},
	}
	for _, a := range articles {
		if !a.IsPublished() || !a.IsIndexed {
			continue
		}
		u := SitemapURL{Loc: site.URL + a.Path()}
		if m := a.Modified(); !m.IsZero() {
			u.LastMod = m.UTC().Format(time.DateOnly)
		}
		set.URLs = append(set.URLs, u)
	}
	return set
}

// MarshalSitemap encodes set as an indented XML document with header.
func MarshalSitemap(set URLSet) ([]byte, error) {
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}
