package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/markdown"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var fragments = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Badge is the colored collection label of cards, sidebars and headers.
type Badge struct {
	Name  string
	Href  string
	Color BadgeColor
}

// Style returns the inline CSS of the badge. Colors come from Palette only.
func (b Badge) Style() template.CSS {
	return template.CSS("background-color:" + b.Color.Background + ";color:" + b.Color.Text)
}

func badgeFor(site Site, badges Badges, a content.Article) *Badge {
	name := a.CollectionName()
	if name == "" || a.Collection.Slug == "" {
		return nil
	}
	return &Badge{
		Name:  name,
		Href:  site.CollectionListURL(a.Collection.Slug),
		Color: badges.For(a.Collection.Slug),
	}
}

type crumbView struct {
	HomeLabel  string
	ListPath   string
	ListLabel  string
	Collection *Badge
	Current    string
}

type sidebarItem struct {
	Href  string
	Title string
	Image string
	Badge *Badge
}

type articleView struct {
	Title    string
	Date     string
	DateTime string
	Badge    *Badge
	Image    string
	Headings []Heading
	Body     template.HTML
	Sidebar  []sidebarItem
	CTA      CTA
}

// Card is the view model of one list-page summary card.
type Card struct {
	Href           string
	Title          string
	Image          string
	Excerpt        string
	Date           string
	CollectionSlug string
	Badge          *Badge
}

// Cards builds the card view models for articles, in order.
func Cards(site Site, badges Badges, articles []content.Article) []Card {
	cards := make([]Card, 0, len(articles))
	for _, a := range articles {
		slug := ""
		if a.Collection != nil {
			slug = a.Collection.Slug
		}
		cards = append(cards, Card{
			Href:           a.Path(),
			Title:          a.Title,
			Image:          a.FeaturedImage,
			Excerpt:        a.Excerpt,
			Date:           publishedDate(a.PublishedAt, site.Location),
			CollectionSlug: slug,
			Badge:          badgeFor(site, badges, a),
		})
	}
	return cards
}

func executeFragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render: %s fragment: %w", name, err)
	}
	return buf.String(), nil
}

func breadcrumbHTML(site Site, a content.Article) (string, error) {
	v := crumbView{
		HomeLabel: site.HomeLabel,
		ListPath:  site.ListPath,
		ListLabel: site.ListLabel,
		Current:   a.Title,
	}
	if a.CollectionName() != "" && a.Collection.Slug != "" {
		v.Collection = &Badge{Name: a.Collection.Name, Href: site.CollectionListURL(a.Collection.Slug)}
	}
	return executeFragment("breadcrumb", v)
}

func articleHTML(site Site, pg Page) (string, error) {
	a := pg.Article
	source, err := Body(a)
	if err != nil {
		return "", err
	}
	body, headings := ExtractHeadings(source)
	v := articleView{
		Title:    a.Title,
		Date:     publishedDate(a.PublishedAt, site.Location),
		DateTime: isoTime(a.PublishedAt),
		Badge:    badgeFor(site, pg.Badges, a),
		Image:    a.FeaturedImage,
		Headings: headings,
		// html bodies are sanitized when saved; markdown output carries no raw html
		Body: template.HTML(body),
		CTA:  site.CTA,
	}
	for _, r := range pg.Related {
		v.Sidebar = append(v.Sidebar, sidebarItem{
			Href:  r.Path(),
			Title: r.Title,
			Image: r.FeaturedImage,
			Badge: badgeFor(site, pg.Badges, r),
		})
	}
	return executeFragment("article", v)
}

// CardsHTML renders cards as the markup placed inside the list container.
func CardsHTML(cards []Card) (string, error) {
	return executeFragment("cards", cards)
}

// Body returns the article body as HTML, converting markdown sources.
func Body(a content.Article) (string, error) {
	if a.ContentFormat != content.FormatMarkdown {
		return a.Content, nil
	}
	out, err := markdown.ToHTML(a.Content)
	if err != nil {
		return "", fmt.Errorf("render: article %s: %w", a.Slug, err)
	}
	return out, nil
}

// ArticleFragment renders only the article element contents, as placed in
// the page template. The hydration endpoint serves it.
func ArticleFragment(site Site, pg Page) (string, error) {
	return articleHTML(site.WithDefaults(), pg)
}
