package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/eringen/pressroom/content"
)

// Mode selects how a page is marked for client-side hydration.
type Mode int

const (
	// ModeStatic flags the article region as pre-rendered so client scripts skip refetching.
	ModeStatic Mode = iota
	// ModeHydrate renders the same markup without the marker.
	ModeHydrate
)

func (m Mode) String() string {
	if m == ModeHydrate {
		return "hydrate"
	}
	return "static"
}

// PrerenderedAttr marks containers filled ahead of time.
const PrerenderedAttr = "data-prerendered"

type slot struct {
	name     string
	selector string
}

var slots = []slot{
	{"title", "head > title"},
	{"description", `meta[name="description"]`},
	{"robots", `meta[name="robots"]`},
	{"og:title", `meta[property="og:title"]`},
	{"og:description", `meta[property="og:description"]`},
	{"og:url", `meta[property="og:url"]`},
	{"og:image", `meta[property="og:image"]`},
	{"twitter:title", `meta[name="twitter:title"]`},
	{"twitter:description", `meta[name="twitter:description"]`},
	{"twitter:image", `meta[name="twitter:image"]`},
	{"breadcrumb", "nav#breadcrumb"},
	{"article", "article#blog-article-content"},
}

const (
	breadcrumbMark = "pressroom:breadcrumb"
	articleMark    = "pressroom:article"
)

// Template is a parsed article page template. It is safe for concurrent use.
type Template struct {
	doc *goquery.Document
}

// Page is everything needed to render one article document.
type Page struct {
	Article content.Article
	Related []content.Article
	Badges  Badges
}

// ParseTemplate parses src and checks that every slot exists exactly once.
// All slot problems are reported together.
func ParseTemplate(src string) (*Template, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("render: parse template: %w", err)
	}
	var errs []error
	for _, s := range slots {
		switch n := doc.Find(s.selector).Length(); {
		case n == 0:
			errs = append(errs, fmt.Errorf("%w: %s (%s)", ErrMissingAnchor, s.name, s.selector))
		case n > 1:
			errs = append(errs, fmt.Errorf("%w: %s (%s) matches %d elements", ErrDuplicateAnchor, s.name, s.selector, n))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &Template{doc: doc}, nil
}

// Render produces the standalone HTML document for pg. The same inputs always
// yield byte-identical output.
func (t *Template) Render(site Site, pg Page, mode Mode) (string, error) {
	a := pg.Article
	crumbs, err := breadcrumbHTML(site, a)
	if err != nil {
		return "", err
	}
	body, err := articleHTML(site, pg)
	if err != nil {
		return "", err
	}

	doc := goquery.NewDocumentFromNode(t.doc.Selection.Clone().Nodes[0])

	pageTitle := a.PageTitle()
	description := a.Description()
	canonical := site.URL + a.Path()
	image := articleImage(site, a)

	doc.Find("head > title").SetText(pageTitle + " — " + site.Name)
	setContent(doc, `meta[name="description"]`, description)
	setContent(doc, `meta[name="robots"]`, a.Robots())
	setContent(doc, `meta[property="og:title"]`, pageTitle)
	setContent(doc, `meta[property="og:description"]`, description)
	setContent(doc, `meta[property="og:url"]`, canonical)
	setContent(doc, `meta[property="og:image"]`, image)
	setContent(doc, `meta[name="twitter:title"]`, pageTitle)
	setContent(doc, `meta[name="twitter:description"]`, description)
	setContent(doc, `meta[name="twitter:image"]`, image)

	doc.Find("head").AppendNodes(
		textNode("  "),
		element(atom.Link, html.Attribute{Key: "rel", Val: "canonical"}, html.Attribute{Key: "href", Val: canonical}),
		textNode("\n  "),
		scriptNode("application/ld+json", BlogPostingJSONLD(site, a)),
		textNode("\n"),
	)

	replaceChildren(doc.Find("nav#breadcrumb"), breadcrumbMark)
	article := doc.Find("article#blog-article-content")
	replaceChildren(article, articleMark)
	if mode == ModeStatic {
		article.SetAttr(PrerenderedAttr, "true")
	} else {
		article.RemoveAttr(PrerenderedAttr)
	}

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("render: serialize %s: %w", a.Slug, err)
	}
	out = strings.Replace(out, "<!--"+breadcrumbMark+"-->", crumbs, 1)
	out = strings.Replace(out, "<!--"+articleMark+"-->", body, 1)
	return out, nil
}

func setContent(doc *goquery.Document, selector, value string) {
	doc.Find(selector).SetAttr("content", value)
}

func replaceChildren(sel *goquery.Selection, mark string) {
	sel.Empty()
	sel.AppendNodes(&html.Node{Type: html.CommentNode, Data: mark})
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

// scriptNode builds a raw-text script element. body must not contain "</script";
// encoding/json escapes '<', so JSON payloads are safe.
func scriptNode(typ, body string) *html.Node {
	n := element(atom.Script, html.Attribute{Key: "type", Val: typ})
	n.AppendChild(textNode(body))
	return n
}
