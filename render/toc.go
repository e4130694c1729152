package render

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Heading is one table-of-contents entry.
type Heading struct {
	ID   string
	Text string
}

var (
	reSection = regexp.MustCompile(`(?is)<h2(\s[^>]*)?>(.*?)</h2\s*>`)
	reTag     = regexp.MustCompile(`<[^>]*>`)
)

// ExtractHeadings annotates every <h2> of body with a section id and returns
// the annotated HTML plus the ordered heading list. The n-th heading gets
// "section-n" (zero-based), or the next free "section-k" when that id is
// already used in body. A heading that already carries an id keeps it, so
// running the extractor over its own output changes nothing. Headings of other
// levels are left alone.
func ExtractHeadings(body string) (string, []Heading) {
	taken := documentIDs(body)
	var headings []Heading
	index := 0
	annotated := reSection.ReplaceAllStringFunc(body, func(m string) string {
		open := strings.Index(m, ">")
		sub := reSection.FindStringSubmatch(m)
		inner := sub[2]
		n := index
		index++

		text := strings.TrimSpace(html.UnescapeString(reTag.ReplaceAllString(inner, "")))
		if id, ok := tagID(m[:open+1]); ok && id != "" {
			headings = append(headings, Heading{ID: id, Text: text})
			return m
		}
		id := fmt.Sprintf("section-%d", n)
		for k := n + 1; taken[id]; k++ {
			id = fmt.Sprintf("section-%d", k)
		}
		taken[id] = true
		headings = append(headings, Heading{ID: id, Text: text})
		// keep the original opening tag bytes, only append the attribute
		return m[:open] + ` id="` + id + `"` + m[open:]
	})
	return annotated, headings
}

// tagID returns the id attribute of the single start tag tag.
func tagID(tag string) (string, bool) {
	z := html.NewTokenizer(strings.NewReader(tag))
	if z.Next() != html.StartTagToken {
		return "", false
	}
	for _, attr := range z.Token().Attr {
		if attr.Key == "id" {
			return attr.Val, true
		}
	}
	return "", false
}

// documentIDs collects every id attribute value of body.
func documentIDs(body string) map[string]bool {
	ids := make(map[string]bool)
	z := html.NewTokenizer(strings.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ids
		case html.StartTagToken, html.SelfClosingTagToken:
			for _, attr := range z.Token().Attr {
				if attr.Key == "id" && attr.Val != "" {
					ids[attr.Val] = true
				}
			}
		}
	}
}
