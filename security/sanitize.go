// Package security cleans user supplied HTML before it is stored or rendered.
package security

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var classNames = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(classNames).Globally()
	p.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h2", "h3", "h4")
	p.AllowAttrs("loading").Matching(regexp.MustCompile(`^(lazy|eager)$`)).OnElements("img")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowElements("figure", "figcaption", "mark")
	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(false)
	return p
}

// SanitizeHTML returns body restricted to the article markup allow-list.
// Scripts, event handlers, inline styles and javascript: URLs are removed.
func SanitizeHTML(body string) string {
	return policy.Sanitize(body)
}

// StripTags removes all markup from s, keeping text only.
func StripTags(s string) string {
	return bluemonday.StrictPolicy().Sanitize(s)
}
