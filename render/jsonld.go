package render

import (
	"encoding/json"

	"github.com/eringen/pressroom/content"
)

// BlogPostingJSONLD produces the Schema.org BlogPosting block for an article.
// Keys are emitted in sorted order, so output is stable.
func BlogPostingJSONLD(site Site, a content.Article) string {
	url := site.URL + a.Path()
	published := isoTime(a.PublishedAt)
	modified := published
	if !a.UpdatedAt.IsZero() {
		modified = isoTime(&a.UpdatedAt)
	}
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      a.Title,
		"description":   a.Description(),
		"image":         articleImage(site, a),
		"url":           url,
		"datePublished": published,
		"dateModified":  modified,
		"author": map[string]string{
			"@type": "Person",
			"name":  site.Author,
			"url":   site.Absolute(site.AuthorPath),
		},
		"publisher": map[string]interface{}{
			"@type": "Organization",
			"name":  site.Publisher,
			"url":   site.URL,
			"logo": map[string]string{
				"@type": "ImageObject",
				"url":   site.Absolute(site.LogoPath),
			},
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   url,
		},
		"inLanguage": site.Language,
	}
	if name := a.CollectionName(); name != "" {
		data["articleSection"] = name
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func articleImage(site Site, a content.Article) string {
	if a.FeaturedImage != "" {
		return site.Absolute(a.FeaturedImage)
	}
	return site.Absolute(site.DefaultImage)
}
