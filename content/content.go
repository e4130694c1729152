// Package content defines the entities managed by the backoffice and read by
// the static build: articles, collections, media assets and newsletter
// subscribers.
package content

import "time"

// Status is the lifecycle state of an article.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Format is the authoring format of an article body.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// DefaultCollectionSlug is the path segment used for articles without a collection.
const DefaultCollectionSlug = "blog"

// Collection groups articles under a sluggable name.
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Article is the core content type edited in the backoffice and pre-rendered
// by the build.
type Article struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Slug            string      `json:"slug"`
	CollectionID    string      `json:"collection_id,omitempty"`
	Collection      *Collection `json:"collection,omitempty"`
	Status          Status      `json:"status"`
	Content         string      `json:"content"`
	ContentFormat   Format      `json:"content_format"`
	Excerpt         string      `json:"excerpt"`
	FeaturedImage   string      `json:"featured_image,omitempty"`
	MetaTitle       string      `json:"meta_title,omitempty"`
	MetaDescription string      `json:"meta_description,omitempty"`
	IsIndexed       bool        `json:"is_indexed"`
	AuthorEmail     string      `json:"author_email,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	PublishedAt     *time.Time  `json:"published_at,omitempty"`
}

// IsPublished returns true if the article is published.
func (a Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// CollectionSlug returns the slug of the joined collection, or
// DefaultCollectionSlug when the article has none.
func (a Article) CollectionSlug() string {
	if a.Collection != nil && a.Collection.Slug != "" {
		return a.Collection.Slug
	}
	return DefaultCollectionSlug
}

// CollectionName returns the joined collection name or "".
func (a Article) CollectionName() string {
	if a.Collection == nil {
		return ""
	}
	return a.Collection.Name
}

// Path is the site-relative URL of the article, without trailing slash.
func (a Article) Path() string {
	return "/blog/" + a.CollectionSlug() + "/" + a.Slug
}

// PageTitle is the meta title override or the title.
func (a Article) PageTitle() string {
	if a.MetaTitle != "" {
		return a.MetaTitle
	}
	return a.Title
}

// Description is the meta description override or the excerpt.
func (a Article) Description() string {
	if a.MetaDescription != "" {
		return a.MetaDescription
	}
	return a.Excerpt
}

// Robots returns the robots meta content. Only an explicit opt-out disables indexing.
func (a Article) Robots() string {
	if !a.IsIndexed {
		return "noindex, nofollow"
	}
	return "index, follow"
}

// Modified returns UpdatedAt, falling back to PublishedAt.
func (a Article) Modified() time.Time {
	if !a.UpdatedAt.IsZero() {
		return a.UpdatedAt
	}
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return time.Time{}
}

// Media is an uploaded asset stored in blob storage and indexed in the store.
type Media struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Filename   string    `json:"filename"`
	StorageKey string    `json:"storage_key"`
	AltText    string    `json:"alt_text"`
	UploadedBy string    `json:"uploaded_by"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Size       int       `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
}

// Subscriber is a newsletter signup.
type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Consent   bool      `json:"rgpd_consent"`
	CreatedAt time.Time `json:"created_at"`
}
