package pressroom

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/markdown"
	"github.com/eringen/pressroom/security"
	"github.com/eringen/pressroom/slug"
)

// SEO field limits enforced on save. The editor counters warn earlier
// (60 and 160 characters) without blocking.
const (
	maxMetaTitle       = 70
	maxMetaDescription = 200
)

var canonicalSlug = validation.By(func(v any) error {
	s, _ := v.(string)
	if s != "" && !slug.Valid(s) {
		return errors.New("lettres minuscules, chiffres et tirets uniquement")
	}
	return nil
})

// ArticleForm is the editor payload, posted as a form on save and as JSON
// by the autosave script.
type ArticleForm struct {
	ID              string `form:"id" json:"id"`
	Title           string `form:"title" json:"title"`
	Slug            string `form:"slug" json:"slug"`
	CollectionID    string `form:"collection_id" json:"collection_id"`
	Status          string `form:"status" json:"status"`
	Content         string `form:"content" json:"content"`
	ContentFormat   string `form:"content_format" json:"content_format"`
	Excerpt         string `form:"excerpt" json:"excerpt"`
	FeaturedImage   string `form:"featured_image" json:"featured_image"`
	MetaTitle       string `form:"meta_title" json:"meta_title"`
	MetaDescription string `form:"meta_description" json:"meta_description"`
	IsIndexed       bool   `form:"is_indexed" json:"is_indexed"`
}

// formFromArticle fills the editor with a stored article.
func formFromArticle(a content.Article) ArticleForm {
	return ArticleForm{
		ID:              a.ID,
		Title:           a.Title,
		Slug:            a.Slug,
		CollectionID:    a.CollectionID,
		Status:          string(a.Status),
		Content:         a.Content,
		ContentFormat:   string(a.ContentFormat),
		Excerpt:         a.Excerpt,
		FeaturedImage:   a.FeaturedImage,
		MetaTitle:       a.MetaTitle,
		MetaDescription: a.MetaDescription,
		IsIndexed:       a.IsIndexed,
	}
}

// Normalize trims fields and derives the slug from the title when empty.
func (f *ArticleForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Slug = strings.TrimSpace(f.Slug)
	if f.Slug == "" {
		f.Slug = slug.Make(f.Title)
	}
	f.Excerpt = strings.TrimSpace(f.Excerpt)
	f.FeaturedImage = strings.TrimSpace(f.FeaturedImage)
	f.MetaTitle = strings.TrimSpace(f.MetaTitle)
	f.MetaDescription = strings.TrimSpace(f.MetaDescription)
	if f.Status == "" {
		f.Status = string(content.StatusDraft)
	}
	if f.ContentFormat == "" {
		f.ContentFormat = string(content.FormatHTML)
	}
}

func (f ArticleForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required.Error("Le titre est obligatoire")),
		validation.Field(&f.Slug, validation.Required.Error("Le slug est obligatoire"), canonicalSlug),
		validation.Field(&f.CollectionID, is.UUID),
		validation.Field(&f.Status, validation.In(string(content.StatusDraft), string(content.StatusPublished))),
		validation.Field(&f.ContentFormat, validation.In(string(content.FormatHTML), string(content.FormatMarkdown))),
		validation.Field(&f.Content, validation.When(f.ContentFormat == string(content.FormatMarkdown),
			validation.By(func(any) error {
				_, err := markdown.ToHTML(f.Content)
				return err
			}))),
		validation.Field(&f.FeaturedImage, is.RequestURI),
		validation.Field(&f.MetaTitle, validation.RuneLength(0, maxMetaTitle)),
		validation.Field(&f.MetaDescription, validation.RuneLength(0, maxMetaDescription)),
	)
}

// Article converts the form to an article owned by author. HTML bodies are
// sanitized here; markdown sources are stored as written.
func (f ArticleForm) Article(author string) content.Article {
	body := f.Content
	if content.Format(f.ContentFormat) != content.FormatMarkdown {
		body = security.SanitizeHTML(body)
	}
	return content.Article{
		ID:              f.ID,
		Title:           f.Title,
		Slug:            f.Slug,
		CollectionID:    f.CollectionID,
		Status:          content.Status(f.Status),
		Content:         body,
		ContentFormat:   content.Format(f.ContentFormat),
		Excerpt:         f.Excerpt,
		FeaturedImage:   f.FeaturedImage,
		MetaTitle:       f.MetaTitle,
		MetaDescription: f.MetaDescription,
		IsIndexed:       f.IsIndexed,
		AuthorEmail:     author,
	}
}

// CollectionForm is the create/edit payload of the collections modal.
type CollectionForm struct {
	ID          string `form:"id" json:"id"`
	Name        string `form:"name" json:"name"`
	Slug        string `form:"slug" json:"slug"`
	Description string `form:"description" json:"description"`
}

// Normalize trims fields and derives the slug from the name when empty.
func (f *CollectionForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Slug = strings.TrimSpace(f.Slug)
	if f.Slug == "" {
		f.Slug = slug.Make(f.Name)
	}
	f.Description = strings.TrimSpace(f.Description)
}

func (f CollectionForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required.Error("Le nom est obligatoire")),
		validation.Field(&f.Slug, validation.Required.Error("Le slug est obligatoire"), canonicalSlug),
	)
}

// Subscription is the newsletter signup payload.
type Subscription struct {
	Email   string `json:"email" form:"email"`
	Consent bool   `json:"rgpd_consent" form:"rgpd_consent"`
}

func (s Subscription) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Email, validation.Required.Error("Email requis"), is.EmailFormat.Error("Email invalide")),
		validation.Field(&s.Consent, validation.Required.Error("Consentement requis")),
	)
}

// firstError returns the message of one failed field, in a stable order.
func firstError(err error) string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err.Error()
	}
	for _, key := range []string{"title", "name", "slug", "email", "rgpd_consent",
		"collection_id", "status", "content_format", "content", "featured_image", "meta_title", "meta_description"} {
		if e, ok := errs[key]; ok {
			return e.Error()
		}
	}
	for _, e := range errs {
		return e.Error()
	}
	return err.Error()
}
