package render

import (
	"strings"
	"time"
	// Europe/Paris must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"
)

// CTA is the fixed call-to-action block of the article sidebar.
type CTA struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
	Link  string `yaml:"link"`
	Label string `yaml:"label"`
	Icon  string `yaml:"icon"`
}

// Site carries the site-wide values every rendered page needs.
type Site struct {
	Name         string `yaml:"name"`
	URL          string `yaml:"url"` // absolute, no trailing slash
	Language     string `yaml:"language"`
	Author       string `yaml:"author"`
	AuthorPath   string `yaml:"author_path"`
	Publisher    string `yaml:"publisher"`
	LogoPath     string `yaml:"logo"`
	DefaultImage string `yaml:"default_image"`
	HomeLabel    string `yaml:"home_label"`
	ListPath     string `yaml:"list_path"`
	ListLabel    string `yaml:"list_label"`
	PageSize     int    `yaml:"page_size"`
	CTA          CTA    `yaml:"cta"`

	Location *time.Location `yaml:"-"`
}

// WithDefaults returns s with empty fields filled in.
func (s Site) WithDefaults() Site {
	if s.Name == "" {
		s.Name = "Elise & Mind"
	}
	if s.URL == "" {
		s.URL = "http://localhost:3000"
	}
	s.URL = strings.TrimRight(s.URL, "/")
	if s.Language == "" {
		s.Language = "fr"
	}
	if s.Author == "" {
		s.Author = "Elise"
	}
	if s.AuthorPath == "" {
		s.AuthorPath = "/mon-histoire"
	}
	if s.Publisher == "" {
		s.Publisher = s.Name
	}
	if s.LogoPath == "" {
		s.LogoPath = "/images/logo-elise-mind.webp"
	}
	if s.DefaultImage == "" {
		s.DefaultImage = s.LogoPath
	}
	if s.HomeLabel == "" {
		s.HomeLabel = "Accueil"
	}
	if s.ListPath == "" {
		s.ListPath = "/mes-conseils"
	}
	if s.ListLabel == "" {
		s.ListLabel = "Mes Conseils"
	}
	if s.PageSize <= 0 {
		s.PageSize = 16
	}
	if s.CTA == (CTA{}) {
		s.CTA = CTA{
			Title: "Ta trousse de secours",
			Text:  "Télécharge gratuitement ma Fiche SOS anti-anxiété.",
			Link:  "/ressources.html",
			Label: "Télécharger →",
			Icon:  "/images/favicon.webp",
		}
	}
	if s.Location == nil {
		if loc, err := time.LoadLocation("Europe/Paris"); err == nil {
			s.Location = loc
		} else {
			s.Location = time.UTC
		}
	}
	return s
}

// Absolute turns a site-relative path into an absolute URL. Absolute inputs
// are returned unchanged.
func (s Site) Absolute(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.URL + path
}

// CollectionListURL is the list page filtered on one collection.
func (s Site) CollectionListURL(collectionSlug string) string {
	return s.ListPath + "?collection=" + collectionSlug
}
