package views

import (
	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/render"
)

// Toast is a one-shot notification rendered at the top of an admin page.
type Toast struct {
	Kind    string // success, error, warning, info
	Message string
}

// Layout carries the values every admin page needs.
type Layout struct {
	Title  string
	Active string // nav entry: dashboard, articles, collections, media, subscribers
	Email  string
	CSRF   string
	Toasts []Toast
}

type LoginPage struct {
	CSRF  string
	Error string
}

type DashboardPage struct {
	Layout
	Total     int
	Published int
	Drafts    int
	Recent    []content.Article
}

type ArticlesPage struct {
	Layout
	Articles     []content.Article
	Collections  []content.Collection
	Status       string
	CollectionID string
	Search       string
	Pagination   render.Pagination
}

type EditorPage struct {
	Layout
	Article     content.Article
	Collections []content.Collection
	IsNew       bool
	Error       string
	PublicURL   string
}

type CollectionsPage struct {
	Layout
	Collections []content.Collection
	Counts      map[string]int
	Form        content.Collection
	Error       string
}

type MediaPage struct {
	Layout
	Items []content.Media
}

type MediaDetailPage struct {
	Layout
	Item content.Media
}

type SubscribersPage struct {
	Layout
	Subscribers []content.Subscriber
}

type ErrorPage struct {
	Code    int
	Message string
}
