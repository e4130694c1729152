// Package views renders the admin backoffice pages.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02/01/2006 15:04")
	},
	"longDate": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return render.FrenchDate(*t, time.UTC)
	},
	"statusLabel": func(s content.Status) string {
		if s == content.StatusPublished {
			return "Publié"
		}
		return "Brouillon"
	},
	"query": func(pairs ...any) template.URL {
		v := url.Values{}
		for i := 0; i+1 < len(pairs); i += 2 {
			if s := fmt.Sprint(pairs[i+1]); s != "" && s != "0" {
				v.Set(fmt.Sprint(pairs[i]), s)
			}
		}
		if len(v) == 0 {
			return ""
		}
		return template.URL("?" + v.Encode())
	},
	"add": func(a, b int) int { return a + b },
	"kb": func(n int) string {
		return fmt.Sprintf("%.1f Ko", float64(n)/1024)
	},
}

type page struct {
	tmpl  *template.Template
	entry string
}

var pages = map[string]page{}

func init() {
	for _, name := range []string{"dashboard", "articles", "editor", "collections", "media", "media_detail", "subscribers"} {
		pages[name] = page{
			tmpl:  template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")),
			entry: "layout",
		}
	}
	for _, name := range []string{"login", "error"} {
		pages[name] = page{
			tmpl:  template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/"+name+".html")),
			entry: name,
		}
	}
}

func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := pages[name]
		return p.tmpl.ExecuteTemplate(w, p.entry, data)
	})
}

func Login(p LoginPage) templ.Component             { return component("login", p) }
func Dashboard(p DashboardPage) templ.Component     { return component("dashboard", p) }
func Articles(p ArticlesPage) templ.Component       { return component("articles", p) }
func Editor(p EditorPage) templ.Component           { return component("editor", p) }
func Collections(p CollectionsPage) templ.Component { return component("collections", p) }
func Media(p MediaPage) templ.Component             { return component("media", p) }
func MediaDetail(p MediaDetailPage) templ.Component { return component("media_detail", p) }
func Subscribers(p SubscribersPage) templ.Component { return component("subscribers", p) }

// NotFound renders the 404 page.
func NotFound() templ.Component {
	return component("error", ErrorPage{Code: 404, Message: "Page introuvable"})
}

// ServerError renders the 5xx page.
func ServerError() templ.Component {
	return component("error", ErrorPage{Code: 500, Message: "Une erreur est survenue"})
}
