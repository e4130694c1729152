package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/render"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestPagesRender(t *testing.T) {
	now := time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)
	layout := Layout{Title: "T", Email: "admin@example.com", CSRF: "tok", Toasts: []Toast{{Kind: "success", Message: "Article publié"}}}
	article := content.Article{ID: "a1", Title: "Calmer <ses> pensées", Slug: "calmer", Status: content.StatusPublished, UpdatedAt: now, PublishedAt: &now, IsIndexed: true}
	col := content.Collection{ID: "c1", Name: "Anxiété", Slug: "anxiete"}

	tests := []struct {
		name string
		cmp  templ.Component
		want []string
	}{
		{"login", Login(LoginPage{CSRF: "tok", Error: "Accès non autorisé"}), []string{"Se connecter avec Google", "Accès non autorisé"}},
		{"dashboard", Dashboard(DashboardPage{Layout: layout, Total: 3, Published: 2, Drafts: 1, Recent: []content.Article{article}}),
			[]string{`id="stat-total">3<`, "Calmer &lt;ses&gt; pensées", "Article publié", `content="tok"`}},
		{"articles", Articles(ArticlesPage{Layout: layout, Articles: []content.Article{article}, Collections: []content.Collection{col},
			Status: "published", Pagination: render.Paginate(45, 20, 2)}),
			[]string{"/admin/articles/a1/", `<span class="current">2</span>`, "page=3", "status=published"}},
		{"editor", Editor(EditorPage{Layout: layout, Article: article, Collections: []content.Collection{col}, Error: "Ce slug est déjà utilisé"}),
			[]string{`action="/admin/articles/a1/"`, "Ce slug est déjà utilisé", "Publié le 2 janvier 2025", "checked"}},
		{"new editor", Editor(EditorPage{Layout: layout, IsNew: true}), []string{`action="/admin/articles/"`, "Nouvel article"}},
		{"collections", Collections(CollectionsPage{Layout: layout, Collections: []content.Collection{col}, Counts: map[string]int{"c1": 2}}),
			[]string{"Anxiété", "Utilisée"}},
		{"media", Media(MediaPage{Layout: layout, Items: []content.Media{{ID: "m1", URL: "/uploads/x.jpg", Filename: "x.jpg"}}}), []string{"/admin/media/m1/"}},
		{"media detail", MediaDetail(MediaDetailPage{Layout: layout, Item: content.Media{ID: "m1", URL: "/uploads/x.jpg", Size: 2048}}), []string{"2.0 Ko"}},
		{"subscribers", Subscribers(SubscribersPage{Layout: layout, Subscribers: []content.Subscriber{{Email: "a@b.fr", Consent: true, CreatedAt: now}}}), []string{"a@b.fr", "Oui"}},
		{"not found", NotFound(), []string{"404", "Page introuvable"}},
		{"server error", ServerError(), []string{"500"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderString(t, tt.cmp)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("%s: missing %q in output", tt.name, w)
				}
			}
		})
	}
}

func TestCollectionDeleteHiddenWhenUsed(t *testing.T) {
	out := renderString(t, Collections(CollectionsPage{
		Collections: []content.Collection{{ID: "c1", Name: "A"}, {ID: "c2", Name: "B"}},
		Counts:      map[string]int{"c1": 1},
	}))
	if strings.Contains(out, "/admin/collections/c1/delete/") {
		t.Errorf("delete offered for a collection in use")
	}
	if !strings.Contains(out, "/admin/collections/c2/delete/") {
		t.Errorf("delete missing for an empty collection")
	}
}
