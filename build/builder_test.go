package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/render"
)

type fakeSource struct {
	collections []content.Collection
	articles    []content.Article
	err         error
}

func (f fakeSource) Collections(context.Context) ([]content.Collection, error) {
	return f.collections, f.err
}

func (f fakeSource) PublishedArticles(context.Context) ([]content.Article, error) {
	return f.articles, f.err
}

func siteRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	copyFile(t, "testdata/article.html", filepath.Join(root, DefaultTemplate))
	copyFile(t, "testdata/list.html", filepath.Join(root, DefaultListPage))
	return root
}

func copyFile(t *testing.T, from, to string) {
	t.Helper()
	data, err := os.ReadFile(from)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(to), 0o755))
	require.NoError(t, os.WriteFile(to, data, 0o644))
}

var anxiete = content.Collection{ID: "c1", Name: "Anxiety", Slug: "anxiete"}

func article(id, title, slug string, col *content.Collection, day int) content.Article {
	at := time.Date(2025, 1, day, 8, 0, 0, 0, time.UTC)
	a := content.Article{
		ID:          id,
		Title:       title,
		Slug:        slug,
		Status:      content.StatusPublished,
		Content:     "<h2>Un</h2><p>texte</p>",
		IsIndexed:   true,
		PublishedAt: &at,
	}
	if col != nil {
		a.CollectionID = col.ID
		a.Collection = col
	}
	return a
}

func newBuilder(root string, src Source) *Builder {
	return &Builder{
		Source: src,
		Root:   root,
		Site:   render.Site{URL: "https://eliseandmind.com", Location: time.UTC},
	}
}

func TestRunScenarioA(t *testing.T) {
	root := siteRoot(t)
	var out bytes.Buffer
	b := newBuilder(root, fakeSource{
		collections: []content.Collection{anxiete},
		articles:    []content.Article{article("a1", "Calmer ses pensées", "calmer-ses-pensees", &anxiete, 2)},
	})
	b.Out = &out

	rep, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, rep.OK())
	assert.Equal(t, []string{"/blog/anxiete/calmer-ses-pensees"}, rep.Generated)
	page, err := os.ReadFile(filepath.Join(root, "blog", "anxiete", "calmer-ses-pensees", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>Calmer ses pensées — Elise &amp; Mind</title>")
	assert.Contains(t, string(page), `<link rel="canonical" href="https://eliseandmind.com/blog/anxiete/calmer-ses-pensees"/>`)
	assert.Contains(t, out.String(), "  [1/1] /blog/anxiete/calmer-ses-pensees/\n")

	list, err := os.ReadFile(filepath.Join(root, DefaultListPage))
	require.NoError(t, err)
	assert.Contains(t, string(list), `<div class="blog-grille" id="blogGrille" data-prerendered="true">`)
	assert.Contains(t, string(list), "Calmer ses pensées")

	sitemap, err := os.ReadFile(filepath.Join(root, DefaultSitemap))
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "<loc>https://eliseandmind.com/blog/anxiete/calmer-ses-pensees</loc>")
}

func TestRunPaginatesListPage(t *testing.T) {
	root := siteRoot(t)
	var articles []content.Article
	for i := 0; i < 17; i++ {
		id := fmt.Sprintf("a%d", i)
		articles = append(articles, article(id, "Article "+id, "article-"+id, &anxiete, 1+i%28))
	}
	b := newBuilder(root, fakeSource{collections: []content.Collection{anxiete}, articles: articles})

	rep, err := b.Run(context.Background())
	require.NoError(t, err)
	require.True(t, rep.OK())
	assert.Equal(t, 16, rep.Cards)

	list, err := os.ReadFile(filepath.Join(root, DefaultListPage))
	require.NoError(t, err)
	assert.Equal(t, 16, strings.Count(string(list), `class="article-carte `))
	assert.Contains(t, string(list), `href="/mes-conseils?page=2" rel="next"`)
	assert.Contains(t, string(list), `aria-current="page">1<`)

	_, err = b.Run(context.Background())
	require.NoError(t, err)
	again, err := os.ReadFile(filepath.Join(root, DefaultListPage))
	require.NoError(t, err)
	assert.Equal(t, string(list), string(again), "rebuilding leaves the list page unchanged")
}

func TestRunScenarioCNoArticles(t *testing.T) {
	root := siteRoot(t)
	before, err := os.ReadFile(filepath.Join(root, DefaultListPage))
	require.NoError(t, err)

	rep, err := newBuilder(root, fakeSource{collections: []content.Collection{anxiete}}).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, rep.OK())
	assert.Zero(t, rep.Total)
	entries, err := os.ReadDir(filepath.Join(root, "blog"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the template remains")
	after, err := os.ReadFile(filepath.Join(root, DefaultListPage))
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.NoFileExists(t, filepath.Join(root, DefaultSitemap))
}

func TestRunIsolatesArticleFailures(t *testing.T) {
	root := siteRoot(t)
	var out bytes.Buffer
	reg := prometheus.NewRegistry()
	b := newBuilder(root, fakeSource{
		articles: []content.Article{
			article("1", "Premier", "premier", nil, 3),
			article("2", "Cassé", "..", nil, 2),
			article("3", "Dernier", "dernier", &anxiete, 1),
		},
	})
	b.Out = &out
	b.Metrics = NewMetrics(reg)

	rep, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, rep.OK())
	assert.Equal(t, []string{"/blog/blog/premier", "/blog/anxiete/dernier"}, rep.Generated)
	require.Len(t, rep.Failed, 1)
	assert.True(t, errors.Is(rep.Failed[0].Err, errUnsafeSegment))
	assert.FileExists(t, filepath.Join(root, "blog", "anxiete", "dernier", "index.html"))
	assert.Equal(t, 3, rep.Cards, "list page still rendered")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Contains(t, lines, "  [1/3] /blog/blog/premier/")
	assert.Contains(t, lines[2], "[2/3] /blog/blog/../ FAILED")
	assert.Contains(t, lines, "  [3/3] /blog/anxiete/dernier/")

	assert.Equal(t, 2.0, testutil.ToFloat64(b.Metrics.articles.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.Metrics.articles.WithLabelValues("failed")))
}

func TestRunConcurrentKeepsOrder(t *testing.T) {
	root := siteRoot(t)
	var articles []content.Article
	for i := 1; i <= 20; i++ {
		articles = append(articles, article(string(rune('a'+i)), "Titre", "article-"+string(rune('a'+i)), &anxiete, i))
	}
	var out bytes.Buffer
	b := newBuilder(root, fakeSource{collections: []content.Collection{anxiete}, articles: articles})
	b.Workers = 4
	b.Out = &out

	rep, err := b.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rep.Generated, 20)
	for i, a := range articles {
		assert.Equal(t, a.Path(), rep.Generated[i])
	}
	assert.Equal(t, 16, rep.Cards)
}

func TestRunFailsLoudOnBrokenTemplate(t *testing.T) {
	root := siteRoot(t)
	tmpl := filepath.Join(root, DefaultTemplate)
	data, err := os.ReadFile(tmpl)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(tmpl, []byte(strings.Replace(string(data), `<meta name="description" content="">`, "", 1)), 0o644))

	rep, err := newBuilder(root, fakeSource{articles: []content.Article{article("1", "T", "t", nil, 1)}}).Run(context.Background())

	require.ErrorIs(t, err, render.ErrMissingAnchor)
	assert.Empty(t, rep.Generated)
	assert.NoDirExists(t, filepath.Join(root, "blog", "blog"))
}

func TestRunSourceError(t *testing.T) {
	_, err := newBuilder(t.TempDir(), fakeSource{err: errors.New("boom")}).Run(context.Background())
	assert.ErrorContains(t, err, "load collections")
}
