// Package build pre-renders published articles to static HTML: one page per
// article, the first page of the list document and a sitemap.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/render"
)

// Default locations, relative to the site root.
const (
	DefaultTemplate = "blog/index.html"
	DefaultListPage = "mes-conseils.html"
	DefaultSitemap  = "sitemap.xml"
)

// Source supplies the content of one build.
type Source interface {
	// Collections returns all collections ordered by creation.
	Collections(ctx context.Context) ([]content.Collection, error)
	// PublishedArticles returns published articles joined with their
	// collection, newest first.
	PublishedArticles(ctx context.Context) ([]content.Article, error)
}

// Builder runs static builds of one site root.
type Builder struct {
	Source   Source
	Root     string
	Site     render.Site
	Template string // article template, default DefaultTemplate
	ListPage string // list document, default DefaultListPage
	Sitemap  string // default DefaultSitemap; "-" disables it
	Workers  int    // concurrent article renders, default 1
	Log      zerolog.Logger
	Metrics  *Metrics
	Out      io.Writer // progress lines, default discarded
}

// Failure is one article that could not be generated.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes a build.
type Report struct {
	Total     int
	Generated []string
	Failed    []Failure
	Cards     int
	Duration  time.Duration
}

// OK reports whether every article was generated.
func (r Report) OK() bool { return len(r.Failed) == 0 }

// Summary is a one-line human readable outcome.
func (r Report) Summary() string {
	if r.Total == 0 {
		return "no published article, nothing generated"
	}
	return fmt.Sprintf("%d/%d page(s) generated, %d failed, %d card(s) in list page (%s)",
		len(r.Generated), r.Total, len(r.Failed), r.Cards, r.Duration.Round(time.Millisecond))
}

func (b *Builder) setDefaults() {
	if b.Template == "" {
		b.Template = DefaultTemplate
	}
	if b.ListPage == "" {
		b.ListPage = DefaultListPage
	}
	if b.Sitemap == "" {
		b.Sitemap = DefaultSitemap
	}
	if b.Workers < 1 {
		b.Workers = 1
	}
	if b.Out == nil {
		b.Out = io.Discard
	}
	b.Site = b.Site.WithDefaults()
}

// Run performs one build. Errors before the article loop (loading content,
// reading or parsing the template and list document) abort the build and are
// returned. A failing article is recorded in the report and does not stop the
// others; check Report.OK.
func (b *Builder) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	b.setDefaults()
	var rep Report

	collections, err := b.Source.Collections(ctx)
	if err != nil {
		return rep, fmt.Errorf("build: load collections: %w", err)
	}
	articles, err := b.Source.PublishedArticles(ctx)
	if err != nil {
		return rep, fmt.Errorf("build: load articles: %w", err)
	}
	fmt.Fprintf(b.Out, "%d collection(s), %d published article(s)\n", len(collections), len(articles))
	if len(articles) == 0 {
		b.Log.Info().Msg("no published article, leaving output untouched")
		return rep, nil
	}

	src, err := os.ReadFile(filepath.Join(b.Root, b.Template))
	if err != nil {
		return rep, fmt.Errorf("build: read template: %w", err)
	}
	tmpl, err := render.ParseTemplate(string(src))
	if err != nil {
		return rep, fmt.Errorf("build: %s: %w", b.Template, err)
	}
	listPath := filepath.Join(b.Root, b.ListPage)
	listDoc, err := os.ReadFile(listPath)
	if err != nil {
		return rep, fmt.Errorf("build: read list page: %w", err)
	}

	badges := render.NewBadges(collections)
	rep.Total = len(articles)
	if err := b.renderAll(ctx, tmpl, badges, articles, &rep); err != nil {
		return rep, err
	}

	pager := render.Paginate(len(articles), b.Site.PageSize, 1)
	cards := render.Cards(b.Site, badges, articles[:pager.Count])
	widget, err := render.PaginationHTML(b.Site, "", pager)
	if err != nil {
		return rep, fmt.Errorf("build: %s: %w", b.ListPage, err)
	}
	spliced, err := render.SpliceListPage(string(listDoc), cards, widget)
	if err != nil {
		return rep, fmt.Errorf("build: %s: %w", b.ListPage, err)
	}
	if err := writeFileAtomic(listPath, []byte(spliced)); err != nil {
		return rep, fmt.Errorf("build: write list page: %w", err)
	}
	rep.Cards = len(cards)
	fmt.Fprintf(b.Out, "%d card(s) pre-rendered in %s\n", rep.Cards, b.ListPage)

	if b.Sitemap != "-" {
		data, err := render.MarshalSitemap(render.Sitemap(b.Site, articles))
		if err != nil {
			return rep, fmt.Errorf("build: sitemap: %w", err)
		}
		if err := writeFileAtomic(filepath.Join(b.Root, b.Sitemap), data); err != nil {
			return rep, fmt.Errorf("build: write sitemap: %w", err)
		}
	}

	rep.Duration = time.Since(start)
	b.Metrics.observe(rep.Duration)
	b.Log.Info().
		Int("generated", len(rep.Generated)).
		Int("failed", len(rep.Failed)).
		Dur("duration", rep.Duration).
		Msg("build finished")
	return rep, nil
}

type result struct {
	index int
	path  string
	err   error
}

// renderAll renders articles on b.Workers goroutines and reports progress in
// input order.
func (b *Builder) renderAll(ctx context.Context, tmpl *render.Template, badges render.Badges, articles []content.Article, rep *Report) error {
	jobs := make(chan int)
	results := make(chan result)

	var wg sync.WaitGroup
	for w := 0; w < b.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				pg := render.Page{
					Article: articles[i],
					Related: render.Related(articles[i], articles, render.SidebarSize),
					Badges:  badges,
				}
				path, err := b.renderOne(tmpl, pg)
				results <- result{index: i, path: path, err: err}
			}
		}()
	}
	go func() {
	feed:
		for i := range articles {
			select {
			case jobs <- i:
			case <-ctx.Done():
				break feed
			}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	pending := make(map[int]result)
	next := 0
	for r := range results {
		pending[r.index] = r
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			b.record(rep, next, r)
		}
	}
	if next < len(articles) {
		return fmt.Errorf("build: interrupted after %d article(s): %w", next, context.Cause(ctx))
	}
	return nil
}

func (b *Builder) record(rep *Report, n int, r result) {
	if r.err != nil {
		rep.Failed = append(rep.Failed, Failure{Path: r.path, Err: r.err})
		b.Metrics.article(false)
		b.Log.Error().Err(r.err).Str("path", r.path).Msg("article failed")
		fmt.Fprintf(b.Out, "  [%d/%d] %s/ FAILED: %v\n", n, rep.Total, r.path, r.err)
		return
	}
	rep.Generated = append(rep.Generated, r.path)
	b.Metrics.article(true)
	fmt.Fprintf(b.Out, "  [%d/%d] %s/\n", n, rep.Total, r.path)
}

var errUnsafeSegment = errors.New("unsafe path segment")

// renderOne renders and writes one article. Panics are converted to errors
// so that one bad article cannot take the build down.
func (b *Builder) renderOne(tmpl *render.Template, pg render.Page) (path string, err error) {
	a := pg.Article
	path = a.Path()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v\n%s", p, debug.Stack())
		}
	}()
	for _, seg := range []string{a.CollectionSlug(), a.Slug} {
		if !safeSegment(seg) {
			return path, fmt.Errorf("%w: %q", errUnsafeSegment, seg)
		}
	}
	page, err := tmpl.Render(b.Site, pg, render.ModeStatic)
	if err != nil {
		return path, err
	}
	dest := filepath.Join(b.Root, "blog", a.CollectionSlug(), a.Slug, "index.html")
	if err := writeFileAtomic(dest, []byte(page)); err != nil {
		return path, err
	}
	return path, nil
}

func safeSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`+"\x00")
}
