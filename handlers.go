package pressroom

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pressroom/build"
	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/render"
	"github.com/eringen/pressroom/views"
)

// siteTemplate is the parsed article template, reloaded when the file changes.
type siteTemplate struct {
	mu   sync.Mutex
	mod  time.Time
	tmpl *render.Template
}

func (s *siteTemplate) get(path string) (*render.Template, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tmpl != nil && info.ModTime().Equal(s.mod) {
		return s.tmpl, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tmpl, err := render.ParseTemplate(string(src))
	if err != nil {
		return nil, err
	}
	s.tmpl, s.mod = tmpl, info.ModTime()
	return tmpl, nil
}

// page assembles the render input of one article from the cache.
func (a *App) page(ctx context.Context, art content.Article) (render.Page, error) {
	collections, err := a.Cache.Collections(ctx)
	if err != nil {
		return render.Page{}, err
	}
	all, err := a.Cache.PublishedArticles(ctx)
	if err != nil {
		return render.Page{}, err
	}
	return render.Page{
		Article: art,
		Related: render.Related(art, all, render.SidebarSize),
		Badges:  render.NewBadges(collections),
	}, nil
}

func (a *App) handleArticle(c echo.Context) error {
	ctx := c.Request().Context()
	art, err := a.Cache.GetArticle(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound())
		}
		return err
	}
	if c.Param("collection") != art.CollectionSlug() {
		return c.Redirect(http.StatusMovedPermanently, art.Path()+"/")
	}
	pg, err := a.page(ctx, art)
	if err != nil {
		return err
	}
	tmpl, err := a.articleTemplate.get(a.sitePath(build.DefaultTemplate))
	if err != nil {
		return err
	}
	out, err := tmpl.Render(a.Config.Site, pg, render.ModeHydrate)
	if err != nil {
		return err
	}
	return c.HTML(http.StatusOK, out)
}

// listPage renders one page of the published listing, optionally filtered on
// a collection. The list page and the cards API both go through it.
func (a *App) listPage(ctx context.Context, collection string, page int) ([]render.Card, render.Pagination, error) {
	articles, err := a.Cache.ListArticles(ctx, collection)
	if err != nil {
		return nil, render.Pagination{}, err
	}
	collections, err := a.Cache.Collections(ctx)
	if err != nil {
		return nil, render.Pagination{}, err
	}
	p := render.Paginate(len(articles), a.Config.Site.PageSize, page)
	cards := render.Cards(a.Config.Site, render.NewBadges(collections), articles[p.Offset:p.Offset+p.Count])
	return cards, p, nil
}

func (a *App) handleList(c echo.Context) error {
	collection := c.QueryParam("collection")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	cards, p, err := a.listPage(c.Request().Context(), collection, page)
	if err != nil {
		return err
	}
	widget, err := render.PaginationHTML(a.Config.Site, collection, p)
	if err != nil {
		return err
	}

	doc, err := os.ReadFile(a.sitePath(build.DefaultListPage))
	if err != nil {
		return err
	}
	out, err := render.SpliceListPage(string(doc), cards, widget)
	if err != nil {
		return err
	}
	return c.HTML(http.StatusOK, out)
}

func (a *App) handleSitemap(c echo.Context) error {
	articles, err := a.Cache.PublishedArticles(c.Request().Context())
	if err != nil {
		return err
	}
	out, err := render.MarshalSitemap(render.Sitemap(a.Config.Site, articles))
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", out)
}

func (a *App) handleFeed(c echo.Context) error {
	articles, err := a.Cache.PublishedArticles(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, articles)
}

func (a *App) handleRobots(c echo.Context) error {
	path := a.sitePath("robots.txt")
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	return c.String(http.StatusOK, "User-agent: *\nDisallow: /admin/\nDisallow: /api/\n\nSitemap: "+a.Config.Site.URL+"/sitemap.xml\n")
}

func (a *App) handleHealth(c echo.Context) error {
	if err := a.Store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
