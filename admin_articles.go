package pressroom

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/markdown"
	"github.com/eringen/pressroom/render"
	"github.com/eringen/pressroom/views"
)

const articlesPerPage = 20

func (a *App) handleArticleList(c echo.Context) error {
	ctx := c.Request().Context()
	p := views.ArticlesPage{
		Layout:       layout(c, "Articles", "articles"),
		Status:       c.QueryParam("status"),
		CollectionID: c.QueryParam("collection"),
		Search:       strings.TrimSpace(c.QueryParam("q")),
	}
	q := content.ArticleQuery{
		CollectionID: p.CollectionID,
		Search:       p.Search,
		Order:        content.OrderUpdated,
	}
	if s := content.Status(p.Status); s.Valid() {
		q.Status = s
	} else {
		p.Status = ""
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	articles, total, err := a.Store.ListArticles(ctx, q.PageQuery(page, articlesPerPage))
	if err != nil {
		return a.adminError(c, err, "")
	}
	p.Pagination = render.Paginate(total, articlesPerPage, page)
	if p.Pagination.Page != page && total > 0 {
		articles, _, err = a.Store.ListArticles(ctx, q.PageQuery(p.Pagination.Page, articlesPerPage))
		if err != nil {
			return a.adminError(c, err, "")
		}
	}
	p.Articles = articles
	if p.Collections, err = a.Store.ListCollections(ctx); err != nil {
		return a.adminError(c, err, "")
	}
	return Render(c, views.Articles(p))
}

func (a *App) editorPage(c echo.Context, art content.Article, isNew bool, msg string) (views.EditorPage, error) {
	collections, err := a.Store.ListCollections(c.Request().Context())
	if err != nil {
		return views.EditorPage{}, err
	}
	p := views.EditorPage{
		Layout:      layout(c, "Éditeur", "articles"),
		Article:     art,
		Collections: collections,
		IsNew:       isNew,
		Error:       msg,
	}
	if art.IsPublished() && art.Slug != "" {
		p.PublicURL = art.Path() + "/"
	}
	return p, nil
}

func (a *App) handleArticleNew(c echo.Context) error {
	adminFrom(c).ClearDraft()
	p, err := a.editorPage(c, content.Article{IsIndexed: true, Status: content.StatusDraft, ContentFormat: content.FormatHTML}, true, "")
	if err != nil {
		return a.adminError(c, err, "/admin/articles/")
	}
	return Render(c, views.Editor(p))
}

func (a *App) handleArticleEdit(c echo.Context) error {
	art, err := a.Store.GetArticle(c.Request().Context(), c.Param("id"))
	if err != nil {
		return a.adminError(c, err, "/admin/articles/")
	}
	adminFrom(c).ClearDraft()
	p, err := a.editorPage(c, art, false, "")
	if err != nil {
		return a.adminError(c, err, "/admin/articles/")
	}
	return Render(c, views.Editor(p))
}

// handleArticleSave creates or updates an article. mode=draft forces the
// draft status; any other mode keeps the status chosen in the form.
func (a *App) handleArticleSave(c echo.Context) error {
	var f ArticleForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f.ID = c.Param("id")
	if c.FormValue("mode") == "draft" {
		f.Status = string(content.StatusDraft)
	}
	s := adminFrom(c)
	art, err := a.saveArticle(c.Request().Context(), s, f)
	if err != nil {
		ae := classify(err)
		if ae.Kind != KindValidation {
			return a.adminError(c, err, "/admin/articles/")
		}
		f.Normalize()
		p, perr := a.editorPage(c, f.Article(s.Email), f.ID == "", ae.Message)
		if perr != nil {
			return a.adminError(c, perr, "/admin/articles/")
		}
		return RenderStatus(c, http.StatusUnprocessableEntity, views.Editor(p))
	}
	s.ClearDraft()
	if art.IsPublished() {
		flash(c, "success", "Article publié")
	} else {
		flash(c, "success", "Brouillon enregistré")
	}
	return c.Redirect(http.StatusSeeOther, "/admin/articles/"+art.ID+"/")
}

// saveArticle validates and stores f for the admin s. Validation failures and
// duplicate slugs come back as KindValidation errors and nothing is written.
func (a *App) saveArticle(ctx context.Context, s *AdminSession, f ArticleForm) (content.Article, error) {
	f.Normalize()
	if err := f.Validate(); err != nil {
		return content.Article{}, validationError(firstError(err))
	}
	art, err := a.Store.SaveArticle(ctx, f.Article(s.Email))
	if err != nil {
		return content.Article{}, err
	}
	a.mutated()
	return art, nil
}

// autosave is the Autosaver callback. New articles never reach it.
func (a *App) autosave(ctx context.Context, s *AdminSession, f ArticleForm) error {
	_, err := a.saveArticle(ctx, s, f)
	return err
}

// handleArticleDraft records the editor content for the next autosave tick.
func (a *App) handleArticleDraft(c echo.Context) error {
	var f ArticleForm
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, apiError{Error: err.Error()})
	}
	f.ID = c.Param("id")
	if !validID(f.ID) {
		return c.JSON(http.StatusNotFound, apiError{Error: msgNotFound})
	}
	adminFrom(c).SetDraft(f)
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleArticleDelete(c echo.Context) error {
	if err := a.Store.DeleteArticle(c.Request().Context(), c.Param("id")); err != nil {
		return a.adminError(c, err, "/admin/articles/")
	}
	a.mutated()
	adminFrom(c).ClearDraft()
	flash(c, "success", "Article supprimé")
	return c.Redirect(http.StatusSeeOther, "/admin/articles/")
}

type slugCheck struct {
	Slug      string `json:"slug"`
	Available bool   `json:"available"`
}

func (a *App) handleSlugCheck(c echo.Context) error {
	s := strings.TrimSpace(c.QueryParam("slug"))
	if s == "" {
		return c.JSON(http.StatusBadRequest, apiError{Error: "slug requis"})
	}
	ok, err := a.Store.SlugAvailable(c.Request().Context(), s, c.QueryParam("exclude"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slugCheck{Slug: s, Available: ok})
}

// handlePreview renders a markdown body for the editor preview pane.
func (a *App) handlePreview(c echo.Context) error {
	src := c.FormValue("content")
	if _, err := markdown.ToHTML(src); err != nil {
		return c.String(http.StatusUnprocessableEntity, err.Error())
	}
	return Render(c, markdown.Markdown(src))
}
