package pressroom

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/render"
)

const maxAPILimit = 100

// ArticlePage is the JSON body of GET /api/articles.
type ArticlePage struct {
	Articles []content.Article `json:"articles"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
}

type apiError struct {
	Error string `json:"error"`
}

func (a *App) handleAPIArticles(c echo.Context) error {
	articles, err := a.Cache.ListArticles(c.Request().Context(), c.QueryParam("collection"))
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = a.Config.Site.PageSize
	}
	limit = min(limit, maxAPILimit)
	page, _ := strconv.Atoi(c.QueryParam("page"))
	p := render.Paginate(len(articles), limit, page)
	return c.JSON(http.StatusOK, ArticlePage{
		Articles: append([]content.Article{}, articles[p.Offset:p.Offset+p.Count]...),
		Total:    p.Total,
		Page:     p.Page,
		Pages:    p.Pages,
	})
}

func (a *App) handleAPIArticle(c echo.Context) error {
	art, err := a.Cache.GetArticle(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, content.ErrNotFound) {
		return c.JSON(http.StatusNotFound, apiError{Error: "not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, art)
}

// handleAPIArticleHTML serves the article element contents for client-side
// hydration of pages that were not pre-rendered.
func (a *App) handleAPIArticleHTML(c echo.Context) error {
	ctx := c.Request().Context()
	art, err := a.Cache.GetArticle(ctx, c.Param("slug"))
	if errors.Is(err, content.ErrNotFound) {
		return c.NoContent(http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	pg, err := a.page(ctx, art)
	if err != nil {
		return err
	}
	out, err := render.ArticleFragment(a.Config.Site, pg)
	if err != nil {
		return err
	}
	return c.HTML(http.StatusOK, out)
}

// handleAPICards serves the rendered cards and pagination widget of one list
// page, for client-side hydration of the list document.
func (a *App) handleAPICards(c echo.Context) error {
	collection := c.QueryParam("collection")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	cards, p, err := a.listPage(c.Request().Context(), collection, page)
	if err != nil {
		return err
	}
	out, err := render.RenderListPage(a.Config.Site, collection, cards, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleAPICollections(c echo.Context) error {
	collections, err := a.Cache.Collections(c.Request().Context())
	if err != nil {
		return err
	}
	if collections == nil {
		collections = []content.Collection{}
	}
	return c.JSON(http.StatusOK, collections)
}

type newsletterResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func (a *App) handleNewsletter(c echo.Context) error {
	var sub Subscription
	if err := c.Bind(&sub); err != nil {
		return c.JSON(http.StatusBadRequest, newsletterResponse{Message: "Requête invalide"})
	}
	if err := sub.Validate(); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, newsletterResponse{Message: firstError(err)})
	}
	_, err := a.Store.AddSubscriber(c.Request().Context(), sub.Email, sub.Consent)
	switch {
	case errors.Is(err, content.ErrAlreadySubscribed):
		return c.JSON(http.StatusOK, newsletterResponse{OK: true, Message: "Vous êtes déjà inscrit(e)."})
	case err != nil:
		a.Log.Error().Err(err).Msg("newsletter signup")
		return c.JSON(http.StatusServiceUnavailable, newsletterResponse{Message: msgTransient})
	}
	return c.JSON(http.StatusCreated, newsletterResponse{OK: true, Message: "Merci pour votre inscription !"})
}
