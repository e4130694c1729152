package pressroom

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/views"
)

func (a *App) collectionsPage(c echo.Context, form content.Collection, msg string) (views.CollectionsPage, error) {
	ctx := c.Request().Context()
	p := views.CollectionsPage{
		Layout: layout(c, "Collections", "collections"),
		Form:   form,
		Error:  msg,
	}
	var err error
	if p.Collections, err = a.Store.ListCollections(ctx); err != nil {
		return p, err
	}
	if p.Counts, err = a.Store.CollectionArticleCounts(ctx); err != nil {
		return p, err
	}
	return p, nil
}

// handleCollections lists collections. ?edit=<id> loads one into the form.
func (a *App) handleCollections(c echo.Context) error {
	var form content.Collection
	if id := c.QueryParam("edit"); id != "" {
		col, err := a.Store.GetCollection(c.Request().Context(), id)
		if err != nil {
			return a.adminError(c, err, "/admin/collections/")
		}
		form = col
	}
	p, err := a.collectionsPage(c, form, "")
	if err != nil {
		return a.adminError(c, err, "")
	}
	return Render(c, views.Collections(p))
}

func (a *App) handleCollectionSave(c echo.Context) error {
	var f CollectionForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f.Normalize()
	col := content.Collection{ID: f.ID, Name: f.Name, Slug: f.Slug, Description: f.Description}

	err := f.Validate()
	if err != nil {
		err = validationError(firstError(err))
	} else {
		_, err = a.Store.SaveCollection(c.Request().Context(), col)
	}
	if err != nil {
		ae := classify(err)
		if ae.Kind != KindValidation {
			return a.adminError(c, err, "/admin/collections/")
		}
		p, perr := a.collectionsPage(c, col, ae.Message)
		if perr != nil {
			return a.adminError(c, perr, "")
		}
		return RenderStatus(c, http.StatusUnprocessableEntity, views.Collections(p))
	}
	a.mutated()
	if f.ID == "" {
		flash(c, "success", "Collection créée")
	} else {
		flash(c, "success", "Collection mise à jour")
	}
	return c.Redirect(http.StatusSeeOther, "/admin/collections/")
}

// handleCollectionDelete refuses collections that still hold articles. The
// count check gives the usual message; the store's foreign key covers races.
func (a *App) handleCollectionDelete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	counts, err := a.Store.CollectionArticleCounts(ctx)
	if err != nil {
		return a.adminError(c, err, "/admin/collections/")
	}
	if counts[id] > 0 {
		return a.adminError(c, content.ErrCollectionInUse, "/admin/collections/")
	}
	if err := a.Store.DeleteCollection(ctx, id); err != nil {
		return a.adminError(c, err, "/admin/collections/")
	}
	a.mutated()
	flash(c, "success", "Collection supprimée")
	return c.Redirect(http.StatusSeeOther, "/admin/collections/")
}
