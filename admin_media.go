package pressroom

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pressroom/views"
)

const featuredPrefix = "featured-"

func (a *App) handleMediaList(c echo.Context) error {
	items, err := a.Store.ListMedia(c.Request().Context())
	if err != nil {
		return a.adminError(c, err, "")
	}
	return Render(c, views.Media(views.MediaPage{Layout: layout(c, "Médiathèque", "media"), Items: items}))
}

// handleMediaUpload stores every file of the "files" field. Files that fail
// are reported together; the others are kept.
func (a *App) handleMediaUpload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		flash(c, "error", "Aucun fichier reçu")
		return c.Redirect(http.StatusSeeOther, "/admin/media/")
	}
	files := form.File["files"]
	if len(files) == 0 {
		flash(c, "error", "Aucun fichier reçu")
		return c.Redirect(http.StatusSeeOther, "/admin/media/")
	}
	s := adminFrom(c)
	var failed []string
	stored := 0
	for _, fh := range files {
		if _, err := a.storeUpload(c.Request().Context(), fh, "", s.Email); err != nil {
			ae := classify(err)
			if ae.Kind == KindTransient {
				a.Log.Error().Err(err).Str("file", fh.Filename).Msg("media upload failed")
			}
			failed = append(failed, fh.Filename+" : "+ae.Message)
			continue
		}
		stored++
	}
	if stored > 0 {
		flash(c, "success", strconv.Itoa(stored)+" fichier(s) importé(s)")
	}
	if len(failed) > 0 {
		flash(c, "error", strings.Join(failed, " ; "))
	}
	return c.Redirect(http.StatusSeeOther, "/admin/media/")
}

type uploadResponse struct {
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// handleFeaturedUpload stores the editor's featured image and answers with its URL.
func (a *App) handleFeaturedUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{Message: "Aucun fichier reçu"})
	}
	m, err := a.storeUpload(c.Request().Context(), fh, featuredPrefix, adminFrom(c).Email)
	if err != nil {
		ae := classify(err)
		if ae.Kind == KindTransient {
			a.Log.Error().Err(err).Str("file", fh.Filename).Msg("featured upload failed")
		}
		return c.JSON(ae.Status(), uploadResponse{Message: ae.Message})
	}
	return c.JSON(http.StatusCreated, uploadResponse{URL: m.URL, Message: "Image importée"})
}

func (a *App) handleMediaDetail(c echo.Context) error {
	m, err := a.Store.GetMedia(c.Request().Context(), c.Param("id"))
	if err != nil {
		return a.adminError(c, err, "/admin/media/")
	}
	return Render(c, views.MediaDetail(views.MediaDetailPage{Layout: layout(c, m.Filename, "media"), Item: m}))
}

func (a *App) handleMediaUpdate(c echo.Context) error {
	id := c.Param("id")
	alt := strings.TrimSpace(c.FormValue("alt_text"))
	if err := a.Store.UpdateMediaAlt(c.Request().Context(), id, alt); err != nil {
		return a.adminError(c, err, "/admin/media/")
	}
	flash(c, "success", "Texte alternatif enregistré")
	return c.Redirect(http.StatusSeeOther, "/admin/media/"+id+"/")
}

func (a *App) handleMediaDelete(c echo.Context) error {
	if err := a.removeMedia(c.Request().Context(), c.Param("id")); err != nil {
		return a.adminError(c, err, "/admin/media/")
	}
	flash(c, "success", "Média supprimé")
	return c.Redirect(http.StatusSeeOther, "/admin/media/")
}
