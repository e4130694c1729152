package pressroom

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/views"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (a *App) handleSubscribers(c echo.Context) error {
	subs, err := a.Store.ListSubscribers(c.Request().Context())
	if err != nil {
		return a.adminError(c, err, "")
	}
	return Render(c, views.Subscribers(views.SubscribersPage{
		Layout:      layout(c, "Abonnés", "subscribers"),
		Subscribers: subs,
	}))
}

// handleSubscribersExport streams the subscriber list as a spreadsheet.
func (a *App) handleSubscribersExport(c echo.Context) error {
	subs, err := a.Store.ListSubscribers(c.Request().Context())
	if err != nil {
		return a.adminError(c, err, "/admin/subscribers/")
	}
	f, err := subscribersWorkbook(subs)
	if err != nil {
		return a.adminError(c, err, "/admin/subscribers/")
	}
	defer f.Close()

	name := "abonnes-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentType, xlsxType)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}

const subscribersSheet = "Abonnés"

func subscribersWorkbook(subs []content.Subscriber) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", subscribersSheet); err != nil {
		f.Close()
		return nil, err
	}
	rows := [][]any{{"Email", "Consentement RGPD", "Inscrit le"}}
	for _, s := range subs {
		consent := "non"
		if s.Consent {
			consent = "oui"
		}
		rows = append(rows, []any{s.Email, consent, s.CreatedAt.Format("2006-01-02 15:04")})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(subscribersSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.SetColWidth(subscribersSheet, "A", "A", 40); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
