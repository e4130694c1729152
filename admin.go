package pressroom

import (
	"context"
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/views"
)

const loginRefused = "Connexion refusée. Votre compte n'est pas autorisé à accéder à l'administration."

func (a *App) handleLoginPage(c echo.Context) error {
	if _, ok := a.currentAdmin(c); ok {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	msg := ""
	if c.QueryParam("error") != "" {
		msg = loginRefused
	}
	return Render(c, views.Login(views.LoginPage{CSRF: CsrfToken(c), Error: msg}))
}

// handleLoginStart stores a fresh state in the cookie session and sends the
// browser to the provider's consent page.
func (a *App) handleLoginStart(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Trop de tentatives de connexion. Réessayez plus tard.")
	}
	state, err := newState()
	if err != nil {
		return err
	}
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[stateKey] = state
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, a.auth.AuthCodeURL(state))
}

// handleAuthCallback completes the OAuth flow. Every refusal leads to the same
// login message so the page does not reveal which check failed.
func (a *App) handleAuthCallback(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Trop de tentatives de connexion. Réessayez plus tard.")
	}
	refuse := func(reason string, err error) error {
		a.loginLimiter.Record(ip)
		a.Log.Warn().Err(err).Str("ip", ip).Str("reason", reason).Msg("admin login refused")
		return c.Redirect(http.StatusSeeOther, "/admin/login/?error=1")
	}

	sess, err := session.Get(sessionName, c)
	if err != nil {
		return refuse("session", err)
	}
	want, _ := sess.Values[stateKey].(string)
	if want == "" || c.QueryParam("state") != want {
		return refuse("state", nil)
	}
	email, err := a.auth.Email(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		return refuse("exchange", err)
	}
	ok, err := a.Store.IsAllowedAdmin(c.Request().Context(), email)
	if err != nil {
		return err
	}
	if !ok {
		return refuse("allow-list", content.ErrNotAuthorized)
	}

	s := a.sessions.Create(email)
	if err := startSession(c, s); err != nil {
		a.sessions.Destroy(s.ID)
		return err
	}
	a.Log.Info().Str("admin", email).Msg("admin signed in")
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleLogout(c echo.Context) error {
	if err := a.endSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/login/")
}

const recentCount = 5

func (a *App) handleDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	p := views.DashboardPage{Layout: layout(c, "Tableau de bord", "dashboard")}
	var err error
	if p.Total, err = a.Store.CountArticles(ctx, ""); err != nil {
		return a.adminError(c, err, "")
	}
	if p.Published, err = a.Store.CountArticles(ctx, content.StatusPublished); err != nil {
		return a.adminError(c, err, "")
	}
	p.Drafts = p.Total - p.Published
	if p.Recent, _, err = a.Store.ListArticles(ctx, content.ArticleQuery{Order: content.OrderUpdated, Limit: recentCount}); err != nil {
		return a.adminError(c, err, "")
	}
	return Render(c, views.Dashboard(p))
}

// handleRebuild runs a static build of the site root in-process.
func (a *App) handleRebuild(c echo.Context) error {
	if !a.rebuildMu.TryLock() {
		flash(c, "warning", "Une génération est déjà en cours")
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	defer a.rebuildMu.Unlock()

	rep, err := a.Builder().Run(context.WithoutCancel(c.Request().Context()))
	switch {
	case err != nil:
		a.Log.Error().Err(err).Msg("rebuild failed")
		flash(c, "error", "Échec de la génération : "+err.Error())
	case !rep.OK():
		for _, f := range rep.Failed {
			a.Log.Error().Err(f.Err).Str("path", f.Path).Msg("article not generated")
		}
		flash(c, "warning", rep.Summary())
	default:
		flash(c, "success", rep.Summary())
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// adminError reports err as a toast and redirects to back (the dashboard when
// empty). Transient errors are logged with their cause.
func (a *App) adminError(c echo.Context, err error, back string) error {
	ae := classify(err)
	if ae.Kind == KindTransient {
		a.Log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("admin operation failed")
	}
	flash(c, "error", ae.Message)
	if back == "" {
		back = "/admin/"
		if c.Path() == "/admin/" {
			return RenderStatus(c, http.StatusServiceUnavailable, views.ServerError())
		}
	}
	return c.Redirect(http.StatusSeeOther, back)
}

// mutated drops cached public content after any admin write.
func (a *App) mutated() {
	a.Cache.Invalidate()
}
