package pressroom

import (
	"encoding/gob"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/pressroom/views"
)

const (
	sessionName  = "pressroom_admin"
	sessionIDKey = "sid"
	stateKey     = "oauth_state"
	adminCtxKey  = "admin"
	sessionTTL   = 12 * time.Hour
)

// EditState is the in-progress editor content of one article.
type EditState struct {
	Form      ArticleForm
	Dirty     bool
	ChangedAt time.Time
}

// AdminSession is the server-side state of one signed-in admin. It is created
// on login, destroyed on logout and handed to every admin handler.
type AdminSession struct {
	ID         string
	Email      string
	LoggedInAt time.Time

	mu     sync.Mutex
	editor *EditState
}

// SetDraft records the current editor content and marks it dirty.
func (s *AdminSession) SetDraft(f ArticleForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor = &EditState{Form: f, Dirty: true, ChangedAt: time.Now()}
}

// Draft returns a copy of the editor state, if any.
func (s *AdminSession) Draft() (EditState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editor == nil {
		return EditState{}, false
	}
	return *s.editor, true
}

// takeDirty returns the editor form when it is dirty and already has an
// identity, and clears the flag. New, never saved documents are skipped.
func (s *AdminSession) takeDirty() (ArticleForm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editor == nil || !s.editor.Dirty || s.editor.Form.ID == "" {
		return ArticleForm{}, false
	}
	s.editor.Dirty = false
	return s.editor.Form, true
}

// ClearDraft drops the editor state after a manual save or when leaving the editor.
func (s *AdminSession) ClearDraft() {
	s.mu.Lock()
	s.editor = nil
	s.mu.Unlock()
}

// SessionRegistry holds the live admin sessions keyed by an opaque id kept in
// the session cookie.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*AdminSession
	ttl      time.Duration
}

// NewSessionRegistry creates a registry whose sessions expire after ttl.
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*AdminSession), ttl: ttl}
}

// Create starts a session for email.
func (r *SessionRegistry) Create(email string) *AdminSession {
	s := &AdminSession{ID: uuid.NewString(), Email: email, LoggedInAt: time.Now()}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns a live session. Expired sessions are removed.
func (r *SessionRegistry) Get(id string) (*AdminSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Since(s.LoggedInAt) > r.ttl {
		delete(r.sessions, id)
		return nil, false
	}
	return s, true
}

// Destroy ends a session.
func (r *SessionRegistry) Destroy(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// All returns a snapshot of the live sessions. Expired sessions are removed.
func (r *SessionRegistry) All() []*AdminSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*AdminSession, 0, len(r.sessions))
	for id, s := range r.sessions {
		if time.Since(s.LoggedInAt) > r.ttl {
			delete(r.sessions, id)
			continue
		}
		out = append(out, s)
	}
	return out
}

func init() {
	gob.Register(views.Toast{})
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(sessionTTL / time.Second),
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// startSession registers s and binds it to the browser cookie.
func startSession(c echo.Context, s *AdminSession) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[sessionIDKey] = s.ID
	delete(sess.Values, stateKey)
	return sess.Save(c.Request(), c.Response())
}

func (a *App) endSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	if id, ok := sess.Values[sessionIDKey].(string); ok {
		a.sessions.Destroy(id)
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// currentAdmin returns the session bound to the request cookie, if live.
func (a *App) currentAdmin(c echo.Context) (*AdminSession, bool) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil, false
	}
	id, ok := sess.Values[sessionIDKey].(string)
	if !ok {
		return nil, false
	}
	return a.sessions.Get(id)
}

// requireAdmin rejects requests without a live admin session and exposes the
// session to handlers through adminFrom.
func (a *App) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, ok := a.currentAdmin(c)
		if !ok {
			if c.Request().Method == http.MethodGet {
				return c.Redirect(http.StatusSeeOther, "/admin/login/")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized)
		}
		c.Set(adminCtxKey, s)
		return next(c)
	}
}

func adminFrom(c echo.Context) *AdminSession {
	s, _ := c.Get(adminCtxKey).(*AdminSession)
	return s
}

// flash queues a toast for the next rendered admin page.
func flash(c echo.Context, kind, msg string) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return
	}
	sess.AddFlash(views.Toast{Kind: kind, Message: msg})
	_ = sess.Save(c.Request(), c.Response())
}

// toasts pops the queued toasts.
func toasts(c echo.Context) []views.Toast {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil
	}
	var out []views.Toast
	for _, f := range sess.Flashes() {
		if t, ok := f.(views.Toast); ok {
			out = append(out, t)
		}
	}
	if len(out) > 0 {
		_ = sess.Save(c.Request(), c.Response())
	}
	return out
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
