// Package pressroom is the backoffice of a static blog: an Echo server with
// an authenticated admin UI for articles, collections, media and newsletter
// subscribers, a small public surface rendering the same pages the static
// build writes, and the glue that runs builds in-process.
package pressroom

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/eringen/pressroom/blob"
	"github.com/eringen/pressroom/build"
)

// App is the central pressroom application. It wires together the store,
// cache, blob storage, sessions, handlers and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *ArticleCache
	Log      zerolog.Logger
	Registry *prometheus.Registry

	auth            Authenticator
	bucket          blob.Bucket
	sessions        *SessionRegistry
	loginLimiter    *LoginLimiter
	autosaver       *Autosaver
	buildMetrics    *build.Metrics
	articleTemplate siteTemplate
	rebuildMu       sync.Mutex
	customRoutes    []func(*App)
	ownsStore       bool
}

// New creates a pressroom App with the given configuration.
func New(cfg SiteConfig, log zerolog.Logger, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		Log:      log,
		Registry: prometheus.NewRegistry(),
		sessions: NewSessionRegistry(sessionTTL),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the store and blob storage and registers middleware and routes.
// Start calls it; tests call it directly and drive a.Echo with httptest.
func (a *App) Init(ctx context.Context) error {
	if err := a.Config.validate(); err != nil {
		return err
	}

	if a.Store == nil {
		store, err := NewStore(a.Config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("pressroom: init store: %w", err)
		}
		a.Store = store
		a.ownsStore = true
	}

	if a.bucket == nil {
		bucket, err := a.openBucket(ctx)
		if err != nil {
			return fmt.Errorf("pressroom: init blob storage: %w", err)
		}
		a.bucket = bucket
	}

	if a.auth == nil {
		a.auth = NewGoogleAuth(a.Config.GoogleClientID, a.Config.GoogleClientSecret, a.Config.GoogleRedirectURL)
	}

	a.Cache = NewArticleCache(a.Store, a.Config.CacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.autosaver = &Autosaver{
		sessions: a.sessions,
		save:     a.autosave,
		interval: a.Config.AutosaveInterval,
		log:      a.Log.With().Str("component", "autosave").Logger(),
	}

	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.buildMetrics = build.NewMetrics(a.Registry)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) openBucket(ctx context.Context) (blob.Bucket, error) {
	switch a.Config.BlobBackend {
	case "minio":
		return blob.NewMinIO(ctx, a.Config.MinIO)
	default:
		if err := os.MkdirAll(a.Config.UploadsDir, 0o755); err != nil {
			return nil, err
		}
		return blob.NewDisk(a.Config.UploadsDir, a.Config.UploadsPrefix), nil
	}
}

// Start initializes the app, runs the autosaver and serves until ctx is done.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.autosaver.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		a.Log.Info().Str("addr", a.Config.Addr).Str("url", a.Config.Site.URL).Msg("server started")
		errc <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	a.Log.Info().Msg("shutting down")
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// pressroom's own scripts and styles, then the site itself
	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/static/pressroom/*", echo.WrapHandler(http.StripPrefix("/static/pressroom/", http.FileServer(http.FS(assets)))))
	if a.Config.BlobBackend == "disk" {
		e.Static(a.Config.UploadsPrefix, a.Config.UploadsDir)
	}
	e.Static("/", a.Config.SiteRoot)

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/healthz", a.handleHealth)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: a.Registry}))

	e.GET("/blog/:collection/:slug/", a.handleArticle)
	e.GET(a.Config.Site.ListPath+"/", a.handleList)

	api := e.Group("/api")
	api.GET("/articles", a.handleAPIArticles)
	api.GET("/articles/:slug", a.handleAPIArticle)
	api.GET("/articles/:slug/html", a.handleAPIArticleHTML)
	api.GET("/cards", a.handleAPICards)
	api.GET("/collections", a.handleAPICollections)
	api.POST("/newsletter", a.handleNewsletter, a.newsletterLimiter())

	e.GET("/admin/login/", a.handleLoginPage)
	e.POST("/admin/login/", a.handleLoginStart)
	e.GET("/admin/auth/callback/", a.handleAuthCallback)

	admin := e.Group("/admin", a.requireAdmin)
	admin.POST("/logout/", a.handleLogout)
	admin.GET("/", a.handleDashboard)
	admin.GET("/articles/", a.handleArticleList)
	admin.GET("/articles/new/", a.handleArticleNew)
	admin.GET("/articles/slug-check", a.handleSlugCheck)
	admin.POST("/articles/", a.handleArticleSave)
	admin.GET("/articles/:id/", a.handleArticleEdit)
	admin.POST("/articles/:id/", a.handleArticleSave)
	admin.PUT("/articles/:id/draft", a.handleArticleDraft)
	admin.POST("/articles/:id/delete/", a.handleArticleDelete)
	admin.POST("/preview/", a.handlePreview)
	admin.GET("/collections/", a.handleCollections)
	admin.POST("/collections/", a.handleCollectionSave)
	admin.POST("/collections/:id/delete/", a.handleCollectionDelete)
	admin.GET("/media/", a.handleMediaList)
	admin.POST("/media/upload/", a.handleMediaUpload)
	admin.POST("/media/featured/", a.handleFeaturedUpload)
	admin.GET("/media/:id/", a.handleMediaDetail)
	admin.POST("/media/:id/", a.handleMediaUpdate)
	admin.POST("/media/:id/delete/", a.handleMediaDelete)
	admin.GET("/subscribers/", a.handleSubscribers)
	admin.GET("/subscribers/export.xlsx", a.handleSubscribersExport)
	admin.POST("/rebuild/", a.handleRebuild)
}

// Builder returns a build.Builder over the site root, reading from the store.
func (a *App) Builder() *build.Builder {
	return &build.Builder{
		Source:  a.Store,
		Root:    a.Config.SiteRoot,
		Site:    a.Config.Site,
		Workers: a.Config.BuildWorkers,
		Log:     a.Log.With().Str("component", "build").Logger(),
		Metrics: a.buildMetrics,
	}
}

func (a *App) sitePath(name string) string {
	return filepath.Join(a.Config.SiteRoot, filepath.FromSlash(name))
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil && a.ownsStore {
		return a.Store.Close()
	}
	return nil
}
