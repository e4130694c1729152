package pressroom

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/eringen/pressroom/blob"
	"github.com/eringen/pressroom/render"
)

// SiteConfig holds all configuration for a pressroom site.
type SiteConfig struct {
	Site        render.Site // rendering values shared with the static build
	Description string      // RSS channel description

	Addr        string // Listen address (default ":3000")
	DatabaseURL string // postgres:// URL or SQLite path (default "data/pressroom.db")
	SiteRoot    string // static site directory holding templates and generated pages (default "site")

	BlobBackend   string // "disk" (default) or "minio"
	UploadsDir    string // disk backend directory (default SiteRoot/uploads)
	UploadsPrefix string // disk backend public prefix (default "/uploads")
	MinIO         blob.MinIOConfig

	SessionSecret      string // Required: cookie encryption secret
	CookieSecure       bool   // Set true for HTTPS
	GoogleClientID     string // Required
	GoogleClientSecret string // Required
	GoogleRedirectURL  string // default Site.URL + "/admin/auth/callback/"

	CacheTTL         time.Duration // public article cache TTL (default 5min)
	AutosaveInterval time.Duration // editor autosave period (default 60s)
	BuildWorkers     int           // concurrent renders for in-process rebuilds (default 1)
	NewsletterRate   float64       // signups per second per IP (default 0.2)

	LogLevel  string // zerolog level (default "info")
	LogPretty bool   // console writer instead of JSON
}

func (c *SiteConfig) setDefaults() {
	c.Site = c.Site.WithDefaults()
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = "data/pressroom.db"
	}
	if c.SiteRoot == "" {
		c.SiteRoot = "site"
	}
	if c.BlobBackend == "" {
		c.BlobBackend = "disk"
	}
	if c.UploadsDir == "" {
		c.UploadsDir = strings.TrimRight(c.SiteRoot, "/") + "/uploads"
	}
	if c.UploadsPrefix == "" {
		c.UploadsPrefix = "/uploads"
	}
	if c.GoogleRedirectURL == "" {
		c.GoogleRedirectURL = c.Site.URL + "/admin/auth/callback/"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.AutosaveInterval == 0 {
		c.AutosaveInterval = 60 * time.Second
	}
	if c.BuildWorkers < 1 {
		c.BuildWorkers = 1
	}
	if c.NewsletterRate <= 0 {
		c.NewsletterRate = 0.2
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// validate reports every missing setting the server cannot start without.
func (c *SiteConfig) validate() error {
	var missing []string
	if c.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if c.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	if c.GoogleClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}
	if c.BlobBackend == "minio" {
		for key, v := range map[string]string{
			"MINIO_ENDPOINT":   c.MinIO.Endpoint,
			"MINIO_ACCESS_KEY": c.MinIO.AccessKey,
			"MINIO_SECRET_KEY": c.MinIO.SecretKey,
			"MINIO_BUCKET":     c.MinIO.Bucket,
		} {
			if v == "" {
				missing = append(missing, key)
			}
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("pressroom: required settings are not set: %s", strings.Join(missing, ", "))
	}
	if c.BlobBackend != "disk" && c.BlobBackend != "minio" {
		return fmt.Errorf("pressroom: unknown BLOB_BACKEND %q", c.BlobBackend)
	}
	return nil
}

// LoadConfig reads a .env file when present, then the optional YAML site file
// at sitePath (SITE_CONFIG, default "site.yaml"), then the environment.
// Environment variables win over the YAML file.
func LoadConfig(sitePath string) (SiteConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return SiteConfig{}, fmt.Errorf("pressroom: load .env: %w", err)
	}
	var cfg SiteConfig
	if sitePath == "" {
		sitePath = EnvOr("SITE_CONFIG", "site.yaml")
	}
	site, err := LoadSiteFile(sitePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return SiteConfig{}, err
	}
	cfg.Site = site

	setString(&cfg.Site.Name, "SITE_NAME")
	setString(&cfg.Site.URL, "SITE_URL")
	setString(&cfg.Site.Author, "SITE_AUTHOR")
	setString(&cfg.Description, "SITE_DESCRIPTION")
	setString(&cfg.Addr, "ADDR")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.SiteRoot, "SITE_ROOT")
	setString(&cfg.BlobBackend, "BLOB_BACKEND")
	setString(&cfg.UploadsDir, "UPLOADS_DIR")
	setString(&cfg.UploadsPrefix, "UPLOADS_PREFIX")
	setString(&cfg.MinIO.Endpoint, "MINIO_ENDPOINT")
	setString(&cfg.MinIO.AccessKey, "MINIO_ACCESS_KEY")
	setString(&cfg.MinIO.SecretKey, "MINIO_SECRET_KEY")
	setString(&cfg.MinIO.Bucket, "MINIO_BUCKET")
	setString(&cfg.MinIO.PublicURL, "MINIO_PUBLIC_URL")
	cfg.MinIO.UseSSL = envBool("MINIO_USE_SSL", false)
	setString(&cfg.SessionSecret, "SESSION_SECRET")
	setString(&cfg.GoogleClientID, "GOOGLE_CLIENT_ID")
	setString(&cfg.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&cfg.GoogleRedirectURL, "GOOGLE_REDIRECT_URL")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	cfg.LogPretty = envBool("LOG_PRETTY", false)
	cfg.CookieSecure = envBool("COOKIE_SECURE", strings.HasPrefix(cfg.Site.URL, "https://"))
	cfg.CacheTTL = envDuration("CACHE_TTL", 0)
	cfg.AutosaveInterval = envDuration("AUTOSAVE_INTERVAL", 0)
	cfg.BuildWorkers = envInt("BUILD_WORKERS", 0)
	if v, err := strconv.ParseFloat(os.Getenv("NEWSLETTER_RATE"), 64); err == nil {
		cfg.NewsletterRate = v
	}

	cfg.setDefaults()
	return cfg, nil
}

// LoadSiteFile parses the YAML site file at path. Unknown keys are rejected.
func LoadSiteFile(path string) (render.Site, error) {
	var site render.Site
	data, err := os.ReadFile(path)
	if err != nil {
		return site, err
	}
	if len(data) == 0 {
		return site, nil
	}
	if err := yaml.UnmarshalWithOptions(data, &site, yaml.Strict()); err != nil {
		return site, fmt.Errorf("pressroom: parse %s: %w", path, err)
	}
	return site, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithAuthenticator replaces the Google login provider.
func WithAuthenticator(auth Authenticator) Option {
	return func(a *App) {
		a.auth = auth
	}
}

// WithBucket replaces the blob storage chosen by BlobBackend.
func WithBucket(b blob.Bucket) Option {
	return func(a *App) {
		a.bucket = b
	}
}

// WithStore uses an already opened store instead of opening DatabaseURL.
func WithStore(s *Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
