package pressroom

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	var c SiteConfig
	c.setDefaults()
	if c.Addr != ":3000" || c.SiteRoot != "site" || c.BlobBackend != "disk" {
		t.Errorf("defaults = %+v", c)
	}
	if c.UploadsDir != "site/uploads" || c.UploadsPrefix != "/uploads" {
		t.Errorf("uploads = %q %q", c.UploadsDir, c.UploadsPrefix)
	}
	if c.GoogleRedirectURL != "http://localhost:3000/admin/auth/callback/" {
		t.Errorf("redirect = %q", c.GoogleRedirectURL)
	}
	if c.CacheTTL != 5*time.Minute || c.AutosaveInterval != time.Minute || c.BuildWorkers != 1 {
		t.Errorf("durations = %v %v %d", c.CacheTTL, c.AutosaveInterval, c.BuildWorkers)
	}
	if c.Site.PageSize != 16 || c.Site.ListPath != "/mes-conseils" {
		t.Errorf("site = %+v", c.Site)
	}
}

func TestConfigValidateListsAllMissing(t *testing.T) {
	c := SiteConfig{BlobBackend: "minio"}
	err := c.validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	want := "GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, MINIO_ACCESS_KEY, MINIO_BUCKET, MINIO_ENDPOINT, MINIO_SECRET_KEY, SESSION_SECRET"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("err = %v\nwant it to list %s", err, want)
	}

	c = SiteConfig{SessionSecret: "s", GoogleClientID: "i", GoogleClientSecret: "x", BlobBackend: "ftp"}
	if err := c.validate(); err == nil || !strings.Contains(err.Error(), "ftp") {
		t.Errorf("unknown backend err = %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	site := filepath.Join(dir, "site.yaml")
	yaml := "name: Elise & Mind\nurl: https://eliseandmind.com/\npage_size: 12\ncta:\n  title: Aide\n"
	if err := os.WriteFile(site, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SITE_NAME", "")
	t.Setenv("SITE_URL", "")
	t.Setenv("ADDR", ":8080")
	t.Setenv("AUTOSAVE_INTERVAL", "30s")
	t.Setenv("BUILD_WORKERS", "4")
	t.Setenv("NEWSLETTER_RATE", "1.5")

	c, err := LoadConfig(site)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Site.Name != "Elise & Mind" || c.Site.URL != "https://eliseandmind.com" || c.Site.PageSize != 12 {
		t.Errorf("site = %+v", c.Site)
	}
	if c.Site.CTA.Title != "Aide" {
		t.Errorf("cta = %+v", c.Site.CTA)
	}
	if c.Addr != ":8080" || c.AutosaveInterval != 30*time.Second || c.BuildWorkers != 4 || c.NewsletterRate != 1.5 {
		t.Errorf("env overrides = %s %v %d %v", c.Addr, c.AutosaveInterval, c.BuildWorkers, c.NewsletterRate)
	}
	if !c.CookieSecure {
		t.Errorf("https site must default to secure cookies")
	}
	if c.GoogleRedirectURL != "https://eliseandmind.com/admin/auth/callback/" {
		t.Errorf("redirect = %q", c.GoogleRedirectURL)
	}
}

func TestLoadSiteFileRejectsUnknownKeys(t *testing.T) {
	site := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(site, []byte("nmae: typo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSiteFile(site); err == nil {
		t.Fatal("expected strict parsing to reject an unknown key")
	}
}

func TestLoadConfigMissingSiteFile(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing site file must be optional: %v", err)
	}
	if c.Site.Name == "" {
		t.Errorf("defaults not applied")
	}
}
