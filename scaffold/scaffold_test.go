package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eringen/pressroom/render"
)

func TestWriteCarriesEveryAnchor(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-blog")
	created, err := Write(dir, Data{SiteURL: "https://example.com"}, map[string][]byte{"js/blog.js": []byte("//")})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(created) != 6 {
		t.Fatalf("created %d files, want 6: %v", len(created), created)
	}

	tmpl, err := os.ReadFile(filepath.Join(dir, "blog", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := render.ParseTemplate(string(tmpl)); err != nil {
		t.Fatalf("article template: %v", err)
	}
	if !strings.Contains(string(tmpl), "Article | My Blog") {
		t.Errorf("site name not substituted")
	}

	list, err := os.ReadFile(filepath.Join(dir, "mes-conseils.html"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := render.SpliceList(string(list), nil); err != nil {
		t.Fatalf("list page: %v", err)
	}

	env, err := os.ReadFile(filepath.Join(dir, ".env.example"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(env), "SITE_URL=https://example.com") {
		t.Errorf(".env.example missing site url:\n%s", env)
	}
}

func TestWriteKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	site := filepath.Join(dir, "site.yaml")
	if err := os.WriteFile(site, []byte("name: mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	created, err := Write(dir, Data{}, nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, p := range created {
		if p == site {
			t.Fatalf("site.yaml overwritten")
		}
	}
	got, _ := os.ReadFile(site)
	if string(got) != "name: mine\n" {
		t.Errorf("site.yaml = %q", got)
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]string{"my-blog": "My Blog", "myblog": "Myblog", "": ""}
	for in, want := range tests {
		if got := Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}
