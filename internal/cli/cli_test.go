package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pressroom"
	"github.com/eringen/pressroom/content"
)

func testEnv() (Env, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return Env{Stdout: &out, Stderr: &errOut, Version: "1.2.3"}, &out, &errOut
}

func TestPressroomVersion(t *testing.T) {
	env, out, _ := testEnv()
	assert.Equal(t, ExitSuccess, Pressroom(context.Background(), []string{"version"}, env))
	assert.Equal(t, "pressroom 1.2.3\n", out.String())
}

func TestPressroomUnknownCommand(t *testing.T) {
	env, _, errOut := testEnv()
	assert.Equal(t, ExitUsage, Pressroom(context.Background(), []string{"publish"}, env))
	assert.Contains(t, errOut.String(), "Unknown command: publish")
}

func TestParseBuildFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(t *testing.T, f buildFlags)
	}{
		{name: "defaults", check: func(t *testing.T, f buildFlags) {
			assert.Equal(t, "db", f.source)
			assert.Zero(t, f.workers)
		}},
		{name: "all", args: []string{"--root", "out", "-w", "4", "--source", "api", "--api-url", "http://x"}, check: func(t *testing.T, f buildFlags) {
			assert.Equal(t, "out", f.root)
			assert.Equal(t, 4, f.workers)
			assert.Equal(t, "api", f.source)
			assert.Equal(t, "http://x", f.apiURL)
		}},
		{name: "bad source", args: []string{"--source", "ftp"}, wantErr: true},
		{name: "negative workers", args: []string{"--workers", "-1"}, wantErr: true},
		{name: "stray argument", args: []string{"site"}, wantErr: true},
		{name: "unknown flag", args: []string{"--nope"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := parseBuildFlags("buildblog", tt.args, &bytes.Buffer{})
			if tt.wantErr {
				require.ErrorIs(t, err, errUsage)
				return
			}
			require.NoError(t, err)
			tt.check(t, f)
		})
	}
}

func TestInitThenBuild(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	env, out, errOut := testEnv()
	code := Pressroom(context.Background(), []string{"init", dir, "--name", "Elise & Mind", "--url", "https://eliseandmind.com"}, env)
	require.Equal(t, ExitSuccess, code, errOut.String())
	assert.Contains(t, out.String(), "created")
	assert.FileExists(t, filepath.Join(dir, "js", "blog.js"))

	dbPath := filepath.Join(t.TempDir(), "blog.db")
	store, err := pressroom.NewStore(dbPath)
	require.NoError(t, err)
	ctx := context.Background()
	col, err := store.SaveCollection(ctx, content.Collection{Name: "Anxiété", Slug: "anxiete"})
	require.NoError(t, err)
	_, err = store.SaveArticle(ctx, content.Article{
		Title:        "Respirer",
		Slug:         "respirer",
		CollectionID: col.ID,
		Status:       content.StatusPublished,
		Content:      "<h2>Pourquoi</h2><p>Parce que.</p>",
		IsIndexed:    true,
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	env, out, errOut = testEnv()
	code = BuildBlog(ctx, []string{"--root", dir, "--site", filepath.Join(dir, "site.yaml"), "--database-url", dbPath}, env)
	require.Equal(t, ExitSuccess, code, errOut.String())
	assert.Contains(t, out.String(), "1/1 page(s) generated")

	page, err := os.ReadFile(filepath.Join(dir, "blog", "anxiete", "respirer", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "Respirer")
	assert.Contains(t, string(page), `id="section-0"`)

	list, err := os.ReadFile(filepath.Join(dir, "mes-conseils.html"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(list), "/blog/anxiete/respirer"))
	assert.FileExists(t, filepath.Join(dir, "sitemap.xml"))
}

func TestAdminAddRequiresEmail(t *testing.T) {
	env, _, errOut := testEnv()
	assert.Equal(t, ExitUsage, Pressroom(context.Background(), []string{"admin", "add"}, env))
	assert.Contains(t, errOut.String(), "pressroom admin add <email>")
}
