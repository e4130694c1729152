// Package scaffold writes a starter site: the article template, the list
// page and the configuration files the server and the build read.
package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// Data holds the template variables passed to every scaffold template.
type Data struct {
	SiteName string
	SiteURL  string
	Language string
}

// Write renders every template into dir and copies extra files as is.
// Existing files are never overwritten. It returns the created paths.
func Write(dir string, data Data, extra map[string][]byte) ([]string, error) {
	if data.Language == "" {
		data.Language = "fr"
	}
	if data.SiteName == "" {
		data.SiteName = Title(filepath.Base(dir))
	}
	if data.SiteURL == "" {
		data.SiteURL = "http://localhost:3000"
	}

	var created []string
	root := "templates"
	err := fs.WalkDir(Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dir, strings.TrimSuffix(rel, ".tmpl"))
		// Rename dotenv to .env.example.
		if filepath.Base(out) == "dotenv" {
			out = filepath.Join(filepath.Dir(out), ".env.example")
		}

		src, err := Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, err := template.New(filepath.Base(path)).Parse(string(src))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}
		ok, err := create(out, buf.Bytes())
		if ok {
			created = append(created, out)
		}
		return err
	})
	if err != nil {
		return created, err
	}

	for name, body := range extra {
		out := filepath.Join(dir, filepath.FromSlash(name))
		ok, err := create(out, body)
		if err != nil {
			return created, err
		}
		if ok {
			created = append(created, out)
		}
	}
	return created, nil
}

// create writes data to path unless it exists.
func create(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("create %s: %w", path, err)
	}
	return true, nil
}

// Title converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-blog" -> "My Blog", "myblog" -> "Myblog"
func Title(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
