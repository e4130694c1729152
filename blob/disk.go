package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Disk keeps objects as files under a directory served as static content.
type Disk struct {
	dir    string
	prefix string
}

// NewDisk returns a bucket writing into dir, whose files are served under the
// URL path prefix (for example "/uploads").
func NewDisk(dir, prefix string) *Disk {
	return &Disk{dir: dir, prefix: "/" + strings.Trim(prefix, "/")}
}

func (d *Disk) Upload(_ context.Context, name string, data []byte, _ string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	p := filepath.Join(d.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("blob: create dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("blob: write %s: %w", name, err)
	}
	return d.URL(name), nil
}

func (d *Disk) Delete(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(d.dir, filepath.FromSlash(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("blob: delete %s: %w", name, err)
	}
	return nil
}

func (d *Disk) URL(name string) string {
	return d.prefix + "/" + name
}
