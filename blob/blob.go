// Package blob stores uploaded media bytes and hands out their public URLs.
package blob

import (
	"context"
	"errors"
	"path"
	"strings"
)

// ErrInvalidName is returned for object names that could escape the bucket.
var ErrInvalidName = errors.New("blob: invalid object name")

// Bucket is an object store with public URLs.
type Bucket interface {
	// Upload stores data under name and returns its public URL.
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
	// Delete removes name. Deleting a missing object is not an error.
	Delete(ctx context.Context, name string) error
	// URL returns the public URL of name.
	URL(name string) string
}

func checkName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) ||
		path.Clean(name) != name || strings.HasPrefix(name, "..") {
		return ErrInvalidName
	}
	return nil
}
