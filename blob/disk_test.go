package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiskUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk(dir, "uploads/")
	ctx := context.Background()

	url, err := d.Upload(ctx, "1700000000000-abc123.jpg", []byte("jpeg"), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "/uploads/1700000000000-abc123.jpg" {
		t.Fatalf("url = %q", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "1700000000000-abc123.jpg"))
	if err != nil || string(data) != "jpeg" {
		t.Fatalf("stored %q, %v", data, err)
	}

	if err := d.Delete(ctx, "1700000000000-abc123.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "1700000000000-abc123.jpg")); !os.IsNotExist(err) {
		t.Fatalf("file still present: %v", err)
	}
	if err := d.Delete(ctx, "1700000000000-abc123.jpg"); err != nil {
		t.Fatalf("second Delete should be a no-op: %v", err)
	}
}

func TestDiskRejectsEscapingNames(t *testing.T) {
	d := NewDisk(t.TempDir(), "/uploads")
	for _, name := range []string{"", "../x.jpg", "/etc/passwd", "a/../../b", `a\b`, "a//b"} {
		if _, err := d.Upload(context.Background(), name, nil, ""); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Upload(%q) err = %v, want ErrInvalidName", name, err)
		}
	}
}
