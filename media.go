package pressroom

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"
	"io"
	"math/big"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/eringen/pressroom/content"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 85
	maxUploadSize = 5 << 20 // 5MB
)

var (
	errTooLarge  = validationError("Fichier trop volumineux (max 5 Mo)")
	errNotImage  = validationError("Seules les images sont acceptées")
	extensionFor = map[string]string{
		"image/jpeg": "jpg",
		"image/png":  "png",
		"image/gif":  "gif",
		"image/webp": "webp",
	}
)

// processedImage is an upload ready to be stored.
type processedImage struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// processImage checks that data is an image and downscales images wider than
// maxImageWidth, re-encoding them as JPEG. Smaller images are kept as is.
func processImage(data []byte) (processedImage, error) {
	if len(data) > maxUploadSize {
		return processedImage{}, errTooLarge
	}
	contentType := http.DetectContentType(data)
	ext, ok := extensionFor[contentType]
	if !ok {
		return processedImage{}, errNotImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return processedImage{}, fmt.Errorf("%w: %v", errNotImage, err)
	}
	b := img.Bounds()
	if b.Dx() <= maxImageWidth {
		return processedImage{Data: data, ContentType: contentType, Ext: ext, Width: b.Dx(), Height: b.Dy()}, nil
	}

	resized := imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return processedImage{}, fmt.Errorf("encode jpeg: %w", err)
	}
	rb := resized.Bounds()
	return processedImage{Data: buf.Bytes(), ContentType: "image/jpeg", Ext: "jpg", Width: rb.Dx(), Height: rb.Dy()}, nil
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// blobName returns {unix-millis}-{6 random base36}.{ext}, with an optional prefix.
func blobName(prefix, ext string, now time.Time) (string, error) {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('-')
	limit := big.NewInt(int64(len(base36)))
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(base36[n.Int64()])
	}
	b.WriteByte('.')
	b.WriteString(ext)
	return b.String(), nil
}

// storeUpload processes one uploaded file, writes it to the bucket and records
// it. When the row cannot be inserted the blob is removed again.
func (a *App) storeUpload(ctx context.Context, fh *multipart.FileHeader, prefix, uploader string) (content.Media, error) {
	if fh.Size > maxUploadSize {
		return content.Media{}, errTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return content.Media{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return content.Media{}, err
	}
	img, err := processImage(data)
	if err != nil {
		return content.Media{}, err
	}
	name, err := blobName(prefix, img.Ext, time.Now())
	if err != nil {
		return content.Media{}, err
	}
	url, err := a.bucket.Upload(ctx, name, img.Data, img.ContentType)
	if err != nil {
		return content.Media{}, fmt.Errorf("upload %s: %w", name, err)
	}
	m, err := a.Store.InsertMedia(ctx, content.Media{
		URL:        url,
		Filename:   filepath.Base(fh.Filename),
		StorageKey: name,
		UploadedBy: uploader,
		Width:      img.Width,
		Height:     img.Height,
		Size:       len(img.Data),
	})
	if err != nil {
		_ = a.bucket.Delete(ctx, name)
		return content.Media{}, err
	}
	return m, nil
}

// removeMedia deletes the blob, then the row.
func (a *App) removeMedia(ctx context.Context, id string) error {
	m, err := a.Store.GetMedia(ctx, id)
	if err != nil {
		return err
	}
	if err := a.bucket.Delete(ctx, m.StorageKey); err != nil {
		return fmt.Errorf("delete blob %s: %w", m.StorageKey, err)
	}
	return a.Store.DeleteMedia(ctx, id)
}
