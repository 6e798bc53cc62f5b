// Package media stores uploaded candidate images and returns their public URL.
package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gravadigital/votacion-api/internal/config"
	"github.com/gravadigital/votacion-api/internal/domain/common"
)

// ImageStore persists an image and returns the URL clients should load it from
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, name string) error
}

// allowedTypes maps accepted content types to the stored file extension
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ValidateImage checks type and size and returns the extension to store with
func ValidateImage(contentType string, size, maxSize int64) (string, error) {
	ext, ok := allowedTypes[strings.ToLower(contentType)]
	if !ok {
		return "", common.NewValidationError("imagen", "file type not allowed, use JPEG, PNG, GIF or WEBP")
	}
	if size <= 0 {
		return "", common.NewValidationError("imagen", "file is empty")
	}
	if maxSize > 0 && size > maxSize {
		return "", common.NewValidationError("imagen", fmt.Sprintf("file size exceeds %d bytes", maxSize))
	}
	return ext, nil
}

// ObjectName builds a unique name for a candidate image
func ObjectName(candidateID, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%d%s", candidateID, now.UnixNano(), ext)
}

// New returns the image store selected by UPLOAD_BACKEND
func New(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.Upload.Backend {
	case "", "local":
		return NewLocalStore(cfg.Upload.Dir, cfg.Upload.PublicURL)
	case "minio":
		return NewMinIOStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported upload backend: %s", cfg.Upload.Backend)
	}
}
