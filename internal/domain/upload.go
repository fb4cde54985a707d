package domain

import (
	"context"
	"io"
)

// MaxUploadBytes is the largest accepted invitation image.
const MaxUploadBytes = 5 << 20

// UploadedFile is the stored location of an uploaded image.
// swagger:model UploadedFile
type UploadedFile struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// ObjectStorage stores public objects.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	PublicURL(key string) string
}

// UploadService validates and stores invitation images.
type UploadService interface {
	// UploadImage returns ErrStorageDisabled when no storage is configured.
	UploadImage(ctx context.Context, filename, contentType string, size int64, body io.Reader) (*UploadedFile, error)
}
