package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"guestrsvp/internal/domain"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type uploadService struct {
	storage        domain.ObjectStorage
	contextTimeout time.Duration
}

// NewUploadService returns an UploadService. storage may be nil when uploads are not configured.
func NewUploadService(storage domain.ObjectStorage, timeout time.Duration) domain.UploadService {
	return &uploadService{storage: storage, contextTimeout: timeout}
}

func (s *uploadService) UploadImage(ctx context.Context, filename, contentType string, size int64, body io.Reader) (*domain.UploadedFile, error) {
	if s.storage == nil {
		return nil, domain.ErrStorageDisabled
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, domain.NewValidationError("image", "image must be a JPEG, PNG, WebP or GIF file")
	}
	if size <= 0 {
		return nil, domain.NewValidationError("image", "image is empty")
	}
	if size > domain.MaxUploadBytes {
		return nil, domain.NewValidationError("image", "image must be at most 5 MB")
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key := "uploads/" + uuid.NewString() + ext
	if err := s.storage.Put(ctx, key, contentType, io.LimitReader(body, domain.MaxUploadBytes)); err != nil {
		return nil, fmt.Errorf("store %s: %w", filename, err)
	}
	return &domain.UploadedFile{URL: s.storage.PublicURL(key), Path: key}, nil
}
