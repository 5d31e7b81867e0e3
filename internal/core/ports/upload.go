package ports

import (
	"context"
	"io"

	"github.com/gofix/gofix-api/internal/core/domain"
)

// UploadStore persists binary image content.
type UploadStore interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (*domain.Upload, error)
	// Open returns the stored file metadata and a reader over its content.
	// The caller must close the reader.
	Open(ctx context.Context, id string) (*domain.Upload, io.ReadCloser, error)
}

// UploadService validates and stores images.
type UploadService interface {
	Upload(ctx context.Context, filename string, size int64, r io.Reader) (*domain.Upload, error)
	Open(ctx context.Context, id string) (*domain.Upload, io.ReadCloser, error)
}
