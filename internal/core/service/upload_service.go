package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

// sniffLen is how many leading bytes are inspected to detect the content type.
const sniffLen = 3072

type UploadService struct {
	store    ports.UploadStore
	maxBytes int64
	logger   zerolog.Logger
}

func NewUploadService(store ports.UploadStore, maxBytes int64, logger zerolog.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = domain.MaxUploadBytes
	}
	return &UploadService{store: store, maxBytes: maxBytes, logger: logger}
}

// Upload sniffs the content type of r, rejects anything that is not an
// allowed image or exceeds the size limit, and stores the rest.
func (s *UploadService) Upload(ctx context.Context, filename string, size int64, r io.Reader) (*domain.Upload, error) {
	if size > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]
	if n == 0 {
		return nil, domain.NewValidationError("No file uploaded")
	}

	mtype := mimetype.Detect(head)
	if !allowedImage(mtype) {
		s.logger.Info().Str("detected", mtype.String()).Msg("upload rejected: not an image")
		return nil, domain.ErrUnsupportedMedia
	}

	body := &sizeGuard{r: io.MultiReader(bytes.NewReader(head), r), remaining: s.maxBytes}
	up, err := s.store.Save(ctx, cleanFilename(filename, mtype.Extension()), mtype.String(), body)
	if err != nil {
		if errors.Is(err, domain.ErrFileTooLarge) {
			return nil, domain.ErrFileTooLarge
		}
		s.logger.Error().Err(err).Msg("failed to store upload")
		return nil, err
	}

	s.logger.Info().Str("upload_id", up.ID).Str("content_type", up.ContentType).Int64("size", up.Size).Msg("image uploaded")
	return up, nil
}

func (s *UploadService) Open(ctx context.Context, id string) (*domain.Upload, io.ReadCloser, error) {
	return s.store.Open(ctx, id)
}

func allowedImage(m *mimetype.MIME) bool {
	for _, t := range domain.AllowedImageTypes {
		if m.Is(t) {
			return true
		}
	}
	return false
}

// cleanFilename strips any directory part and forces the extension to match
// the detected type.
func cleanFilename(name, ext string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "image"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ext
}

// sizeGuard fails with ErrFileTooLarge once more than remaining bytes are read.
type sizeGuard struct {
	r         io.Reader
	remaining int64
}

func (g *sizeGuard) Read(p []byte) (int, error) {
	n, err := g.r.Read(p)
	g.remaining -= int64(n)
	if g.remaining < 0 {
		return n, domain.ErrFileTooLarge
	}
	return n, err
}
