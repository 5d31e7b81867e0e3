package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/gofix/gofix-api/internal/core/domain"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestUploadService_StoresImage(t *testing.T) {
	store := newStubUploadStore()
	svc := NewUploadService(store, 1024, discardLogger)

	up, err := svc.Upload(context.Background(), "../../avatar.txt", int64(len(pngHeader)), bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if up.ContentType != "image/png" {
		t.Fatalf("expected image/png, got %q", up.ContentType)
	}
	if up.Filename != "avatar.png" {
		t.Fatalf("expected sanitised filename, got %q", up.Filename)
	}
	if !bytes.Equal(store.saved[up.ID], pngHeader) {
		t.Fatalf("stored content differs from upload")
	}

	_, rc, err := svc.Open(context.Background(), up.ID)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if !bytes.Equal(data, pngHeader) {
		t.Fatalf("read back content differs")
	}
}

func TestUploadService_RejectsNonImage(t *testing.T) {
	store := newStubUploadStore()
	svc := NewUploadService(store, 1024, discardLogger)

	_, err := svc.Upload(context.Background(), "photo.png", 11, strings.NewReader("hello world"))
	if !errors.Is(err, domain.ErrUnsupportedMedia) {
		t.Fatalf("expected ErrUnsupportedMedia, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestUploadService_SizeLimit(t *testing.T) {
	svc := NewUploadService(newStubUploadStore(), 64, discardLogger)

	if _, err := svc.Upload(context.Background(), "a.png", 65, bytes.NewReader(pngHeader)); !errors.Is(err, domain.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge for declared size, got %v", err)
	}

	big := append(append([]byte{}, pngHeader...), make([]byte, 100)...)
	if _, err := svc.Upload(context.Background(), "a.png", 10, bytes.NewReader(big)); !errors.Is(err, domain.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge for oversized stream, got %v", err)
	}
}

func TestUploadService_Empty(t *testing.T) {
	svc := NewUploadService(newStubUploadStore(), 64, discardLogger)

	if _, err := svc.Upload(context.Background(), "a.png", 0, bytes.NewReader(nil)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
