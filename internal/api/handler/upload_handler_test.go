package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gofix/gofix-api/internal/core/domain"
)

func multipartContext(t *testing.T, e *echo.Echo, field, filename string, content []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUploadHandler_Upload(t *testing.T) {
	e := newEcho()
	uploads := &stubUploads{
		uploadFn: func(ctx context.Context, filename string, size int64, r io.Reader) (*domain.Upload, error) {
			data, _ := io.ReadAll(r)
			if filename != "tap.png" || size != int64(len(data)) || string(data) != "image-bytes" {
				t.Fatalf("unexpected upload: %s %d %q", filename, size, data)
			}
			return &domain.Upload{ID: "65f0c0ffee", ContentType: "image/png"}, nil
		},
	}
	h := NewUploadHandler(uploads)

	c, rec := multipartContext(t, e, "image", "tap.png", []byte("image-bytes"))

	if err := h.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"url":"/api/uploads/65f0c0ffee"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUploadHandler_MissingFile(t *testing.T) {
	e := newEcho()
	h := NewUploadHandler(&stubUploads{})

	c, _ := multipartContext(t, e, "", "", nil)

	err := h.Upload(c)
	if !errors.Is(err, domain.ErrValidation) || err.Error() != "No file uploaded" {
		t.Fatalf("expected missing file validation error, got %v", err)
	}
}

func TestUploadHandler_RejectedMedia(t *testing.T) {
	e := newEcho()
	uploads := &stubUploads{
		uploadFn: func(ctx context.Context, filename string, size int64, r io.Reader) (*domain.Upload, error) {
			return nil, domain.ErrUnsupportedMedia
		},
	}
	h := NewUploadHandler(uploads)

	c, _ := multipartContext(t, e, "image", "notes.txt", []byte("plain text"))

	if err := h.Upload(c); !errors.Is(err, domain.ErrUnsupportedMedia) {
		t.Fatalf("expected ErrUnsupportedMedia, got %v", err)
	}
}

func TestUploadHandler_Serve(t *testing.T) {
	e := newEcho()
	uploads := &stubUploads{
		openFn: func(ctx context.Context, id string) (*domain.Upload, io.ReadCloser, error) {
			if id != "abc" {
				return nil, nil, domain.ErrNotFound
			}
			return &domain.Upload{ID: "abc", ContentType: "image/gif", Size: 6}, io.NopCloser(strings.NewReader("GIF89a")), nil
		},
	}
	h := NewUploadHandler(uploads)

	req := httptest.NewRequest(http.MethodGet, "/api/uploads/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	if err := h.Serve(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get(echo.HeaderContentType) != "image/gif" || rec.Body.String() != "GIF89a" {
		t.Fatalf("unexpected response: %q %q", rec.Header().Get(echo.HeaderContentType), rec.Body.String())
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/uploads/nope", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("nope")
	if err := h.Serve(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
