package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gofix/gofix-api/internal/core/domain"
)

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation detail", domain.NewValidationError("Search query is required"), http.StatusBadRequest, "Search query is required"},
		{"duplicate", domain.ErrDuplicateAccount, http.StatusBadRequest, "user already exists"},
		{"reset token", domain.ErrInvalidResetToken, http.StatusBadRequest, "invalid or expired reset token"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{"no auth", domain.ErrAuthenticationRequired, http.StatusUnauthorized, "authentication required"},
		{"expired", domain.ErrTokenExpired, http.StatusUnauthorized, "invalid or expired token"},
		{"malformed", domain.ErrTokenMalformed, http.StatusUnauthorized, "invalid or expired token"},
		{"account gone", domain.ErrAccountNotFound, http.StatusUnauthorized, "account not found"},
		{"forbidden wrapped", fmt.Errorf("update: %w", domain.ErrForbidden), http.StatusForbidden, "access forbidden"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "resource not found"},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "file too large"},
		{"media", domain.ErrUnsupportedMedia, http.StatusUnsupportedMediaType, "only jpeg, png, gif and webp images are allowed"},
		{"echo error", echo.NewHTTPError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, "slow down"},
		{"unexpected", errors.New("mongo: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop(), false)(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Success || resp.Message != tt.wantMsg {
				t.Fatalf("unexpected envelope: %+v", resp)
			}
			if resp.Error != "" {
				t.Fatalf("error detail must not leak outside development: %q", resp.Error)
			}
		})
	}
}

func TestErrorHandler_DevelopmentDetail(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop(), true)(errors.New("mongo: connection reset"), c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Error != "mongo: connection reset" {
		t.Fatalf("expected error detail in development, got %q", resp.Error)
	}
}
