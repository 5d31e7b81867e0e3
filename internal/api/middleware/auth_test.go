package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
	"github.com/gofix/gofix-api/internal/core/service"
)

type stubLookup struct {
	accounts map[string]*domain.Account
	err      error
}

func (s *stubLookup) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return a, nil
}

func newTokens(t *testing.T) *service.TokenService {
	t.Helper()
	tokens, err := service.NewTokenService("secret", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return tokens
}

func aliceLookup() *stubLookup {
	return &stubLookup{accounts: map[string]*domain.Account{
		"acc-1": {ID: "acc-1", Email: "alice@example.com", Role: domain.RoleProvider, Active: true, PasswordHash: "hash"},
	}}
}

func runAuth(t *testing.T, verifier ports.TokenVerifier, lookup ports.AccountLookup, req *http.Request) (bool, echo.Context, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(verifier, lookup)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return called, c, err
}

func TestAuthMiddleware_BearerHeader(t *testing.T) {
	tokens := newTokens(t)
	signed, err := tokens.Issue("acc-1", domain.RoleProvider, "alice@example.com")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	called, c, err := runAuth(t, tokens, aliceLookup(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if c.Get("account_id") != "acc-1" {
		t.Fatalf("account_id not set: %v", c.Get("account_id"))
	}
	if c.Get("role") != domain.RoleProvider {
		t.Fatalf("role not set: %v", c.Get("role"))
	}
	if a, ok := c.Get("account").(*domain.Account); !ok || a.Email != "alice@example.com" {
		t.Fatalf("account not set: %+v", c.Get("account"))
	}
}

func TestAuthMiddleware_CookieWinsOverHeader(t *testing.T) {
	tokens := newTokens(t)
	signed, _ := tokens.Issue("acc-1", domain.RoleProvider, "alice@example.com")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: signed})
	req.Header.Set("Authorization", "Bearer garbage")

	called, _, err := runAuth(t, tokens, aliceLookup(), req)
	if err != nil || !called {
		t.Fatalf("expected cookie token to authenticate, err=%v called=%v", err, called)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	called, _, err := runAuth(t, newTokens(t), aliceLookup(), req)
	if called {
		t.Fatalf("should not reach next")
	}
	if !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")

	_, _, err := runAuth(t, newTokens(t), aliceLookup(), req)
	if !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	called, _, err := runAuth(t, newTokens(t), aliceLookup(), req)
	if called {
		t.Fatalf("should not reach next")
	}
	if !domain.IsTokenError(err) {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestAuthMiddleware_UnknownAccount(t *testing.T) {
	tokens := newTokens(t)
	signed, _ := tokens.Issue("ghost", domain.RoleSeeker, "ghost@example.com")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	_, _, err := runAuth(t, tokens, aliceLookup(), req)
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAuthMiddleware_InactiveAccount(t *testing.T) {
	tokens := newTokens(t)
	signed, _ := tokens.Issue("acc-1", domain.RoleProvider, "alice@example.com")
	lookup := aliceLookup()
	lookup.accounts["acc-1"].Active = false

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	called, _, err := runAuth(t, tokens, lookup, req)
	if called || !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected inactive account to be rejected, err=%v", err)
	}
}

func TestAuthMiddleware_LookupFailureIsWrapped(t *testing.T) {
	tokens := newTokens(t)
	signed, _ := tokens.Issue("acc-1", domain.RoleProvider, "alice@example.com")
	boom := errors.New("mongo down")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	_, _, err := runAuth(t, tokens, &stubLookup{err: boom}, req)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
}
