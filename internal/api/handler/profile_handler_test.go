package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

func TestProfileHandler_Get_OmitsCredentials(t *testing.T) {
	e := newEcho()
	accounts := &stubAccountService{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			a := provider()
			a.VerificationToken = "verify-me"
			a.ResetTokenHash = "reset-hash"
			return a, nil
		},
	}
	h := NewProfileHandler(accounts, newAuthHandler(&stubAuthService{}, accounts))

	c, rec := jsonContext(e, http.MethodGet, "/api/profile", "")
	authenticate(c, provider())

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	for _, secret := range []string{"secrethash", "verify-me", "reset-hash"} {
		if strings.Contains(body, secret) {
			t.Fatalf("response leaks %q: %s", secret, body)
		}
	}
}

func TestProfileHandler_Update_MapsFlatBody(t *testing.T) {
	e := newEcho()
	accounts := &stubAccountService{
		updateFn: func(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.Account, error) {
			if patch.Phone == nil || *patch.Phone != "555-0101" {
				t.Fatalf("phoneNumber not mapped: %+v", patch)
			}
			if patch.Provider.Skills == nil || len(*patch.Provider.Skills) != 2 {
				t.Fatalf("skills not mapped: %+v", patch.Provider)
			}
			if patch.Name != nil || patch.Provider.BusinessName != nil || patch.Seeker.Budget != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			return provider(), nil
		},
	}
	h := NewProfileHandler(accounts, newAuthHandler(&stubAuthService{}, accounts))

	c, rec := jsonContext(e, http.MethodPut, "/api/profile", `{"phoneNumber":"555-0101","skills":["pipes","boilers"]}`)
	authenticate(c, provider())

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProfileHandler_Delete(t *testing.T) {
	e := newEcho()
	deleted := ""
	accounts := &stubAccountService{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	h := NewProfileHandler(accounts, newAuthHandler(&stubAuthService{}, accounts))

	c, rec := jsonContext(e, http.MethodDelete, "/api/account", "")
	authenticate(c, provider())

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if deleted != "acc-1" {
		t.Fatalf("expected own account deleted, got %q", deleted)
	}
	if cookies := rec.Result().Cookies(); len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected session cookie cleared, got %+v", cookies)
	}
}

func TestProfileHandler_Delete_Unauthenticated(t *testing.T) {
	e := newEcho()
	accounts := &stubAccountService{}
	h := NewProfileHandler(accounts, newAuthHandler(&stubAuthService{}, accounts))

	c, _ := jsonContext(e, http.MethodDelete, "/api/account", "")

	if err := h.Delete(c); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestProfileHandler_ListProviders(t *testing.T) {
	e := newEcho()
	accounts := &stubAccountService{
		providersFn: func(ctx context.Context, f ports.ListProvidersFilter) (*ports.ProviderPage, error) {
			if f.ServiceType != "plumber" || f.Skill != "pipes" || f.Page != 1 || f.Limit != 20 {
				t.Fatalf("unexpected filter: %+v", f)
			}
			return &ports.ProviderPage{Items: []*domain.Account{provider()}, Total: 1, Page: 1, Limit: 20, TotalPages: 1}, nil
		},
	}
	h := NewProfileHandler(accounts, newAuthHandler(&stubAuthService{}, accounts))

	c, rec := jsonContext(e, http.MethodGet, "/api/providers?serviceType=plumber&skill=pipes&page=1&limit=20", "")

	if err := h.ListProviders(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp providerListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Count != 1 || resp.Total != 1 || len(resp.Providers) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Providers[0].Profile.Provider.Skills == nil {
		t.Fatalf("skills should serialize as an empty list")
	}
}

func TestProfileHandler_UpdateStatus_DeactivateClearsCookie(t *testing.T) {
	e := newEcho()
	accounts := &stubAccountService{
		statusFn: func(ctx context.Context, id, status string) (*domain.Account, error) {
			if id != "acc-1" || status != "inactive" {
				t.Fatalf("unexpected call: %s %s", id, status)
			}
			a := provider()
			a.Active = false
			return a, nil
		},
	}
	h := NewProfileHandler(accounts, newAuthHandler(&stubAuthService{}, accounts))

	c, rec := jsonContext(e, http.MethodPatch, "/api/account/status", `{"status":"inactive"}`)
	authenticate(c, provider())

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"active":false`) {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
	if cookies := rec.Result().Cookies(); len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected session cookie cleared, got %+v", cookies)
	}
}

func TestProfileHandler_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	e := newEcho()
	accounts := &stubAccountService{}
	h := NewProfileHandler(accounts, newAuthHandler(&stubAuthService{}, accounts))

	c, _ := jsonContext(e, http.MethodPatch, "/api/account/status", `{"status":"banned"}`)
	authenticate(c, provider())

	if err := h.UpdateStatus(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestProfileHandler_GetProvider(t *testing.T) {
	e := newEcho()
	accounts := &stubAccountService{
		providerFn: func(ctx context.Context, id string) (*domain.Account, error) {
			if id != "acc-1" {
				return nil, domain.ErrNotFound
			}
			return provider(), nil
		},
	}
	h := NewProfileHandler(accounts, newAuthHandler(&stubAuthService{}, accounts))

	c, rec := jsonContext(e, http.MethodGet, "/api/providers/acc-1", "")
	c.SetParamNames("id")
	c.SetParamValues("acc-1")
	if err := h.GetProvider(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp providerEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Provider.ID != "acc-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	c, _ = jsonContext(e, http.MethodGet, "/api/providers/nope", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")
	if err := h.GetProvider(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
