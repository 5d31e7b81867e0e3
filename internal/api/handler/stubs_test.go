package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

type stubAuthService struct {
	signupFn  func(ctx context.Context, in ports.SignupInput) (*ports.Session, error)
	loginFn   func(ctx context.Context, email, password string) (*ports.Session, error)
	refreshFn func(ctx context.Context, token string) (*ports.Session, error)
	verifyFn  func(ctx context.Context, token string) (*domain.Account, error)
	forgotFn  func(ctx context.Context, email string) error
	resetFn   func(ctx context.Context, token, password string) error
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.Session, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (*ports.Session, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubAuthService) VerifyEmail(ctx context.Context, token string) (*domain.Account, error) {
	return s.verifyFn(ctx, token)
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, password string) error {
	return s.resetFn(ctx, token, password)
}

type stubAccountService struct {
	getFn       func(ctx context.Context, id string) (*domain.Account, error)
	updateFn    func(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.Account, error)
	roleFn      func(ctx context.Context, id, role string) (*domain.Account, error)
	statusFn    func(ctx context.Context, id, status string) (*domain.Account, error)
	deleteFn    func(ctx context.Context, id string) error
	providersFn func(ctx context.Context, f ports.ListProvidersFilter) (*ports.ProviderPage, error)
	providerFn  func(ctx context.Context, id string) (*domain.Account, error)
}

func (s *stubAccountService) GetProfile(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.Account, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubAccountService) UpdateRole(ctx context.Context, id, role string) (*domain.Account, error) {
	return s.roleFn(ctx, id, role)
}

func (s *stubAccountService) UpdateStatus(ctx context.Context, id, status string) (*domain.Account, error) {
	return s.statusFn(ctx, id, status)
}

func (s *stubAccountService) GetProvider(ctx context.Context, id string) (*domain.Account, error) {
	return s.providerFn(ctx, id)
}

func (s *stubAccountService) DeleteAccount(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubAccountService) ListProviders(ctx context.Context, f ports.ListProvidersFilter) (*ports.ProviderPage, error) {
	return s.providersFn(ctx, f)
}

type stubCatalog struct {
	createFn func(ctx context.Context, ownerID string, in ports.CreateServiceInput) (*domain.Service, error)
	getFn    func(ctx context.Context, id string) (*domain.Service, error)
	listFn   func(ctx context.Context, in ports.ListServicesInput) (*ports.ServicePage, error)
	searchFn func(ctx context.Context, term string) ([]*domain.Service, error)
	mineFn   func(ctx context.Context, ownerID string) ([]*domain.Service, error)
	updateFn func(ctx context.Context, id, ownerID string, patch domain.ServicePatch) (*domain.Service, error)
	deleteFn func(ctx context.Context, id, ownerID string) error
	toggleFn func(ctx context.Context, id, ownerID string) (*domain.Service, error)
}

func (s *stubCatalog) Create(ctx context.Context, ownerID string, in ports.CreateServiceInput) (*domain.Service, error) {
	return s.createFn(ctx, ownerID, in)
}

func (s *stubCatalog) Get(ctx context.Context, id string) (*domain.Service, error) {
	return s.getFn(ctx, id)
}

func (s *stubCatalog) List(ctx context.Context, in ports.ListServicesInput) (*ports.ServicePage, error) {
	return s.listFn(ctx, in)
}

func (s *stubCatalog) Search(ctx context.Context, term string) ([]*domain.Service, error) {
	return s.searchFn(ctx, term)
}

func (s *stubCatalog) Mine(ctx context.Context, ownerID string) ([]*domain.Service, error) {
	return s.mineFn(ctx, ownerID)
}

func (s *stubCatalog) Update(ctx context.Context, id, ownerID string, patch domain.ServicePatch) (*domain.Service, error) {
	return s.updateFn(ctx, id, ownerID, patch)
}

func (s *stubCatalog) Delete(ctx context.Context, id, ownerID string) error {
	return s.deleteFn(ctx, id, ownerID)
}

func (s *stubCatalog) ToggleStatus(ctx context.Context, id, ownerID string) (*domain.Service, error) {
	return s.toggleFn(ctx, id, ownerID)
}

type stubNotifier struct {
	requests []ports.ServiceRequest
	to       []string
	err      error
}

func (s *stubNotifier) SendWelcome(context.Context, string, string, string) error { return nil }

func (s *stubNotifier) SendAdminNotification(context.Context, ports.ProviderSignup) error {
	return nil
}

func (s *stubNotifier) SendServiceRequestNotification(_ context.Context, to string, req ports.ServiceRequest) error {
	if s.err != nil {
		return s.err
	}
	s.to = append(s.to, to)
	s.requests = append(s.requests, req)
	return nil
}

func (s *stubNotifier) SendPasswordReset(context.Context, string, string) error { return nil }

type stubUploads struct {
	uploadFn func(ctx context.Context, filename string, size int64, r io.Reader) (*domain.Upload, error)
	openFn   func(ctx context.Context, id string) (*domain.Upload, io.ReadCloser, error)
}

func (s *stubUploads) Upload(ctx context.Context, filename string, size int64, r io.Reader) (*domain.Upload, error) {
	return s.uploadFn(ctx, filename, size, r)
}

func (s *stubUploads) Open(ctx context.Context, id string) (*domain.Upload, io.ReadCloser, error) {
	return s.openFn(ctx, id)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authenticate mimics what the Auth middleware leaves in the context.
func authenticate(c echo.Context, a *domain.Account) {
	c.Set("account", a)
	c.Set("account_id", a.ID)
	c.Set("role", a.Role)
}

func provider() *domain.Account {
	return &domain.Account{
		ID:           "acc-1",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$secrethash",
		Role:         domain.RoleProvider,
		Active:       true,
	}
}
