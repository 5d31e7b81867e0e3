package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory account repository
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	byID    map[string]*domain.Account
	nextID  int
	updates int
	failErr error // if set, every call returns this error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	clone := *a
	clone.Profile.Provider.Skills = append([]string(nil), a.Profile.Provider.Skills...)
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return nil, domain.ErrDuplicateAccount
		}
	}
	r.nextID++
	stored := cloneAccount(a)
	stored.ID = fmt.Sprintf("acc-%d", r.nextID)
	r.byID[stored.ID] = stored
	return cloneAccount(stored), nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) find(match func(*domain.Account) bool) (*domain.Account, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	for _, a := range r.byID {
		if match(a) {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.Email == email })
}

func (r *stubAccountRepo) FindByVerificationToken(_ context.Context, token string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.VerificationToken != "" && a.VerificationToken == token })
}

func (r *stubAccountRepo) FindByResetTokenHash(_ context.Context, hash string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.ResetTokenHash != "" && a.ResetTokenHash == hash })
}

func (r *stubAccountRepo) Update(_ context.Context, a *domain.Account) error {
	if r.failErr != nil {
		return r.failErr
	}
	if _, ok := r.byID[a.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	r.updates++
	r.byID[a.ID] = cloneAccount(a)
	return nil
}

func (r *stubAccountRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.LastLogin = &at
	return nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubAccountRepo) ListProviders(_ context.Context, f ports.ListProvidersFilter) ([]*domain.Account, int64, error) {
	var matched []*domain.Account
	for _, a := range r.byID {
		if a.Role != domain.RoleProvider || !a.Active {
			continue
		}
		if f.ServiceType != "" && a.Profile.Provider.ServiceType != f.ServiceType {
			continue
		}
		if f.Location != "" && !containsFold(a.Profile.Location, f.Location) {
			continue
		}
		if f.Skill != "" && !anyContainsFold(a.Profile.Provider.Skills, f.Skill) {
			continue
		}
		matched = append(matched, cloneAccount(a))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

// ---------------------------------------------------------------------------
// In-memory service repository
// ---------------------------------------------------------------------------

type stubServiceRepo struct {
	byID    map[string]*domain.Service
	nextID  int
	writes  int
	lastF   ports.ListServicesFilter
	failErr error
}

func newStubServiceRepo() *stubServiceRepo {
	return &stubServiceRepo{byID: make(map[string]*domain.Service)}
}

func cloneService(s *domain.Service) *domain.Service {
	clone := *s
	clone.Tags = append([]string(nil), s.Tags...)
	return &clone
}

func (r *stubServiceRepo) Create(_ context.Context, s *domain.Service) (*domain.Service, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	r.nextID++
	r.writes++
	stored := cloneService(s)
	stored.ID = fmt.Sprintf("svc-%d", r.nextID)
	r.byID[stored.ID] = stored
	return cloneService(stored), nil
}

func (r *stubServiceRepo) FindByID(_ context.Context, id string) (*domain.Service, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneService(s), nil
}

// List applies the same filters the Mongo repository translates to a query.
func (r *stubServiceRepo) List(_ context.Context, f ports.ListServicesFilter) ([]*domain.Service, int64, error) {
	r.lastF = f
	if r.failErr != nil {
		return nil, 0, r.failErr
	}
	var matched []*domain.Service
	for _, s := range r.byID {
		if f.Category != "" && s.Category != f.Category {
			continue
		}
		if f.MinPrice != nil && s.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && s.Price > *f.MaxPrice {
			continue
		}
		if f.Location != "" && !containsFold(s.Location, f.Location) {
			continue
		}
		if f.Availability != "" && s.Availability != f.Availability {
			continue
		}
		if f.Status != "" && string(s.Status) != f.Status {
			continue
		}
		if f.ProviderID != "" && s.ProviderID != f.ProviderID {
			continue
		}
		if f.Search != "" && !containsFold(s.Title, f.Search) && !containsFold(s.Description, f.Search) && !anyContainsFold(s.Tags, f.Search) {
			continue
		}
		matched = append(matched, cloneService(s))
	}
	sort.Slice(matched, func(i, j int) bool {
		if f.SortDesc {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func (r *stubServiceRepo) Update(_ context.Context, s *domain.Service, ownerID string) error {
	stored, ok := r.byID[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.ProviderID != ownerID {
		return domain.ErrForbidden
	}
	r.writes++
	r.byID[s.ID] = cloneService(s)
	return nil
}

func (r *stubServiceRepo) Delete(_ context.Context, id, ownerID string) error {
	stored, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.ProviderID != ownerID {
		return domain.ErrForbidden
	}
	r.writes++
	delete(r.byID, id)
	return nil
}

func (r *stubServiceRepo) DeleteByProvider(_ context.Context, providerID string) (int64, error) {
	if r.failErr != nil {
		return 0, r.failErr
	}
	var n int64
	for id, s := range r.byID {
		if s.ProviderID == providerID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Notifier and upload store stubs
// ---------------------------------------------------------------------------

type stubNotifier struct {
	mu       sync.Mutex
	welcome  []string
	admin    []ports.ProviderSignup
	requests []ports.ServiceRequest
	resets   map[string]string // email -> raw reset token
	err      error
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{resets: make(map[string]string)}
}

func (n *stubNotifier) SendWelcome(_ context.Context, to, _, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcome = append(n.welcome, to)
	return n.err
}

func (n *stubNotifier) SendAdminNotification(_ context.Context, signup ports.ProviderSignup) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.admin = append(n.admin, signup)
	return n.err
}

func (n *stubNotifier) SendServiceRequestNotification(_ context.Context, _ string, req ports.ServiceRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requests = append(n.requests, req)
	return n.err
}

func (n *stubNotifier) SendPasswordReset(_ context.Context, to, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets[to] = token
	return n.err
}

type stubUploadStore struct {
	saved       map[string][]byte
	contentType map[string]string
}

func newStubUploadStore() *stubUploadStore {
	return &stubUploadStore{saved: make(map[string][]byte), contentType: make(map[string]string)}
}

func (s *stubUploadStore) Save(_ context.Context, filename, contentType string, r io.Reader) (*domain.Upload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	id := fmt.Sprintf("up-%d", len(s.saved)+1)
	s.saved[id] = data
	s.contentType[id] = contentType
	return &domain.Upload{ID: id, Filename: filename, ContentType: contentType, Size: int64(len(data))}, nil
}

func (s *stubUploadStore) Open(_ context.Context, id string) (*domain.Upload, io.ReadCloser, error) {
	data, ok := s.saved[id]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	up := &domain.Upload{ID: id, ContentType: s.contentType[id], Size: int64(len(data))}
	return up, io.NopCloser(bytes.NewReader(data)), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyContainsFold(list []string, sub string) bool {
	for _, s := range list {
		if containsFold(s, sub) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	skip := (page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
