package ports

import (
	"context"

	"github.com/gofix/gofix-api/internal/core/domain"
)

// ProviderPage is one page of the public provider directory.
type ProviderPage struct {
	Items      []*domain.Account
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AccountService covers owner-authenticated profile operations. Every
// method acts on the caller's own account only.
type AccountService interface {
	GetProfile(ctx context.Context, accountID string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, accountID string, patch domain.ProfilePatch) (*domain.Account, error)
	UpdateRole(ctx context.Context, accountID, role string) (*domain.Account, error)
	// UpdateStatus activates or deactivates the caller's account. A
	// deactivated account can no longer log in or pass the auth gate.
	UpdateStatus(ctx context.Context, accountID, status string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
	ListProviders(ctx context.Context, filter ListProvidersFilter) (*ProviderPage, error)
	// GetProvider returns one active provider of the public directory.
	GetProvider(ctx context.Context, id string) (*domain.Account, error)
}
