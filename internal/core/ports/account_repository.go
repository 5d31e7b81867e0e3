package ports

import (
	"context"
	"time"

	"github.com/gofix/gofix-api/internal/core/domain"
)

// ListProvidersFilter carries the query parameters of the public provider directory.
type ListProvidersFilter struct {
	ServiceType string // optional: exact match on profile.provider.service_type
	Location    string // optional: case-insensitive substring on profile.location
	Skill       string // optional: case-insensitive substring on any skill
	Page        int    // 1-based
	Limit       int
}

// AccountRepository defines persistence operations for accounts.
// Lookups by email expect an already normalised address.
type AccountRepository interface {
	// Create inserts a new account and returns it with its assigned ID.
	// Returns domain.ErrDuplicateAccount when the email is taken.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByVerificationToken(ctx context.Context, token string) (*domain.Account, error)
	FindByResetTokenHash(ctx context.Context, hash string) (*domain.Account, error)
	// Update replaces the mutable fields of an existing account.
	Update(ctx context.Context, account *domain.Account) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	ListProviders(ctx context.Context, filter ListProvidersFilter) ([]*domain.Account, int64, error)
}
