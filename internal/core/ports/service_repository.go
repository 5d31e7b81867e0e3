package ports

import (
	"context"

	"github.com/gofix/gofix-api/internal/core/domain"
)

// SortField is a whitelisted sort key for service listings.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortPrice     SortField = "price"
	SortTitle     SortField = "title"
)

// ListServicesFilter carries all query parameters for listing services.
type ListServicesFilter struct {
	Category     string   // optional: exact match
	MinPrice     *float64 // optional: price >= MinPrice
	MaxPrice     *float64 // optional: price <= MaxPrice
	Location     string   // optional: case-insensitive substring
	Availability string   // optional: exact match
	Status       string   // optional: exact match
	ProviderID   string   // optional: owner
	Search       string   // optional: case-insensitive substring on title, description or tags
	SortBy       SortField
	SortDesc     bool
	Page         int // 1-based; 0 disables pagination
	Limit        int
}

// ServiceRepository defines persistence operations for services.
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) (*domain.Service, error)
	FindByID(ctx context.Context, id string) (*domain.Service, error)
	// List returns a page of services matching filter and the total count.
	List(ctx context.Context, filter ListServicesFilter) ([]*domain.Service, int64, error)
	// Update persists s only if its provider still matches ownerID.
	Update(ctx context.Context, s *domain.Service, ownerID string) error
	Delete(ctx context.Context, id, ownerID string) error
	DeleteByProvider(ctx context.Context, providerID string) (int64, error)
}
