package ports

import (
	"context"

	"github.com/gofix/gofix-api/internal/core/domain"
)

// CreateServiceInput carries all data needed to publish a new service.
type CreateServiceInput struct {
	Title        string
	Description  string
	Category     string
	Price        float64
	PriceUnit    string
	Duration     string
	Availability string
	Location     string
	Tags         []string
}

// ListServicesInput carries the raw list parameters from the transport layer.
type ListServicesInput struct {
	Category     string
	MinPrice     *float64
	MaxPrice     *float64
	Location     string
	Availability string
	Status       string
	ProviderID   string
	Search       string
	Sort         string // e.g. "-createdAt", "price"
	Page         int
	Limit        int
}

// ServicePage is returned by List.
type ServicePage struct {
	Items      []*domain.Service
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CatalogService defines use-case operations for services. Mutations take
// the caller's account ID and enforce ownership.
type CatalogService interface {
	Create(ctx context.Context, ownerID string, in CreateServiceInput) (*domain.Service, error)
	Get(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, in ListServicesInput) (*ServicePage, error)
	Search(ctx context.Context, term string) ([]*domain.Service, error)
	Mine(ctx context.Context, ownerID string) ([]*domain.Service, error)
	Update(ctx context.Context, id, ownerID string, patch domain.ServicePatch) (*domain.Service, error)
	Delete(ctx context.Context, id, ownerID string) error
	ToggleStatus(ctx context.Context, id, ownerID string) (*domain.Service, error)
}
