package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

const defaultServiceSort = "-createdAt"

type CatalogService struct {
	repo   ports.ServiceRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewCatalogService(repo ports.ServiceRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create publishes a new active service owned by ownerID.
func (s *CatalogService) Create(ctx context.Context, ownerID string, in ports.CreateServiceInput) (*domain.Service, error) {
	if ownerID == "" {
		return nil, domain.ErrAuthenticationRequired
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.PriceUnit = strings.TrimSpace(in.PriceUnit)
	if in.PriceUnit == "" {
		in.PriceUnit = domain.DefaultPriceUnit
	}

	switch {
	case in.Title == "":
		return nil, domain.NewValidationError("title is required")
	case in.Description == "":
		return nil, domain.NewValidationError("description is required")
	case !domain.ValidCategory(in.Category):
		return nil, domain.NewValidationError("category must be one of: " + strings.Join(domain.Categories, ", "))
	case in.Price <= 0:
		return nil, domain.NewValidationError("price must be greater than 0")
	case !domain.ValidPriceUnit(in.PriceUnit):
		return nil, domain.NewValidationError("priceUnit must be one of: " + strings.Join(domain.PriceUnits, ", "))
	}

	now := s.now()
	svc := &domain.Service{
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		Price:        in.Price,
		PriceUnit:    in.PriceUnit,
		Duration:     strings.TrimSpace(in.Duration),
		Availability: strings.TrimSpace(in.Availability),
		Location:     strings.TrimSpace(in.Location),
		Tags:         cleanTags(in.Tags),
		ProviderID:   ownerID,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, svc)
	if err != nil {
		s.logger.Error().Err(err).Str("provider_id", ownerID).Msg("failed to create service")
		return nil, err
	}

	s.logger.Info().Str("service_id", created.ID).Str("provider_id", ownerID).Str("category", created.Category).Msg("service created")
	return created, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Service, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a filtered, sorted page of services.
func (s *CatalogService) List(ctx context.Context, in ports.ListServicesInput) (*ports.ServicePage, error) {
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return nil, domain.NewValidationError("minPrice cannot be greater than maxPrice")
	}
	if in.Status != "" && !domain.ServiceStatus(in.Status).Valid() {
		return nil, domain.NewValidationError("status must be one of: active, inactive, pending")
	}

	sortBy, desc, err := parseSort(in.Sort)
	if err != nil {
		return nil, err
	}
	page, limit := normalizePage(in.Page, in.Limit)

	filter := ports.ListServicesFilter{
		Category:     strings.TrimSpace(in.Category),
		MinPrice:     in.MinPrice,
		MaxPrice:     in.MaxPrice,
		Location:     strings.TrimSpace(in.Location),
		Availability: strings.TrimSpace(in.Availability),
		Status:       in.Status,
		ProviderID:   strings.TrimSpace(in.ProviderID),
		Search:       strings.TrimSpace(in.Search),
		SortBy:       sortBy,
		SortDesc:     desc,
		Page:         page,
		Limit:        limit,
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list services")
		return nil, err
	}

	return &ports.ServicePage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Search matches term against title, description and tags without paging.
func (s *CatalogService) Search(ctx context.Context, term string) ([]*domain.Service, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.NewValidationError("Search query is required")
	}
	items, _, err := s.repo.List(ctx, ports.ListServicesFilter{
		Search:   term,
		SortBy:   ports.SortCreatedAt,
		SortDesc: true,
	})
	return items, err
}

// Mine lists every service owned by ownerID, newest first.
func (s *CatalogService) Mine(ctx context.Context, ownerID string) ([]*domain.Service, error) {
	if ownerID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	items, _, err := s.repo.List(ctx, ports.ListServicesFilter{
		ProviderID: ownerID,
		SortBy:     ports.SortCreatedAt,
		SortDesc:   true,
	})
	return items, err
}

// Update applies patch to a service owned by ownerID. Ownership is settled
// before the patch is validated.
func (s *CatalogService) Update(ctx context.Context, id, ownerID string, patch domain.ServicePatch) (*domain.Service, error) {
	svc, err := s.loadOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	patch.Apply(svc)
	svc.Title = strings.TrimSpace(svc.Title)
	svc.Description = strings.TrimSpace(svc.Description)
	svc.Tags = cleanTags(svc.Tags)
	svc.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, svc, ownerID); err != nil {
		return nil, err
	}
	s.logger.Info().Str("service_id", id).Str("provider_id", ownerID).Msg("service updated")
	return svc, nil
}

func (s *CatalogService) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.loadOwned(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.logger.Info().Str("service_id", id).Str("provider_id", ownerID).Msg("service deleted")
	return nil
}

// ToggleStatus flips an active service to inactive and back. A pending
// service becomes active.
func (s *CatalogService) ToggleStatus(ctx context.Context, id, ownerID string) (*domain.Service, error) {
	svc, err := s.loadOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	from := svc.Status
	svc.Status = from.Toggled()
	svc.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, svc, ownerID); err != nil {
		return nil, err
	}
	s.logger.Info().Str("service_id", id).Str("from", string(from)).Str("to", string(svc.Status)).Msg("service status toggled")
	return svc, nil
}

// loadOwned fetches a service and checks ownership. A missing service is
// reported before an ownership mismatch.
func (s *CatalogService) loadOwned(ctx context.Context, id, ownerID string) (*domain.Service, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !svc.OwnedBy(ownerID) {
		s.logger.Warn().Str("service_id", id).Str("requester_id", ownerID).Msg("ownership check failed")
		return nil, domain.ErrForbidden
	}
	return svc, nil
}

// parseSort accepts a field name optionally prefixed with "-" for
// descending order.
func parseSort(raw string) (ports.SortField, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = defaultServiceSort
	}
	desc := strings.HasPrefix(raw, "-")
	field := ports.SortField(strings.TrimPrefix(raw, "-"))
	switch field {
	case ports.SortCreatedAt, ports.SortPrice, ports.SortTitle:
		return field, desc, nil
	}
	return "", false, domain.NewValidationError(fmt.Sprintf("sort must be one of createdAt, price, title (got %q)", raw))
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

