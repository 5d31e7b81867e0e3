package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

type AccountService struct {
	repo     ports.AccountRepository
	services ports.ServiceRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAccountService(repo ports.AccountRepository, services ports.ServiceRepository, logger zerolog.Logger) *AccountService {
	return &AccountService{
		repo:     repo,
		services: services,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AccountService) GetProfile(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.repo.FindByID(ctx, accountID)
}

// UpdateProfile merges patch into the caller's account. Fields the patch
// leaves nil keep their stored value.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, patch domain.ProfilePatch) (*domain.Account, error) {
	patch, err := normalizeProfilePatch(patch)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	domain.ApplyProfilePatch(account, patch)
	account.Refresh(s.now())
	if err := s.repo.Update(ctx, account); err != nil {
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("failed to update profile")
		return nil, err
	}

	s.logger.Info().Str("account_id", accountID).Bool("profile_complete", account.ProfileComplete).Msg("profile updated")
	return account, nil
}

func normalizeProfilePatch(p domain.ProfilePatch) (domain.ProfilePatch, error) {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
			return p, domain.NewValidationError("name must be between 2 and 50 characters")
		}
		p.Name = &name
	}
	if p.Provider.HourlyRate != nil && *p.Provider.HourlyRate < 0 {
		return p, domain.NewValidationError("hourlyRate cannot be negative")
	}
	if p.Seeker.Budget != nil && *p.Seeker.Budget < 0 {
		return p, domain.NewValidationError("budget cannot be negative")
	}
	return p, nil
}

// UpdateRole switches the caller between provider and seeker. Both profile
// variants are retained; only completeness is recomputed.
func (s *AccountService) UpdateRole(ctx context.Context, accountID, role string) (*domain.Account, error) {
	parsed, ok := domain.ParseRole(role)
	if !ok {
		return nil, domain.NewValidationError("role must be either provider or seeker")
	}

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Role == parsed {
		return account, nil
	}

	account.Role = parsed
	account.Refresh(s.now())
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	s.logger.Info().Str("account_id", accountID).Str("role", string(parsed)).Msg("role changed")
	return account, nil
}

// UpdateStatus flips the caller's Active flag.
func (s *AccountService) UpdateStatus(ctx context.Context, accountID, status string) (*domain.Account, error) {
	active, ok := domain.ParseAccountStatus(status)
	if !ok {
		return nil, domain.NewValidationError("status must be either active or inactive")
	}

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Active == active {
		return account, nil
	}

	account.Active = active
	account.Refresh(s.now())
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	s.logger.Info().Str("account_id", accountID).Bool("active", active).Msg("account status changed")
	return account, nil
}

// DeleteAccount removes the caller's account together with every service
// it published.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID string) error {
	if _, err := s.repo.FindByID(ctx, accountID); err != nil {
		return err
	}

	removed, err := s.services.DeleteByProvider(ctx, accountID)
	if err != nil {
		return fmt.Errorf("delete account services: %w", err)
	}
	if err := s.repo.Delete(ctx, accountID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	s.logger.Info().Str("account_id", accountID).Int64("services_removed", removed).Msg("account deleted")
	return nil
}

// ListProviders returns one page of the public provider directory.
func (s *AccountService) ListProviders(ctx context.Context, filter ports.ListProvidersFilter) (*ports.ProviderPage, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	filter.ServiceType = strings.TrimSpace(filter.ServiceType)
	filter.Location = strings.TrimSpace(filter.Location)
	filter.Skill = strings.TrimSpace(filter.Skill)

	items, total, err := s.repo.ListProviders(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list providers")
		return nil, err
	}
	return &ports.ProviderPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// GetProvider reads a single directory entry. Seekers, inactive accounts
// and unknown ids all report ErrNotFound.
func (s *AccountService) GetProvider(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if account.Role != domain.RoleProvider || !account.Active {
		return nil, domain.ErrNotFound
	}
	return account, nil
}
