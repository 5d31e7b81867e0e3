package domain

import (
	"strings"
	"time"
)

// ServiceStatus represents the visibility state of a published service.
type ServiceStatus string

const (
	StatusActive   ServiceStatus = "active"
	StatusInactive ServiceStatus = "inactive"
	StatusPending  ServiceStatus = "pending"
)

// toggleTransitions defines where ToggleStatus moves a service from each state.
var toggleTransitions = map[ServiceStatus]ServiceStatus{
	StatusActive:   StatusInactive,
	StatusInactive: StatusActive,
	StatusPending:  StatusActive,
}

// Toggled returns the status a toggle moves s to.
func (s ServiceStatus) Toggled() ServiceStatus {
	if next, ok := toggleTransitions[s]; ok {
		return next
	}
	return StatusActive
}

// Valid reports whether s is a known status.
func (s ServiceStatus) Valid() bool {
	_, ok := toggleTransitions[s]
	return ok
}

// Categories is the closed set of trades a service can be listed under.
var Categories = []string{
	"ac-technician",
	"barber",
	"carpenter",
	"cleaner",
	"electrician",
	"gardener",
	"hairdresser",
	"handyman",
	"interior-decorator",
	"mechanic",
	"painter",
	"plumber",
	"security",
	"tailor",
	"tiler",
}

// ValidCategory reports whether c belongs to Categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// PriceUnits are the accepted units a price is quoted in.
var PriceUnits = []string{"hour", "project", "day", "month"}

const DefaultPriceUnit = "hour"

// ValidPriceUnit reports whether u belongs to PriceUnits.
func ValidPriceUnit(u string) bool {
	for _, known := range PriceUnits {
		if known == u {
			return true
		}
	}
	return false
}

// Service is an offering published by a provider.
type Service struct {
	ID           string
	Title        string
	Description  string
	Category     string
	Price        float64
	PriceUnit    string
	Duration     string
	Availability string
	Location     string
	Tags         []string
	ProviderID   string
	Status       ServiceStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnedBy reports whether accountID is the service's provider.
func (s *Service) OwnedBy(accountID string) bool {
	return accountID != "" && s.ProviderID == accountID
}

// ServicePatch is a partial update of a service. Nil means "leave as is".
// The provider is not patchable.
type ServicePatch struct {
	Title        *string
	Description  *string
	Category     *string
	Price        *float64
	PriceUnit    *string
	Duration     *string
	Availability *string
	Location     *string
	Tags         *[]string
	Status       *ServiceStatus
}

// Validate checks every supplied field.
func (p ServicePatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return NewValidationError("title cannot be empty")
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return NewValidationError("description cannot be empty")
	}
	if p.Category != nil && !ValidCategory(*p.Category) {
		return NewValidationError("category must be one of: " + strings.Join(Categories, ", "))
	}
	if p.Price != nil && *p.Price <= 0 {
		return NewValidationError("price must be greater than 0")
	}
	if p.PriceUnit != nil && !ValidPriceUnit(*p.PriceUnit) {
		return NewValidationError("priceUnit must be one of: " + strings.Join(PriceUnits, ", "))
	}
	if p.Status != nil && !p.Status.Valid() {
		return NewValidationError("status must be one of: active, inactive, pending")
	}
	return nil
}

// Apply merges p into s.
func (p ServicePatch) Apply(s *Service) {
	setString(&s.Title, p.Title)
	setString(&s.Description, p.Description)
	setString(&s.Category, p.Category)
	setString(&s.PriceUnit, p.PriceUnit)
	setString(&s.Duration, p.Duration)
	setString(&s.Availability, p.Availability)
	setString(&s.Location, p.Location)
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.Tags != nil {
		s.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
}
