package handler

import (
	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateServiceInput(req createServiceRequest) ports.CreateServiceInput {
	return ports.CreateServiceInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		PriceUnit:    req.PriceUnit,
		Duration:     req.Duration,
		Availability: req.Availability,
		Location:     req.Location,
		Tags:         req.Tags,
	}
}

func toServicePatch(req updateServiceRequest) domain.ServicePatch {
	patch := domain.ServicePatch{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		PriceUnit:    req.PriceUnit,
		Duration:     req.Duration,
		Availability: req.Availability,
		Location:     req.Location,
		Tags:         req.Tags,
	}
	if req.Status != nil {
		status := domain.ServiceStatus(*req.Status)
		patch.Status = &status
	}
	return patch
}

// --- Service result → HTTP response ---

func toServiceResponse(s *domain.Service) serviceResponse {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return serviceResponse{
		ID:           s.ID,
		Title:        s.Title,
		Description:  s.Description,
		Category:     s.Category,
		Price:        s.Price,
		PriceUnit:    s.PriceUnit,
		Duration:     s.Duration,
		Availability: s.Availability,
		Location:     s.Location,
		Tags:         tags,
		ProviderID:   s.ProviderID,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt.UTC(),
		UpdatedAt:    s.UpdatedAt.UTC(),
	}
}

func toServiceResponses(items []*domain.Service) []serviceResponse {
	out := make([]serviceResponse, 0, len(items))
	for _, s := range items {
		out = append(out, toServiceResponse(s))
	}
	return out
}
