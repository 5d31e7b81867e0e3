package handler

import "time"

// --- Requests ---

type createServiceRequest struct {
	Title        string   `json:"title"        validate:"required,max=100"`
	Description  string   `json:"description"  validate:"required"`
	Category     string   `json:"category"     validate:"required"`
	Price        float64  `json:"price"        validate:"gt=0"`
	PriceUnit    string   `json:"priceUnit"`
	Duration     string   `json:"duration"`
	Availability string   `json:"availability"`
	Location     string   `json:"location"`
	Tags         []string `json:"tags"`
}

// updateServiceRequest is a partial update; nil fields are not touched.
// The provider cannot be changed.
type updateServiceRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Category     *string   `json:"category"`
	Price        *float64  `json:"price"`
	PriceUnit    *string   `json:"priceUnit"`
	Duration     *string   `json:"duration"`
	Availability *string   `json:"availability"`
	Location     *string   `json:"location"`
	Tags         *[]string `json:"tags"`
	Status       *string   `json:"status"`
}

// --- Responses ---

type serviceResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	PriceUnit    string    `json:"priceUnit"`
	Duration     string    `json:"duration,omitempty"`
	Availability string    `json:"availability,omitempty"`
	Location     string    `json:"location,omitempty"`
	Tags         []string  `json:"tags"`
	ProviderID   string    `json:"providerId"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type serviceEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Service serviceResponse `json:"service"`
}

type serviceListResponse struct {
	Success     bool              `json:"success"`
	Count       int               `json:"count"`
	Total       int64             `json:"total"`
	Pages       int               `json:"pages"`
	CurrentPage int               `json:"currentPage"`
	Services    []serviceResponse `json:"services"`
}

// serviceCollectionResponse is returned by the unpaginated listings.
type serviceCollectionResponse struct {
	Success  bool              `json:"success"`
	Count    int               `json:"count"`
	Services []serviceResponse `json:"services"`
}
