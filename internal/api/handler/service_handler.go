package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gofix/gofix-api/internal/api/metrics"
	"github.com/gofix/gofix-api/internal/core/ports"
)

// ServiceHandler handles HTTP requests for the service catalog.
type ServiceHandler struct {
	catalog ports.CatalogService
}

func NewServiceHandler(catalog ports.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// Create handles POST /api/services.
//
// @Summary      Publish a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createServiceRequest  true  "Service details"
// @Success      201   {object}  serviceEnvelope
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /api/services [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	ownerID, err := ctxAccountID(c)
	if err != nil {
		return err
	}
	var req createServiceRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	svc, err := h.catalog.Create(c.Request().Context(), ownerID, toCreateServiceInput(req))
	if err != nil {
		return err
	}
	metrics.ServicesCreatedTotal.WithLabelValues(svc.Category).Inc()

	return c.JSON(http.StatusCreated, serviceEnvelope{
		Success: true,
		Message: "Service created successfully",
		Service: toServiceResponse(svc),
	})
}

// List handles GET /api/services.
//
// @Summary      List services
// @Tags         services
// @Produce      json
// @Param        category      query     string  false  "Exact category"
// @Param        minPrice      query     number  false  "Lowest price"
// @Param        maxPrice      query     number  false  "Highest price"
// @Param        location      query     string  false  "Location substring"
// @Param        availability  query     string  false  "Exact availability"
// @Param        status        query     string  false  "active, inactive or pending"
// @Param        provider      query     string  false  "Provider id"
// @Param        search        query     string  false  "Substring of title, description or tags"
// @Param        sort          query     string  false  "createdAt, price or title; prefix - for descending"
// @Param        page          query     int     false  "Page (default 1)"
// @Param        limit         query     int     false  "Page size (default 10, max 100)"
// @Success      200           {object}  serviceListResponse
// @Failure      400           {object}  map[string]any
// @Router       /api/services [get]
func (h *ServiceHandler) List(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}
	minPrice, err := optionalFloat(c, "minPrice")
	if err != nil {
		return err
	}
	maxPrice, err := optionalFloat(c, "maxPrice")
	if err != nil {
		return err
	}

	result, err := h.catalog.List(c.Request().Context(), ports.ListServicesInput{
		Category:     c.QueryParam("category"),
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		Location:     c.QueryParam("location"),
		Availability: c.QueryParam("availability"),
		Status:       c.QueryParam("status"),
		ProviderID:   c.QueryParam("provider"),
		Search:       c.QueryParam("search"),
		Sort:         c.QueryParam("sort"),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serviceListResponse{
		Success:     true,
		Count:       len(result.Items),
		Total:       result.Total,
		Pages:       result.TotalPages,
		CurrentPage: result.Page,
		Services:    toServiceResponses(result.Items),
	})
}

// Search handles GET /api/services/search?q=.
//
// @Summary      Search services
// @Tags         services
// @Produce      json
// @Param        q    query     string  true  "Search term"
// @Success      200  {object}  serviceCollectionResponse
// @Failure      400  {object}  map[string]any
// @Router       /api/services/search [get]
func (h *ServiceHandler) Search(c echo.Context) error {
	items, err := h.catalog.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, serviceCollectionResponse{
		Success:  true,
		Count:    len(items),
		Services: toServiceResponses(items),
	})
}

// Mine handles GET /api/services/mine.
//
// @Summary      List own services
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  serviceCollectionResponse
// @Failure      401  {object}  map[string]any
// @Router       /api/services/mine [get]
func (h *ServiceHandler) Mine(c echo.Context) error {
	ownerID, err := ctxAccountID(c)
	if err != nil {
		return err
	}
	items, err := h.catalog.Mine(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, serviceCollectionResponse{
		Success:  true,
		Count:    len(items),
		Services: toServiceResponses(items),
	})
}

// Get handles GET /api/services/:id.
//
// @Summary      Get a service
// @Tags         services
// @Produce      json
// @Param        id   path      string  true  "Service id"
// @Success      200  {object}  serviceEnvelope
// @Failure      404  {object}  map[string]any
// @Router       /api/services/{id} [get]
func (h *ServiceHandler) Get(c echo.Context) error {
	svc, err := h.catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, serviceEnvelope{Success: true, Service: toServiceResponse(svc)})
}

// Update handles PUT /api/services/:id. Only the owner may update.
//
// @Summary      Update a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Service id"
// @Param        body  body      updateServiceRequest  true  "Fields to change"
// @Success      200   {object}  serviceEnvelope
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/services/{id} [put]
func (h *ServiceHandler) Update(c echo.Context) error {
	ownerID, err := ctxAccountID(c)
	if err != nil {
		return err
	}
	var req updateServiceRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload(err)
	}

	svc, err := h.catalog.Update(c.Request().Context(), c.Param("id"), ownerID, toServicePatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, serviceEnvelope{
		Success: true,
		Message: "Service updated successfully",
		Service: toServiceResponse(svc),
	})
}

// Delete handles DELETE /api/services/:id. Only the owner may delete.
//
// @Summary      Delete a service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/services/{id} [delete]
func (h *ServiceHandler) Delete(c echo.Context) error {
	ownerID, err := ctxAccountID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.Delete(c.Request().Context(), c.Param("id"), ownerID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okMessage("Service deleted successfully"))
}

// ToggleStatus handles PATCH /api/services/:id/toggle.
//
// @Summary      Toggle a service between active and inactive
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service id"
// @Success      200  {object}  serviceEnvelope
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/services/{id}/toggle [patch]
func (h *ServiceHandler) ToggleStatus(c echo.Context) error {
	ownerID, err := ctxAccountID(c)
	if err != nil {
		return err
	}
	svc, err := h.catalog.ToggleStatus(c.Request().Context(), c.Param("id"), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, serviceEnvelope{
		Success: true,
		Message: "Service is now " + string(svc.Status),
		Service: toServiceResponse(svc),
	})
}
