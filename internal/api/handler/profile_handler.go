package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gofix/gofix-api/internal/core/ports"
)

// ProfileHandler serves the caller's own account and the public provider
// directory.
type ProfileHandler struct {
	accounts ports.AccountService
	auth     *AuthHandler
}

func NewProfileHandler(accounts ports.AccountService, auth *AuthHandler) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, auth: auth}
}

// Get handles GET /api/profile.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountEnvelope
// @Failure      401  {object}  map[string]any
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	id, err := ctxAccountID(c)
	if err != nil {
		return err
	}
	account, err := h.accounts.GetProfile(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountEnvelope{Success: true, User: toAccountResponse(account)})
}

// Update handles PUT /api/profile. Fields left out of the body keep their
// stored values.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  accountEnvelope
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	id, err := ctxAccountID(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload(err)
	}

	account, err := h.accounts.UpdateProfile(c.Request().Context(), id, toProfilePatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountEnvelope{
		Success: true,
		Message: "Profile updated successfully",
		User:    toAccountResponse(account),
	})
}

// Delete handles DELETE /api/account. The caller's services go with it.
//
// @Summary      Delete own account
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]any
// @Router       /api/account [delete]
func (h *ProfileHandler) Delete(c echo.Context) error {
	id, err := ctxAccountID(c)
	if err != nil {
		return err
	}
	if err := h.accounts.DeleteAccount(c.Request().Context(), id); err != nil {
		return err
	}
	h.auth.clearSessionCookie(c)
	return c.JSON(http.StatusOK, okMessage("Account deleted successfully"))
}

// UpdateStatus handles PATCH /api/account/status. Deactivating ends the
// session: the cookie is cleared and later requests are refused.
//
// @Summary      Activate or deactivate own account
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  accountEnvelope
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /api/account/status [patch]
func (h *ProfileHandler) UpdateStatus(c echo.Context) error {
	id, err := ctxAccountID(c)
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.accounts.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}
	if !account.Active {
		h.auth.clearSessionCookie(c)
	}
	return c.JSON(http.StatusOK, accountEnvelope{
		Success: true,
		Message: "Account status updated successfully",
		User:    toAccountResponse(account),
	})
}

// GetProvider handles GET /api/providers/:id.
//
// @Summary      Get a provider
// @Tags         profile
// @Produce      json
// @Param        id   path      string  true  "Provider ID"
// @Success      200  {object}  providerEnvelope
// @Failure      404  {object}  map[string]any
// @Router       /api/providers/{id} [get]
func (h *ProfileHandler) GetProvider(c echo.Context) error {
	account, err := h.accounts.GetProvider(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, providerEnvelope{Success: true, Provider: toAccountResponse(account)})
}

// ListProviders handles GET /api/providers.
//
// @Summary      List providers
// @Tags         profile
// @Produce      json
// @Param        serviceType  query     string  false  "Exact service type"
// @Param        location     query     string  false  "Location substring"
// @Param        skill        query     string  false  "Skill substring"
// @Param        page         query     int     false  "Page (default 1)"
// @Param        limit        query     int     false  "Page size (default 10, max 100)"
// @Success      200          {object}  providerListResponse
// @Failure      400          {object}  map[string]any
// @Router       /api/providers [get]
func (h *ProfileHandler) ListProviders(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	result, err := h.accounts.ListProviders(c.Request().Context(), ports.ListProvidersFilter{
		ServiceType: c.QueryParam("serviceType"),
		Location:    c.QueryParam("location"),
		Skill:       c.QueryParam("skill"),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, providerListResponse{
		Success:     true,
		Count:       len(result.Items),
		Total:       result.Total,
		Pages:       result.TotalPages,
		CurrentPage: result.Page,
		Providers:   toAccountResponses(result.Items),
	})
}
