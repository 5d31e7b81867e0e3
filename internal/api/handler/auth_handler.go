package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gofix/gofix-api/internal/api/metrics"
	"github.com/gofix/gofix-api/internal/api/middleware"
	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

// CookieOptions controls the session cookie written on signup and login.
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	authService    ports.AuthService
	accountService ports.AccountService
	cookie         CookieOptions
}

func NewAuthHandler(authService ports.AuthService, accountService ports.AccountService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, accountService: accountService, cookie: cookie}
}

func errInvalidPayload(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
}

// Signup creates a new account and opens a session.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration form"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  map[string]any
// @Failure      500   {object}  map[string]any
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload(err)
	}

	session, err := h.authService.Signup(c.Request().Context(), toSignupInput(req))
	if err != nil {
		return err
	}
	metrics.SignupsTotal.WithLabelValues(string(session.Account.Role)).Inc()

	h.setSessionCookie(c, session.Token)
	return c.JSON(http.StatusCreated, sessionResponse{
		Success: true,
		Message: "User registered successfully",
		Token:   session.Token,
		User:    toAccountResponse(session.Account),
	})
}

// Login authenticates an account and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload(err)
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	h.setSessionCookie(c, session.Token)
	return c.JSON(http.StatusOK, sessionResponse{
		Success: true,
		Message: "Login successful",
		Token:   session.Token,
		User:    toAccountResponse(session.Account),
	})
}

// Logout clears the session cookie. Tokens are stateless, so a copy held
// elsewhere stays valid until it expires.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, okMessage("Logged out successfully"))
}

// Refresh exchanges a valid token for one with a fresh expiry.
//
// @Summary      Refresh the session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Token, when not sent as cookie or header"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]any
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return errInvalidPayload(err)
		}
	}
	token := req.Token
	if token == "" {
		token = middleware.ExtractToken(c)
	}
	if token == "" {
		return domain.ErrAuthenticationRequired
	}

	session, err := h.authService.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, session.Token)
	return c.JSON(http.StatusOK, sessionResponse{
		Success: true,
		Token:   session.Token,
		User:    toAccountResponse(session.Account),
	})
}

// Check returns the identity behind the current session.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountEnvelope
// @Failure      401  {object}  map[string]any
// @Router       /api/auth/check [get]
func (h *AuthHandler) Check(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountEnvelope{Success: true, User: toAccountResponse(account)})
}

// VerifyEmail consumes the link sent in the welcome email.
//
// @Summary      Verify an email address
// @Tags         auth
// @Produce      json
// @Param        token  path      string  true  "Verification token"
// @Success      200    {object}  messageResponse
// @Failure      404    {object}  map[string]any
// @Router       /api/auth/verify/{token} [get]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	if _, err := h.authService.VerifyEmail(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okMessage("Email verified successfully"))
}

// ForgotPassword mails a reset link. The response does not reveal whether
// the address is registered.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]any
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okMessage("If that email is registered, a reset link has been sent"))
}

// ResetPassword sets a new password using a reset token.
//
// @Summary      Reset a password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]any
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okMessage("Password has been reset"))
}

// UpdateRole switches the caller between provider and seeker.
//
// @Summary      Change own role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  accountEnvelope
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /api/auth/role [patch]
func (h *AuthHandler) UpdateRole(c echo.Context) error {
	id, err := ctxAccountID(c)
	if err != nil {
		return err
	}
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.accountService.UpdateRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountEnvelope{
		Success: true,
		Message: "Role updated successfully",
		User:    toAccountResponse(account),
	})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
