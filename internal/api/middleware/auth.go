package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

// TokenCookie is the name of the session cookie set on signup and login.
const TokenCookie = "token"

// Auth resolves the session token to an account and injects it into the
// context as "account", "account_id" and "role". The cookie wins over the
// Authorization header when both are present.
func Auth(verifier ports.TokenVerifier, accounts ports.AccountLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c)
			if token == "" {
				return domain.ErrAuthenticationRequired
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				return err
			}

			account, err := accounts.FindByID(c.Request().Context(), claims.AccountID)
			if err != nil {
				if errors.Is(err, domain.ErrAccountNotFound) {
					return err
				}
				return fmt.Errorf("auth: load account: %w", err)
			}
			if !account.Active {
				return domain.ErrAccountNotFound
			}

			c.Set("account", account)
			c.Set("account_id", account.ID)
			c.Set("role", account.Role)

			return next(c)
		}
	}
}

// ExtractToken returns the session token from the "token" cookie or, failing
// that, from an "Authorization: Bearer" header. It returns "" when neither
// carries one.
func ExtractToken(c echo.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
