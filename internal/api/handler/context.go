package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/gofix/gofix-api/internal/core/domain"
)

// ctxAccount returns the account injected by the Auth middleware. A missing
// account means the route was registered without the middleware; it is
// reported as an authentication failure rather than a panic.
func ctxAccount(c echo.Context) (*domain.Account, error) {
	account, _ := c.Get("account").(*domain.Account)
	if account == nil || account.ID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	return account, nil
}

func ctxAccountID(c echo.Context) (string, error) {
	id, _ := c.Get("account_id").(string)
	if id == "" {
		return "", domain.ErrAuthenticationRequired
	}
	return id, nil
}
