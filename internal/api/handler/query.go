package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// pageParams reads the page and limit query parameters. Absent values stay
// zero so the service applies its defaults.
func pageParams(c echo.Context) (page, limit int, err error) {
	err = echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers").SetInternal(err)
	}
	return page, limit, nil
}

// optionalFloat parses a query parameter that may be absent.
func optionalFloat(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a number").SetInternal(err)
	}
	return &v, nil
}
