package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gofix/gofix-api/internal/api/metrics"
	"github.com/gofix/gofix-api/internal/core/ports"
)

const rateLimitMessage = "Too many requests from this IP, please try again later."

// RateLimit counts requests per client IP. When the limiter itself fails
// the request is let through and the failure logged.
func RateLimit(limiter ports.RateLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			decision, err := limiter.Allow(c.Request().Context(), ip)
			if err != nil {
				log.Warn().Err(err).Str("ip", ip).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(decision.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.Itoa(int(math.Ceil(decision.ResetIn.Seconds()))))

			if !decision.Allowed {
				metrics.RateLimitedTotal.Inc()
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(decision.ResetIn.Seconds()))))
				return echo.NewHTTPError(http.StatusTooManyRequests, rateLimitMessage)
			}
			return next(c)
		}
	}
}
