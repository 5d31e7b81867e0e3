package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/gofix/gofix-api/internal/api/handler"
	"github.com/gofix/gofix-api/internal/api/metrics"
	"github.com/gofix/gofix-api/internal/api/middleware"
	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

// Options holds the transport settings of the router.
type Options struct {
	CORSOrigin  string
	Development bool
	BodyLimit   string // echo size notation, e.g. "6M"
	TokenTTL    time.Duration
}

// Deps are the use cases and adapters the routes are served by.
type Deps struct {
	Auth          ports.AuthService
	Accounts      ports.AccountService
	Catalog       ports.CatalogService
	Uploads       ports.UploadService
	Notifier      ports.Notifier
	Verifier      ports.TokenVerifier
	AccountLookup ports.AccountLookup
	RateLimiter   ports.RateLimiter
	HealthChecks  map[string]handler.DependencyCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options, deps Deps, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, opts.Development)

	bodyLimit := opts.BodyLimit
	if bodyLimit == "" {
		bodyLimit = "6M"
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(requestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{opts.CORSOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Accounts, handler.CookieOptions{
		TTL:    opts.TokenTTL,
		Secure: !opts.Development,
	})
	profileHandler := handler.NewProfileHandler(deps.Accounts, authHandler)
	serviceHandler := handler.NewServiceHandler(deps.Catalog)
	notificationHandler := handler.NewNotificationHandler(deps.Notifier)
	uploadHandler := handler.NewUploadHandler(deps.Uploads)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	requireAuth := middleware.Auth(deps.Verifier, deps.AccountLookup)
	providerOnly := middleware.RBAC(domain.RoleProvider)

	api := e.Group("/api", middleware.RateLimit(deps.RateLimiter, log))

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/check", authHandler.Check, requireAuth)
	auth.GET("/verify/:token", authHandler.VerifyEmail)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.PATCH("/role", authHandler.UpdateRole, requireAuth)

	// --- Account routes ---
	api.GET("/profile", profileHandler.Get, requireAuth)
	api.PUT("/profile", profileHandler.Update, requireAuth)
	api.DELETE("/account", profileHandler.Delete, requireAuth)
	api.PATCH("/account/status", profileHandler.UpdateStatus, requireAuth)
	api.GET("/providers", profileHandler.ListProviders)
	api.GET("/providers/:id", profileHandler.GetProvider)

	// --- Service catalog routes ---
	services := api.Group("/services")
	services.GET("", serviceHandler.List)
	services.GET("/search", serviceHandler.Search)
	services.GET("/mine", serviceHandler.Mine, requireAuth)
	services.GET("/:id", serviceHandler.Get)
	services.POST("", serviceHandler.Create, requireAuth, providerOnly)
	services.PUT("/:id", serviceHandler.Update, requireAuth)
	services.DELETE("/:id", serviceHandler.Delete, requireAuth)
	services.PATCH("/:id/toggle", serviceHandler.ToggleStatus, requireAuth)

	api.POST("/service-requests/notify", notificationHandler.NotifyServiceRequest, requireAuth)

	// --- Uploads ---
	api.POST("/upload", uploadHandler.Upload)
	api.GET("/uploads/:id", uploadHandler.Serve)

	// --- Health probes, metrics and docs (no auth, no rate limit) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger logs one line per request. The matched route is logged
// instead of the raw URI so path tokens never reach the logs.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
