// Package metrics defines and registers the Prometheus metrics of the GoFix
// API. It is the single source of truth for metric names, labels and help
// strings. All collectors register with the default registry on import.
package metrics

import (
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gofix"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPInFlight tracks requests currently being served. Request counts,
// latencies and sizes come from echoprometheus under gofix_http_*.
var HTTPInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "Number of HTTP requests currently being served.",
	},
)

// RateLimitedTotal counts requests rejected with 429.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// SignupsTotal counts created accounts.
// Label:
//   - role: "provider" or "seeker"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// ServicesCreatedTotal counts published services by category.
var ServicesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "services_created_total",
		Help:      "Total number of services published, by category.",
	},
	[]string{"category"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// EmailsTotal counts delivery outcomes.
// Labels:
//   - kind: welcome, admin, service_request, password_reset
//   - result: "sent", "failed" or "dropped"
var EmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_total",
		Help:      "Total number of outbound emails, by kind and result.",
	},
	[]string{"kind", "result"},
)

// RegisterMailQueueDepth exposes depth as a gauge sampled on scrape.
// Call once at startup.
func RegisterMailQueueDepth(depth func() int) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mail_queue_depth",
			Help:      "Current number of emails waiting in the delivery queue.",
		},
		func() float64 { return float64(depth()) },
	)
}

// ObserveEmail records the outcome of one delivery.
func ObserveEmail(kind string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	EmailsTotal.WithLabelValues(kind, result).Inc()
}

// requestMetrics registers the echoprometheus collectors with the default
// registry exactly once, however many routers are built in the process.
var requestMetrics = sync.OnceValue(func() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 namespace,
		Subsystem:                 "http",
		DoNotUseRequestPathFor404: true,
	})
})

// Middleware records request count, latency, sizes and in-flight requests,
// labelled by method, status code and route template. It must be registered
// before the request logger so that errors have already been rendered when
// the status is read.
func Middleware() echo.MiddlewareFunc {
	observe := requestMetrics()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		counted := observe(next)
		return func(c echo.Context) error {
			HTTPInFlight.Inc()
			defer HTTPInFlight.Dec()
			return counted(c)
		}
	}
}
