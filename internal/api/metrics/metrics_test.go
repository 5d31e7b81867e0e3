package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// requestCount sums gofix_http_requests_total samples matching labels.
func requestCount(t *testing.T, labels map[string]string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != "gofix_http_requests_total" {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue next
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/api/services/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	labels := map[string]string{"method": http.MethodGet, "url": "/api/services/:id", "code": "204"}
	before := requestCount(t, labels)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/services/"+id, nil))
	}

	if got := requestCount(t, labels) - before; got != 2 {
		t.Fatalf("expected 2 requests counted under the route template, got %v", got)
	}
	if v := testutil.ToFloat64(HTTPInFlight); v != 0 {
		t.Fatalf("in-flight gauge should return to 0, got %v", v)
	}
}

func TestMiddleware_UncommittedHTTPError(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.POST("/x", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusTooManyRequests)
	})

	labels := map[string]string{"method": http.MethodPost, "url": "/x", "code": "429"}
	before := requestCount(t, labels)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 response, got %d", rec.Code)
	}
	if got := requestCount(t, labels) - before; got != 1 {
		t.Fatalf("expected one 429 counted, got %v", got)
	}
}

func TestMiddleware_CanBeBuiltPerRouter(t *testing.T) {
	for i := 0; i < 2; i++ {
		e := echo.New()
		e.Use(Middleware())
		e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("router %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestObserveEmail(t *testing.T) {
	sent := EmailsTotal.WithLabelValues("welcome", "sent")
	failed := EmailsTotal.WithLabelValues("welcome", "failed")
	sentBefore, failedBefore := testutil.ToFloat64(sent), testutil.ToFloat64(failed)

	ObserveEmail("welcome", nil)
	ObserveEmail("welcome", errors.New("smtp down"))

	if testutil.ToFloat64(sent)-sentBefore != 1 || testutil.ToFloat64(failed)-failedBefore != 1 {
		t.Fatalf("expected one sent and one failed")
	}
}
