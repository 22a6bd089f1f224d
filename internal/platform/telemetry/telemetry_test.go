package telemetry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return New(reg, reg)
}

func TestObserveSearch(t *testing.T) {
	m := newTestMetrics()

	m.ObserveSearch("DEFAULT", "refset", "find", 10*time.Millisecond, nil)
	m.ObserveSearch("DEFAULT", "refset", "find", 10*time.Millisecond, errors.New("boom"))
	m.ObserveFallback("DEFAULT", "refset")

	if got := testutil.ToFloat64(m.searchRequests.WithLabelValues("DEFAULT", "refset", "find")); got != 2 {
		t.Errorf("expected 2 search requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.searchErrors.WithLabelValues("DEFAULT", "refset")); got != 1 {
		t.Errorf("expected 1 search error, got %v", got)
	}
	if got := testutil.ToFloat64(m.searchFallback.WithLabelValues("DEFAULT", "refset")); got != 1 {
		t.Errorf("expected 1 fallback, got %v", got)
	}
}

func TestIndexUpdated(t *testing.T) {
	m := newTestMetrics()
	m.IndexUpdated("mapping", "reindex", 25)
	m.IndexUpdated("mapping", "put", 1)

	if got := testutil.ToFloat64(m.indexUpdates.WithLabelValues("mapping", "reindex")); got != 25 {
		t.Errorf("expected 25 reindexed documents, got %v", got)
	}
}

func TestMiddleware_Labels(t *testing.T) {
	m := newTestMetrics()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/refsets/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/refsets/42", nil))

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/refsets/:id", "404")); got != 1 {
		t.Errorf("expected 1 request for route pattern, got %v", got)
	}
	if got := testutil.ToFloat64(m.activeRequests); got != 0 {
		t.Errorf("expected no active requests, got %v", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := newTestMetrics()
	m.ObserveSearch("PG", "project", "total", time.Millisecond, nil)

	e := echo.New()
	e.GET("/metrics", m.Handler())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`refset_search_requests_total{entity="project",handler="PG",op="total"} 1`,
		"refset_search_duration_seconds_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected exposition to contain %s", want)
		}
	}
}
