// Package telemetry exposes Prometheus metrics for HTTP traffic, searches
// and index maintenance.
package telemetry

import (
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "refset"

var defaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Metrics holds every collector. Build one per registerer.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	activeRequests prometheus.Gauge

	searchRequests *prometheus.CounterVec
	searchFallback *prometheus.CounterVec
	searchErrors   *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec

	indexUpdates *prometheus.CounterVec
}

// New registers the collectors with reg. gatherer backs Handler and is
// usually the same registry.
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: gatherer,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   defaultDurationBuckets,
		}, []string{"method", "route"}),
		activeRequests: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Requests currently being served.",
		}),
		searchRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Searches by handler, entity and operation.",
		}, []string{"handler", "entity", "op"}),
		searchFallback: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_fallbacks_total",
			Help:      "Searches retried with the literal query after a parse failure.",
		}, []string{"handler", "entity"}),
		searchErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_errors_total",
			Help:      "Searches that failed after any fallback.",
		}, []string{"handler", "entity"}),
		searchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search latency including any fallback attempt.",
			Buckets:   defaultDurationBuckets,
		}, []string{"handler", "op"}),
		indexUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_updates_total",
			Help:      "Index writes by entity and operation.",
		}, []string{"entity", "op"}),
	}
}

// ObserveSearch records one search.
func (m *Metrics) ObserveSearch(handler, entity, op string, elapsed time.Duration, err error) {
	m.searchRequests.WithLabelValues(handler, entity, op).Inc()
	m.searchDuration.WithLabelValues(handler, op).Observe(elapsed.Seconds())
	if err != nil {
		m.searchErrors.WithLabelValues(handler, entity).Inc()
	}
}

// ObserveFallback records one literal retry.
func (m *Metrics) ObserveFallback(handler, entity string) {
	m.searchFallback.WithLabelValues(handler, entity).Inc()
}

// IndexUpdated records an index write: op is put, delete or reindex.
func (m *Metrics) IndexUpdated(entity, op string, n int) {
	m.indexUpdates.WithLabelValues(entity, op).Add(float64(n))
}

// RegisterPool exposes pgxpool statistics as gauges.
func RegisterPool(reg prometheus.Registerer, pool *pgxpool.Pool) {
	f := promauto.With(reg)
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "db", Name: "pool_total_conns",
		Help: "Total connections in the pool.",
	}, func() float64 { return float64(pool.Stat().TotalConns()) })
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "db", Name: "pool_idle_conns",
		Help: "Idle connections in the pool.",
	}, func() float64 { return float64(pool.Stat().IdleConns()) })
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "db", Name: "pool_acquired_conns",
		Help: "Connections currently in use.",
	}, func() float64 { return float64(pool.Stat().AcquiredConns()) })
}

// Middleware records request counts and latency per route pattern.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.activeRequests.Inc()
			defer m.activeRequests.Dec()

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			method := c.Request().Method
			m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
