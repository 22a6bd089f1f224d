package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const healthTimeout = 5 * time.Second

// PoolStats represents database connection pool statistics.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
	Healthy         bool   `json:"healthy"`
}

// GetPoolStats returns connection pool statistics.
func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
		Healthy:         stat.TotalConns() > 0,
	}
}

// Check is one named dependency probe.
type Check struct {
	Name  string
	Probe func(ctx context.Context) (any, error)
}

// PoolCheck probes pool with a ping and reports its statistics.
func PoolCheck(pool *pgxpool.Pool) Check {
	return Check{
		Name: "database",
		Probe: func(ctx context.Context) (any, error) {
			err := pool.Ping(ctx)
			stats := GetPoolStats(pool)
			stats.Healthy = err == nil
			return stats, err
		},
	}
}

// HealthHandler runs every check and answers 503 when any fails.
func HealthHandler(checks ...Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		body := map[string]any{}
		for _, chk := range checks {
			detail, err := chk.Probe(ctx)
			entry := map[string]any{"status": "healthy"}
			if detail != nil {
				entry["detail"] = detail
			}
			if err != nil {
				status = http.StatusServiceUnavailable
				entry["status"] = "unhealthy"
				entry["error"] = err.Error()
			}
			body[chk.Name] = entry
		}

		body["status"] = "healthy"
		if status != http.StatusOK {
			body["status"] = "unhealthy"
		}
		return c.JSON(status, body)
	}
}
