package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

const checkTimeout = 2 * time.Second

// HealthCheckFunc probes one dependency.
type HealthCheckFunc func(ctx context.Context) error

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	checkDatabase HealthCheckFunc
	checkRedis    HealthCheckFunc
	checkStorage  HealthCheckFunc
	version       string
	startedAt     time.Time
}

// NewHealthHandlers creates a new health handlers instance. A nil check is
// reported as disabled.
func NewHealthHandlers(database, redis, storage HealthCheckFunc, version string) *HealthHandlers {
	return &HealthHandlers{
		checkDatabase: database,
		checkRedis:    redis,
		checkStorage:  storage,
		version:       version,
		startedAt:     time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// HealthCheck reports every dependency; a failing one degrades the status
// to 206 rather than failing the probe.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Version:   h.version,
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
	}

	for name, check := range h.checks() {
		status, _ := runCheck(ctx, check)
		health.Services[name] = status
		if status == "unhealthy" {
			health.Status = "degraded"
		}
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}

	return c.JSON(statusCode, health)
}

// ReadinessCheck determines if the application is ready to serve traffic.
// Only the database is critical; the cache and archive degrade gracefully.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	if status, _ := runCheck(c.Request().Context(), h.checkDatabase); status == "unhealthy" {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

// LivenessCheck determines if the application is running (basic liveness probe)
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// DetailedHealthCheck provides per-dependency status, error and latency
func (h *HealthHandlers) DetailedHealthCheck(c echo.Context) error {
	ctx := c.Request().Context()

	overall := "healthy"
	checks := make(map[string]interface{})
	for name, check := range h.checks() {
		start := time.Now()
		status, err := runCheck(ctx, check)
		entry := map[string]interface{}{
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if err != nil {
			entry["message"] = err.Error()
			overall = "degraded"
		}
		checks[name] = entry
	}

	statusCode := http.StatusOK
	if overall == "degraded" {
		statusCode = http.StatusPartialContent
	}

	return c.JSON(statusCode, map[string]interface{}{
		"overall_status": overall,
		"checks":         checks,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"version":        h.version,
		"uptime":         time.Since(h.startedAt).Round(time.Second).String(),
		"goroutines":     runtime.NumGoroutine(),
	})
}

func (h *HealthHandlers) checks() map[string]HealthCheckFunc {
	return map[string]HealthCheckFunc{
		"database": h.checkDatabase,
		"redis":    h.checkRedis,
		"storage":  h.checkStorage,
	}
}

func runCheck(ctx context.Context, check HealthCheckFunc) (string, error) {
	if check == nil {
		return "disabled", nil
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := check(ctx); err != nil {
		return "unhealthy", err
	}
	return "healthy", nil
}
