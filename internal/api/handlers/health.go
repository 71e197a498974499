package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"agenticv-server/internal/config"
	"agenticv-server/internal/jd"
	"agenticv-server/internal/logging"
	"agenticv-server/internal/storage"
	"agenticv-server/pkg/models"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	})
}

// ReadinessHandler reports whether the external dependencies are reachable
func ReadinessHandler(cfg *config.Config, store storage.Store, drafts *jd.RedisDraftStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()
		checks := map[string]string{"api": "ok"}
		status := "ready"
		code := http.StatusOK

		ctx := c.Request().Context()

		if store.IsHealthy(ctx) {
			checks["storage"] = store.Name()
		} else {
			checks["storage"] = "unreachable"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if drafts != nil {
			if err := drafts.Ping(ctx); err != nil {
				logger.Warn("Redis readiness check failed", map[string]interface{}{
					"error": err.Error(),
				})
				checks["redis"] = "unreachable"
				status = "degraded"
				code = http.StatusServiceUnavailable
			} else {
				checks["redis"] = "ok"
			}
		}

		if cfg.Webhook.URL != "" || cfg.Webhook.RelayURL != "" {
			checks["webhook"] = "configured"
		} else {
			checks["webhook"] = "not_configured"
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
	})
}

// StatusHandler provides service status including the active storage backend
func StatusHandler(store storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "operational",
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks: map[string]string{
				"api":     "operational",
				"storage": store.Name(),
			},
		})
	}
}
