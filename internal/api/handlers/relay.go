package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"agenticv-server/internal/config"
	"agenticv-server/internal/logging"
	"agenticv-server/pkg/models"
)

// RelayHandler handles POST /relay: it forwards the raw request body to the
// configured webhook and returns the webhook's reply verbatim. Browsers use
// it during local development to sidestep CORS on the webhook.
func RelayHandler(cfg *config.Config) echo.HandlerFunc {
	client := &http.Client{Timeout: cfg.Webhook.Timeout}

	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.GetGlobalLogger()

		if cfg.Webhook.URL == "" {
			return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:     "webhook_not_configured",
				Message:   "No webhook URL configured for the relay",
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		req, err := http.NewRequestWithContext(
			c.Request().Context(),
			http.MethodPost,
			cfg.Webhook.URL,
			c.Request().Body,
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "relay_failed",
				Message:   "Failed to build relay request",
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			logger.Error("Relay request failed", map[string]interface{}{
				"request_id": reqID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error:     "relay_failed",
				Message:   "The analysis webhook is unreachable",
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error:     "relay_failed",
				Message:   "Failed to read webhook response",
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("Relayed analysis request", map[string]interface{}{
			"request_id": reqID,
			"status":     resp.StatusCode,
			"body_bytes": len(body),
		})

		contentType := resp.Header.Get("Content-Type")
		if contentType == "" {
			contentType = echo.MIMEApplicationJSON
		}
		return c.Blob(resp.StatusCode, contentType, body)
	}
}
