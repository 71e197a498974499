package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"agenticv-server/pkg/models"
	"agenticv-server/pkg/utils"
)

// Ceiling for JSON request bodies. Multipart uploads are exempt; the file
// validator enforces their own limit.
const maxJSONBodyBytes = 1024 * 1024

// RequestValidation assigns a request ID and rejects oversized JSON bodies
func RequestValidation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := utils.GenerateRequestID()
			c.Set("request_id", requestID)
			c.Response().Header().Set("X-Request-ID", requestID)

			if c.Request().Method == http.MethodPost || c.Request().Method == http.MethodPut {
				contentType := c.Request().Header.Get(echo.HeaderContentType)
				if !strings.HasPrefix(contentType, "multipart/form-data") {
					if c.Request().ContentLength > maxJSONBodyBytes {
						return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
							Error:     "request_too_large",
							Message:   "Request body too large",
							RequestID: requestID,
							Timestamp: time.Now(),
						})
					}
					// Chunked requests carry no Content-Length; cap the body
					// itself so reads past the ceiling fail
					c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxJSONBodyBytes)
				}
			}

			return next(c)
		}
	}
}
