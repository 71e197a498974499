package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"agenticv-server/internal/analysis"
	"agenticv-server/internal/logging"
	"agenticv-server/pkg/models"
	"agenticv-server/pkg/utils"
)

// AnalyzeHandler handles POST /api/v1/analyze: forwards the request to the
// gap-analysis webhook and returns the normalized result
func AnalyzeHandler(pipeline *analysis.Pipeline) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		reqID := requestID(c)
		logger := logging.GetGlobalLogger()

		var req models.AnalysisRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			validationErr := utils.NewValidationError(err.Error())
			return c.JSON(validationErr.Code, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   validationErr.Error(),
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		result, err := pipeline.Analyze(c.Request().Context(), req)
		if err != nil {
			if errors.Is(err, analysis.ErrAnalysisInFlight) {
				return c.JSON(http.StatusConflict, models.ErrorResponse{
					Error:     "analysis_in_flight",
					Message:   err.Error(),
					RequestID: reqID,
					Timestamp: time.Now(),
				})
			}

			aerr := analysis.AsError(err)
			logger.Error("Analysis failed", map[string]interface{}{
				"request_id": reqID,
				"session_id": req.SessionID,
				"error_type": string(aerr.Type),
				"error":      aerr.Message,
			})

			return c.JSON(statusForError(aerr.Type), models.ErrorResponse{
				Error:     string(aerr.Type),
				Message:   aerr.Message,
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, models.AnalysisResponse{
			Success:        true,
			SessionID:      req.SessionID,
			Result:         result,
			ProcessingTime: time.Since(start),
			RequestID:      reqID,
		})
	}
}

// AnalysisStateHandler handles GET /api/v1/analyze/:session_id
func AnalysisStateHandler(pipeline *analysis.Pipeline) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID := c.Param("session_id")

		state, aerr := pipeline.Tracker().StateOf(sessionID)
		resp := models.AnalysisStateResponse{
			SessionID: sessionID,
			State:     string(state),
		}
		if aerr != nil {
			resp.ErrorType = string(aerr.Type)
			resp.Error = aerr.Message
		}

		return c.JSON(http.StatusOK, resp)
	}
}

func statusForError(t analysis.ErrorType) int {
	switch t {
	case analysis.ErrorTypeWebhookNotActive:
		return http.StatusServiceUnavailable
	case analysis.ErrorTypeCORS, analysis.ErrorTypeNetwork,
		analysis.ErrorTypeServiceError, analysis.ErrorTypeInvalidResponse:
		return http.StatusBadGateway
	case analysis.ErrorTypeEmptyResults:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
