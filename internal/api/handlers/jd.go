package handlers

import (
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"agenticv-server/internal/jd"
	"agenticv-server/internal/logging"
	"agenticv-server/pkg/models"
	"agenticv-server/pkg/utils"
)

var validate = validator.New()

// SaveDraftHandler handles PUT /api/v1/jd/:session_id
func SaveDraftHandler(svc *jd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID := c.Param("session_id")

		var req models.SaveDraftRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID(c),
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			validationErr := utils.NewValidationError(err.Error())
			return c.JSON(validationErr.Code, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   validationErr.Error(),
				RequestID: requestID(c),
				Timestamp: time.Now(),
			})
		}

		resp, err := svc.SaveDraft(c.Request().Context(), sessionID, req.Text)
		if err != nil {
			logging.GetGlobalLogger().Error("Failed to save job description draft", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "draft_save_failed",
				Message:   "Failed to save job description draft",
				RequestID: requestID(c),
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, resp)
	}
}

// GetDraftHandler handles GET /api/v1/jd/:session_id
func GetDraftHandler(svc *jd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID := c.Param("session_id")

		resp, err := svc.GetDraft(c.Request().Context(), sessionID)
		if err != nil {
			if errors.Is(err, jd.ErrDraftNotFound) {
				return c.JSON(http.StatusNotFound, models.ErrorResponse{
					Error:     "draft_not_found",
					Message:   "No job description draft for this session",
					RequestID: requestID(c),
					Timestamp: time.Now(),
				})
			}
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "draft_load_failed",
				Message:   "Failed to load job description draft",
				RequestID: requestID(c),
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, resp)
	}
}

// FetchJDHandler handles POST /api/v1/jd/fetch
func FetchJDHandler(svc *jd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.FetchJDRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID(c),
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			validationErr := utils.NewValidationError(err.Error())
			return c.JSON(validationErr.Code, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   validationErr.Error(),
				RequestID: requestID(c),
				Timestamp: time.Now(),
			})
		}

		resp, err := svc.FetchFromURL(c.Request().Context(), req.URL)
		if err != nil {
			logging.GetGlobalLogger().Warn("Job description fetch failed", map[string]interface{}{
				"url":   req.URL,
				"error": err.Error(),
			})
			return c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error:     "fetch_failed",
				Message:   err.Error(),
				RequestID: requestID(c),
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, resp)
	}
}

// SampleJDHandler handles GET /api/v1/jd/sample
func SampleJDHandler(svc *jd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		text := svc.Sample()
		return c.JSON(http.StatusOK, models.FetchJDResponse{
			Text:   text,
			Length: utf8.RuneCountInString(text),
			Ready:  svc.Ready(text),
		})
	}
}
