package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"agenticv-server/internal/api/validation"
	"agenticv-server/internal/config"
	"agenticv-server/internal/logging"
	"agenticv-server/internal/storage"
	"agenticv-server/pkg/models"
	"agenticv-server/pkg/utils"
)

// UploadCVHandler handles POST /api/v1/cv: validates the multipart file and
// stores it in the uploads bucket
func UploadCVHandler(cfg *config.Config, store storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestID(c)
		logger := logging.GetGlobalLogger()

		header, err := c.FormFile("cv")
		if err != nil {
			badReq := utils.NewBadRequestError("Multipart field \"cv\" is required")
			return c.JSON(badReq.Code, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   badReq.Message,
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validation.ValidateCVFile(header, cfg.Storage.MaxFileSize, cfg.Storage.AllowedMIMEs); err != nil {
			logger.Warn("CV file rejected", map[string]interface{}{
				"request_id": requestID,
				"filename":   header.Filename,
				"size_bytes": header.Size,
				"error":      err.Error(),
			})

			code := http.StatusBadRequest
			if custom, ok := err.(*utils.CustomError); ok {
				code = custom.Code
			}
			return c.JSON(code, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		src, err := header.Open()
		if err != nil {
			internal := utils.NewInternalServerError("Failed to read uploaded file")
			return c.JSON(internal.Code, models.ErrorResponse{
				Error:     "upload_failed",
				Message:   internal.Message,
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}
		defer src.Close()

		mimeType := header.Header.Get("Content-Type")
		result, err := store.Upload(c.Request().Context(), storage.UploadInput{
			Filename: header.Filename,
			MimeType: mimeType,
			Size:     header.Size,
			Body:     src,
		})
		if err != nil {
			logger.Error("CV upload failed", map[string]interface{}{
				"request_id": requestID,
				"filename":   header.Filename,
				"error":      err.Error(),
			})
			storageErr := utils.NewStorageError(err.Error())
			return c.JSON(storageErr.Code, models.ErrorResponse{
				Error:     "storage_failed",
				Message:   storageErr.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("CV uploaded", map[string]interface{}{
			"request_id":  requestID,
			"object_key":  result.Path,
			"size_bytes":  header.Size,
			"storage_url": result.URL,
		})

		return c.JSON(http.StatusCreated, models.UploadResponse{
			Success: true,
			File: &models.UploadedFile{
				Name:        result.Filename,
				SizeBytes:   header.Size,
				MimeType:    mimeType,
				StorageURL:  result.URL,
				StoragePath: result.Path,
				UploadedAt:  time.Now(),
			},
			RequestID: requestID,
			Timestamp: time.Now(),
		})
	}
}

// ListCVHandler handles GET /api/v1/cv
func ListCVHandler(store storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		files, err := store.List(c.Request().Context(), c.QueryParam("prefix"))
		if err != nil {
			storageErr := utils.NewStorageError(err.Error())
			return c.JSON(storageErr.Code, models.ErrorResponse{
				Error:     "storage_failed",
				Message:   storageErr.Error(),
				RequestID: requestID(c),
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, models.FileListResponse{
			Success: true,
			Files:   files,
			Count:   len(files),
		})
	}
}

// DeleteCVHandler handles DELETE /api/v1/cv/* where the wildcard is the
// storage path
func DeleteCVHandler(store storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Param("*")
		if path == "" {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Storage path is required",
				RequestID: requestID(c),
				Timestamp: time.Now(),
			})
		}

		if err := store.Delete(c.Request().Context(), path); err != nil {
			storageErr := utils.NewStorageError(err.Error())
			return c.JSON(storageErr.Code, models.ErrorResponse{
				Error:     "storage_failed",
				Message:   storageErr.Error(),
				RequestID: requestID(c),
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"path":    path,
		})
	}
}

// requestID reads the ID the validation middleware assigned, generating one
// for routes the middleware does not cover
func requestID(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok && id != "" {
		return id
	}
	return utils.GenerateRequestID()
}
