package utils

import (
	"fmt"
	"net/http"
)

// CustomError represents a custom application error
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Common error constructors
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Detail:  detail,
	}
}

// NewPayloadTooLargeError returns an error for uploads over the size ceiling
func NewPayloadTooLargeError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusRequestEntityTooLarge,
		Message: "File too large",
		Detail:  detail,
	}
}

// NewUnsupportedMediaError returns an error for files outside the MIME allow-list
func NewUnsupportedMediaError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnsupportedMediaType,
		Message: "Unsupported file format",
		Detail:  detail,
	}
}

// NewStorageError returns an error for failed storage backend operations
func NewStorageError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Message: "Storage operation failed",
		Detail:  detail,
	}
}
