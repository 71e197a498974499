package analysis

import "fmt"

// ErrorType tags a pipeline failure. Each failure site constructs its typed
// variant directly, so nothing downstream has to re-classify message text.
type ErrorType string

const (
	ErrorTypeCORS             ErrorType = "CORS_ERROR"
	ErrorTypeWebhookNotActive ErrorType = "WEBHOOK_NOT_ACTIVE"
	ErrorTypeServiceError     ErrorType = "N8N_SERVICE_ERROR"
	ErrorTypeInvalidResponse  ErrorType = "INVALID_RESPONSE"
	ErrorTypeEmptyResults     ErrorType = "EMPTY_RESULTS"
	ErrorTypeNetwork          ErrorType = "NETWORK_ERROR"
	ErrorTypeGeneral          ErrorType = "GENERAL_ERROR"
)

// Error is a typed analysis pipeline failure
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newCORSError(format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeCORS, Message: fmt.Sprintf(format, args...)}
}

func newWebhookNotActiveError(message string) *Error {
	return &Error{Type: ErrorTypeWebhookNotActive, Message: message}
}

func newServiceError(code int, message string) *Error {
	return &Error{Type: ErrorTypeServiceError, Code: code, Message: message}
}

func newInvalidResponseError(format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeInvalidResponse, Message: fmt.Sprintf(format, args...)}
}

func newEmptyResultsError() *Error {
	return &Error{
		Type:    ErrorTypeEmptyResults,
		Message: "analysis returned no highlights and a zero match score",
	}
}

func newNetworkError(format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeNetwork, Message: fmt.Sprintf(format, args...)}
}

func newGeneralError(format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeGeneral, Message: fmt.Sprintf(format, args...)}
}

// AsError returns the typed error, wrapping untyped ones as GENERAL_ERROR
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if typed, ok := err.(*Error); ok {
		return typed
	}
	return &Error{Type: ErrorTypeGeneral, Message: err.Error()}
}
