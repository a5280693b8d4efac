package errors

import (
	"fmt"
	"net/http"
)

// APIError represents a custom error type for API responses
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

// Error returns the error message
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code, message string, status int, details ...string) *APIError {
	err := &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

var (
	ErrInvalidInput = NewAPIError("INVALID_INPUT", "Invalid request data", http.StatusBadRequest)
	ErrNotFound     = NewAPIError("NOT_FOUND", "Resource not found", http.StatusNotFound)
	ErrDatabase     = NewAPIError("DATABASE_ERROR", "Database operation failed", http.StatusInternalServerError)
	ErrInternal     = NewAPIError("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)
)

// NewValidationError reports a request body that parsed but failed a field
// constraint. Kept distinct from ErrInvalidInput so callers can tell a
// malformed request from an out-of-range value.
func NewValidationError(detail string) *APIError {
	return NewAPIError("VALIDATION_ERROR", "Request validation failed", http.StatusUnprocessableEntity, detail)
}

// NewNotFoundError carries the missing resource's identity in the details.
func NewNotFoundError(detail string) *APIError {
	return NewAPIError("NOT_FOUND", "Resource not found", http.StatusNotFound, detail)
}

func Wrap(err error, code, message string, status int) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return NewAPIError(code, message, status, err.Error())
}
