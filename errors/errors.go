// Package errors provides unified error handling for the Chronos backend.
// It implements structured error types with machine-readable codes, HTTP
// status mapping, and retryable detection. Callers can always distinguish
// "could never connect" (CONNECTION_FAILED) from "connected but this request
// failed" (OPERATION_FAILED) and both from a genuine empty result (NOT_FOUND).
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// Configuration creates an AppError for missing required configuration.
// Configuration errors fail fast and must never consume a retry attempt.
func Configuration(setting string) *AppError {
	return &AppError{
		Code: ErrCodeConfiguration, Message: fmt.Sprintf("Required configuration %s is not set.", setting),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"setting": setting},
	}
}

// ConnectionFailed creates an AppError for a service unreachable after
// exhausting connection retries.
func ConnectionFailed(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Unable to connect to %s.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service}, Cause: cause,
	}
}

// OperationFailed creates an AppError for a request that failed after
// exhausting operation retries.
func OperationFailed(service, operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeOperationFailed, Message: fmt.Sprintf("The %s operation %s failed.", service, operation),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"service": service, "operation": operation}, Cause: cause,
	}
}

// GenerationFailed creates an AppError for an exhausted or unusable
// completion API call.
func GenerationFailed(reason string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeGenerationFailed, Message: fmt.Sprintf("Hypothesis generation failed: %s", reason),
		HTTPStatus: http.StatusBadGateway, Retryable: true, Cause: cause,
	}
}

// NotFound creates an AppError for a resource that was not found. This is a
// legitimate empty outcome and must never trigger retries.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// InvalidInput creates an AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// MissingField creates an AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// Timeout creates an AppError for a request that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// Internal creates an AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// ExternalServiceError creates an AppError for an error from an external service.
func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExternalService, Message: fmt.Sprintf("The %s service encountered an error.", service),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"service": service}, Cause: cause,
	}
}
