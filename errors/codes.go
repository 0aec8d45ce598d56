package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors (fail fast, never retried)
const (
	// ErrCodeConfiguration indicates required external-service configuration is absent.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
)

// Connection/Availability errors (retryable)
const (
	// ErrCodeConnectionFailed indicates a service was unreachable after exhausting connection retries.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeOperationFailed indicates a request failed after exhausting operation retries.
	ErrCodeOperationFailed ErrorCode = "OPERATION_FAILED"
	// ErrCodeGenerationFailed indicates the completion API failed or returned unusable content.
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeExternalService indicates an error from an external service.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// Resource errors
const (
	// ErrCodeNotFound indicates a well-formed query legitimately returned zero results.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeOperationFailed:  true,
	ErrCodeGenerationFailed: true,
	ErrCodeTimeout:          true,
	ErrCodeExternalService:  true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
