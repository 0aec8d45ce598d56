package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConfigurationError(t *testing.T) {
	err := Configuration("graph.uri")
	if err.Code != ErrCodeConfiguration {
		t.Errorf("expected CONFIGURATION_ERROR, got %s", err.Code)
	}
	if err.Retryable {
		t.Error("configuration errors must not be retryable")
	}
	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", err.HTTPStatus)
	}
	if err.Details["setting"] != "graph.uri" {
		t.Errorf("expected setting detail, got %v", err.Details)
	}
}

func TestConnectionFailedWrapsCause(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := ConnectionFailed("graph store", cause)
	if err.Code != ErrCodeConnectionFailed {
		t.Errorf("expected CONNECTION_FAILED, got %s", err.Code)
	}
	if !err.Retryable {
		t.Error("connection failures must be retryable")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
}

func TestOperationFailedDistinctFromConnectionFailed(t *testing.T) {
	connErr := ConnectionFailed("cache store", nil)
	opErr := OperationFailed("cache store", "GET", nil)
	if connErr.Code == opErr.Code {
		t.Error("connection and operation failures must carry distinct codes")
	}
	if opErr.HTTPStatus != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", opErr.HTTPStatus)
	}
}

func TestNotFoundNotRetryable(t *testing.T) {
	err := NotFound("node", "hist-123")
	if err.Retryable {
		t.Error("not-found is a legitimate outcome and must not be retryable")
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["id"] != "hist-123" {
		t.Errorf("expected id detail, got %v", err.Details)
	}
}

func TestToResponseOmitsInternals(t *testing.T) {
	err := GenerationFailed("empty completion", stderrors.New("boom"))
	resp := err.ToResponse()
	if resp.Error.Code != ErrCodeGenerationFailed {
		t.Errorf("unexpected code %s", resp.Error.Code)
	}
	if resp.Error.Message == "" {
		t.Error("expected a message")
	}
	if !resp.Error.Retryable {
		t.Error("generation failures are retryable from the client's view")
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", Timeout("graph query"))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError through wrapping")
	}
	if appErr.Code != ErrCodeTimeout {
		t.Errorf("expected TIMEOUT, got %s", appErr.Code)
	}

	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("plain errors must not convert")
	}
}

func TestIsCode(t *testing.T) {
	err := MissingField("source_id")
	if !IsCode(err, ErrCodeMissingField) {
		t.Error("expected IsCode to match")
	}
	if IsCode(err, ErrCodeInvalidInput) {
		t.Error("expected IsCode to reject other codes")
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(InvalidInput("q", "empty")) {
		t.Error("validation errors are not retryable")
	}
	if !IsRetryable(ExternalServiceError("PubMed", nil)) {
		t.Error("external service errors are retryable")
	}
	// Unknown errors default to retryable so transport failures get retried.
	if !IsRetryable(stderrors.New("unknown")) {
		t.Error("unknown errors default to retryable")
	}
}
