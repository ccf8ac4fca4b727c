package sdk

import (
	"errors"
	"fmt"
)

// Sentinel errors for scoring transport failures.
var (
	// ErrNetwork is returned when a scoring service cannot be reached or answers with a non-2xx status.
	ErrNetwork = errors.New("scoring service unreachable")

	// ErrMalformedResponse is returned when a scoring service answers with an unexpected shape.
	ErrMalformedResponse = errors.New("malformed scoring response")

	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrTimeout is returned when a scoring operation times out.
	ErrTimeout = errors.New("operation timed out")

	// ErrUnsupportedFormat is returned for an unknown export format.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrInvalidRequest is returned when a request is rejected before scoring.
	ErrInvalidRequest = errors.New("invalid scoring request")

	// ErrEngineNotFound is returned when no scorer is registered under a name.
	ErrEngineNotFound = errors.New("scoring engine not found")
)

// EngineError wraps an error with scorer context.
type EngineError struct {
	// EngineID identifies the scorer that produced the error.
	EngineID string

	// Operation is the operation that failed.
	Operation string

	// StatusCode is the HTTP status returned by a remote scorer, if any.
	StatusCode int

	// Body is the response body returned with a failed status.
	Body string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	msg := fmt.Sprintf("engine %s", e.EngineID)
	if e.Operation != "" {
		msg += ": " + e.Operation
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError creates a new engine error.
func NewEngineError(engineID, operation string, err error) *EngineError {
	return &EngineError{
		EngineID:  engineID,
		Operation: operation,
		Err:       err,
	}
}

// IsCircuitOpen checks if the error is due to an open circuit breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}

// IsContractError reports whether err came from the scoring boundary rather than local state.
func IsContractError(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTimeout)
}
