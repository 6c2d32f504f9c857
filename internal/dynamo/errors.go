package dynamo

import "errors"

// Domain errors for integration runs.
var (
	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates mismatched position/velocity dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between position and velocity")

	// ErrStepSize indicates a zero or non-finite step size.
	ErrStepSize = errors.New("dynamo: step size must be finite and non-zero")

	// ErrEmptySpan indicates a degenerate integration span.
	ErrEmptySpan = errors.New("dynamo: integration span is empty")

	// ErrContextCanceled indicates the integration was interrupted.
	ErrContextCanceled = errors.New("dynamo: integration canceled by context")
)

// IntegrationError wraps an error with the step at which it occurred.
type IntegrationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return e.Wrapped.Error()
}

func (e *IntegrationError) Unwrap() error {
	return e.Wrapped
}
