package spectral

import "errors"

// Failure modes of Solve. All are deterministic pre-flight validations: the
// global collocation system is never partially assembled on bad input.
var (
	// ErrNodes indicates a node count below the minimum of two.
	ErrNodes = errors.New("spectral: node count must be at least 2")

	// ErrSpan indicates a degenerate integration interval (ta == tb).
	ErrSpan = errors.New("spectral: integration span is empty")

	// ErrInitialState indicates an empty initial state vector.
	ErrInitialState = errors.New("spectral: initial state must not be empty")

	// ErrSystemEval indicates the probe evaluation of the system panicked.
	ErrSystemEval = errors.New("spectral: error evaluating system coefficients")

	// ErrSystemShape indicates a system matrix whose dimensions do not match
	// the state dimension inferred from the initial state.
	ErrSystemShape = errors.New("spectral: system matrix shape mismatch")

	// ErrForcingShape indicates a forcing vector whose length does not match
	// the state dimension.
	ErrForcingShape = errors.New("spectral: forcing vector shape mismatch")

	// ErrBatchLength indicates a batch evaluation that returned the wrong
	// number of coefficient sets.
	ErrBatchLength = errors.New("spectral: batch evaluation returned wrong number of nodes")

	// ErrSingularSystem indicates the reduced collocation system could not
	// be solved.
	ErrSingularSystem = errors.New("spectral: collocation system is singular")
)
