package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// System supplies the coefficients of a linear ODE ẏ = A(t)y + b(t) at a
// single time. A must be ny×ny and b a column vector of length ny, with ny
// the dimension of the initial state passed to Solve.
type System interface {
	Coefficients(t float64) (a mat.Matrix, b mat.Vector)
}

// BatchSystem is an optional capability for systems that can evaluate their
// coefficients at many nodes in one call. Solve upgrades to it via type
// assertion; systems that do not implement it are evaluated node by node.
type BatchSystem interface {
	System
	CoefficientsBatch(ts []float64) (a []mat.Matrix, b []mat.Vector)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(t float64) (mat.Matrix, mat.Vector)

func (f SystemFunc) Coefficients(t float64) (mat.Matrix, mat.Vector) { return f(t) }

// probe evaluates sys once at t inside a recovery boundary and validates the
// returned shapes against the state dimension ny. It runs before any global
// assembly so bad callbacks fail fast.
func probe(sys System, t float64, ny int) (a mat.Matrix, b mat.Vector, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, b = nil, nil
			err = fmt.Errorf("%w: %v", ErrSystemEval, r)
		}
	}()

	a, b = sys.Coefficients(t)
	if err = checkShapes(a, b, ny); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func checkShapes(a mat.Matrix, b mat.Vector, ny int) error {
	if a == nil {
		return fmt.Errorf("%w: system matrix is nil", ErrSystemShape)
	}
	if r, c := a.Dims(); r != ny || c != ny {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSystemShape, r, c, ny, ny)
	}
	if b == nil {
		return fmt.Errorf("%w: forcing vector is nil", ErrForcingShape)
	}
	if n := b.Len(); n != ny {
		return fmt.Errorf("%w: got length %d, want %d", ErrForcingShape, n, ny)
	}
	return nil
}

// evaluate collects coefficients at every node, negotiating the batch path
// once. a0/b0 are the already-validated probe results for ts[0].
func evaluate(sys System, ts []float64, ny int, a0 mat.Matrix, b0 mat.Vector) ([]mat.Matrix, []mat.Vector, error) {
	if batch, ok := sys.(BatchSystem); ok {
		as, bs := batch.CoefficientsBatch(ts)
		if len(as) != len(ts) || len(bs) != len(ts) {
			return nil, nil, fmt.Errorf("%w: got %d/%d sets for %d nodes",
				ErrBatchLength, len(as), len(bs), len(ts))
		}
		for i := range as {
			if err := checkShapes(as[i], bs[i], ny); err != nil {
				return nil, nil, fmt.Errorf("node %d: %w", i, err)
			}
		}
		return as, bs, nil
	}

	as := make([]mat.Matrix, len(ts))
	bs := make([]mat.Vector, len(ts))
	as[0], bs[0] = a0, b0
	for i := 1; i < len(ts); i++ {
		a, b := sys.Coefficients(ts[i])
		if err := checkShapes(a, b, ny); err != nil {
			return nil, nil, fmt.Errorf("node %d: %w", i, err)
		}
		as[i], bs[i] = a, b
	}
	return as, bs, nil
}
