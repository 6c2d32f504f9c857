package spectral_test

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"cablesim/internal/dynamo"
	"cablesim/internal/spectral"
)

// decaySystem is ẏ = -a·y, the scalar test problem with the closed form
// y(t) = y0·exp(-a·t). It only implements the scalar interface.
type decaySystem struct{ a float64 }

func (s decaySystem) Coefficients(t float64) (mat.Matrix, mat.Vector) {
	return mat.NewDense(1, 1, []float64{-s.a}), mat.NewVecDense(1, nil)
}

// batchDecaySystem adds the bulk-evaluation capability to decaySystem.
type batchDecaySystem struct{ decaySystem }

func (s batchDecaySystem) CoefficientsBatch(ts []float64) ([]mat.Matrix, []mat.Vector) {
	as := make([]mat.Matrix, len(ts))
	bs := make([]mat.Vector, len(ts))
	for i := range ts {
		as[i], bs[i] = s.Coefficients(ts[i])
	}
	return as, bs
}

// TestSolveExponentialDecay compares against the closed form and checks the
// discretization error shrinks as the node count grows, allowing for
// rounding jitter once the error sits at the floating-point floor.
func TestSolveExponentialDecay(t *testing.T) {
	sys := decaySystem{a: 1.5}
	span := dynamo.Span{T0: 0, T1: 2}

	prev := math.Inf(1)
	for _, nodes := range []int{9, 17, 25} {
		ts, y, err := spectral.Solve(sys, span, []float64{1}, spectral.Options{Nodes: nodes})
		require.NoError(t, err)

		worst := 0.0
		for i, ti := range ts {
			if e := math.Abs(y.At(i, 0) - math.Exp(-1.5*ti)); e > worst {
				worst = e
			}
		}
		assert.LessOrEqual(t, worst, prev+1e-12, "error must not grow with more nodes (n=%d)", nodes)
		prev = worst
	}
	assert.Less(t, prev, 1e-10)
}

// TestSolveTimesAscending verifies the returned grid is sorted ascending for
// both integration directions and anchors the initial condition correctly.
func TestSolveTimesAscending(t *testing.T) {
	sys := decaySystem{a: 1}

	ts, y, err := spectral.Solve(sys, dynamo.Span{T0: 0, T1: 1}, []float64{1}, spectral.DefaultOptions())
	require.NoError(t, err)
	require.True(t, sort.Float64sAreSorted(ts))
	assert.InDelta(t, 1.0, y.At(0, 0), 1e-12, "y(0) = y0 for increasing span")

	// Backwards: start at t=2 with the exact value there, recover y(0)=1.
	ts, y, err = spectral.Solve(sys, dynamo.Span{T0: 2, T1: 0}, []float64{math.Exp(-2)}, spectral.DefaultOptions())
	require.NoError(t, err)
	require.True(t, sort.Float64sAreSorted(ts))
	assert.InDelta(t, 0.0, ts[0], 1e-12)
	assert.InDelta(t, 2.0, ts[len(ts)-1], 1e-12)
	assert.InDelta(t, 1.0, y.At(0, 0), 1e-9, "backward integration recovers y(0)")
}

// TestSolveHarmonicOscillator runs the 2-state rotation system against
// cos/sin.
func TestSolveHarmonicOscillator(t *testing.T) {
	sys := spectral.SystemFunc(func(ti float64) (mat.Matrix, mat.Vector) {
		return mat.NewDense(2, 2, []float64{0, 1, -1, 0}), mat.NewVecDense(2, nil)
	})

	ts, y, err := spectral.Solve(sys, dynamo.Span{T0: 0, T1: 2 * math.Pi},
		[]float64{1, 0}, spectral.Options{Nodes: 29})
	require.NoError(t, err)

	for i, ti := range ts {
		assert.InDelta(t, math.Cos(ti), y.At(i, 0), 1e-9, "x at t=%g", ti)
		assert.InDelta(t, -math.Sin(ti), y.At(i, 1), 1e-9, "v at t=%g", ti)
	}
}

// TestSolveForcedSystem checks a pure forcing term: ẏ = cos(t), y(0)=0 has
// the closed form sin(t).
func TestSolveForcedSystem(t *testing.T) {
	sys := spectral.SystemFunc(func(ti float64) (mat.Matrix, mat.Vector) {
		return mat.NewDense(1, 1, []float64{0}), mat.NewVecDense(1, []float64{math.Cos(ti)})
	})

	ts, y, err := spectral.Solve(sys, dynamo.Span{T0: 0, T1: 3}, []float64{0}, spectral.DefaultOptions())
	require.NoError(t, err)

	for i, ti := range ts {
		assert.InDelta(t, math.Sin(ti), y.At(i, 0), 1e-10)
	}
}

// TestSolveBatchMatchesScalar verifies the negotiated batch path and the
// per-node fallback produce the same solution.
func TestSolveBatchMatchesScalar(t *testing.T) {
	scalar := decaySystem{a: 0.7}
	batch := batchDecaySystem{scalar}
	span := dynamo.Span{T0: 0, T1: 1.5}

	t1, y1, err := spectral.Solve(scalar, span, []float64{2}, spectral.DefaultOptions())
	require.NoError(t, err)
	t2, y2, err := spectral.Solve(batch, span, []float64{2}, spectral.DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, t1, t2)
	assert.True(t, mat.EqualApprox(y1, y2, 1e-12))
}

// panicSystem stands in for a callback that cannot be evaluated at all.
type panicSystem struct{}

func (panicSystem) Coefficients(float64) (mat.Matrix, mat.Vector) {
	panic("model blew up")
}

// TestSolveValidation exercises every pre-flight failure mode.
func TestSolveValidation(t *testing.T) {
	good := decaySystem{a: 1}
	span := dynamo.Span{T0: 0, T1: 1}

	_, _, err := spectral.Solve(good, span, []float64{1}, spectral.Options{Nodes: 1})
	assert.ErrorIs(t, err, spectral.ErrNodes)

	_, _, err = spectral.Solve(good, dynamo.Span{T0: 1, T1: 1}, []float64{1}, spectral.DefaultOptions())
	assert.ErrorIs(t, err, spectral.ErrSpan)

	_, _, err = spectral.Solve(good, span, nil, spectral.DefaultOptions())
	assert.ErrorIs(t, err, spectral.ErrInitialState)

	_, _, err = spectral.Solve(panicSystem{}, span, []float64{1}, spectral.DefaultOptions())
	assert.ErrorIs(t, err, spectral.ErrSystemEval)

	// System matrix 2x2 against a scalar initial state.
	bad := spectral.SystemFunc(func(float64) (mat.Matrix, mat.Vector) {
		return mat.NewDense(2, 2, nil), mat.NewVecDense(1, nil)
	})
	_, _, err = spectral.Solve(bad, span, []float64{1}, spectral.DefaultOptions())
	assert.ErrorIs(t, err, spectral.ErrSystemShape)

	// Forcing vector of the wrong length.
	badB := spectral.SystemFunc(func(float64) (mat.Matrix, mat.Vector) {
		return mat.NewDense(1, 1, nil), mat.NewVecDense(3, nil)
	})
	_, _, err = spectral.Solve(badB, span, []float64{1}, spectral.DefaultOptions())
	assert.ErrorIs(t, err, spectral.ErrForcingShape)
}

// shortBatchSystem returns fewer coefficient sets than nodes requested.
type shortBatchSystem struct{ decaySystem }

func (s shortBatchSystem) CoefficientsBatch(ts []float64) ([]mat.Matrix, []mat.Vector) {
	a, b := s.Coefficients(ts[0])
	return []mat.Matrix{a}, []mat.Vector{b}
}

func TestSolveBatchLengthValidation(t *testing.T) {
	_, _, err := spectral.Solve(shortBatchSystem{decaySystem{a: 1}},
		dynamo.Span{T0: 0, T1: 1}, []float64{1}, spectral.DefaultOptions())
	assert.ErrorIs(t, err, spectral.ErrBatchLength)
}
