package algebra_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"cablesim/internal/algebra"
)

// TestNormalizeColumns verifies each column comes back with unit norm while
// directions are preserved.
func TestNormalizeColumns(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		3, 0,
		4, 2,
		0, 0,
	})

	out := algebra.NormalizeColumns(m)

	assert.InDelta(t, 0.6, out.At(0, 0), 1e-15)
	assert.InDelta(t, 0.8, out.At(1, 0), 1e-15)
	assert.InDelta(t, 0.0, out.At(2, 0), 1e-15)
	assert.InDelta(t, 1.0, out.At(1, 1), 1e-15)

	for j := 0; j < 2; j++ {
		norm := math.Hypot(math.Hypot(out.At(0, j), out.At(1, j)), out.At(2, j))
		assert.InDelta(t, 1.0, norm, 1e-15, "column %d norm", j)
	}
}

// TestNormalizeColumnsZeroColumn checks the documented IEEE-754 policy: a
// zero column produces NaN, not a panic or an error.
func TestNormalizeColumnsZeroColumn(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 0,
		0, 0,
	})

	var out *mat.Dense
	require.NotPanics(t, func() { out = algebra.NormalizeColumns(m) })

	assert.Equal(t, 1.0, out.At(0, 0))
	for i := 0; i < 3; i++ {
		assert.True(t, math.IsNaN(out.At(i, 1)), "entry (%d,1) should be NaN", i)
	}
}

// TestSkewCross verifies Skew(a)·b equals the cross product a × b.
func TestSkewCross(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{-4, 0, 5}

	var got mat.VecDense
	got.MulVec(algebra.Skew(a), mat.NewVecDense(3, b))

	want := algebra.Cross(a, b)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got.AtVec(i), 1e-15)
	}
}

// TestSkewAntisymmetric verifies S = -Sᵀ.
func TestSkewAntisymmetric(t *testing.T) {
	s := algebra.Skew([]float64{0.3, -1.2, 2.5})
	var neg mat.Dense
	neg.Scale(-1, s.T())
	assert.True(t, mat.Equal(s, &neg))
}
