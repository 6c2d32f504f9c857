package algebra

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NormalizeColumns returns a copy of m with every column divided by its own
// Euclidean norm. Division by a zero norm is left to IEEE-754 rules: a zero
// column comes back as NaN, not as an error.
func NormalizeColumns(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		norm := 0.0
		for i := 0; i < r; i++ {
			v := m.At(i, j)
			norm += v * v
		}
		norm = math.Sqrt(norm)
		for i := 0; i < r; i++ {
			out.Set(i, j, m.At(i, j)/norm)
		}
	}
	return out
}

// Skew returns the 3×3 skew-symmetric matrix of a 3-vector, so that
// Skew(a)·b = a × b.
func Skew(v []float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, -v[2], v[1],
		v[2], 0, -v[0],
		-v[1], v[0], 0,
	})
}

// Cross returns the cross product a × b of two 3-vectors.
func Cross(a, b []float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
