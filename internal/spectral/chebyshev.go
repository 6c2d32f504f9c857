package spectral

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Lobatto returns n Chebyshev-Lobatto collocation nodes mapped onto
// [ta, tb] together with the spectral differentiation matrix for that
// interval. Nodes come in their natural order t_j = m + w·cos(jπ/(n-1))
// with m the midpoint and w the half-width: decreasing for ta < tb,
// increasing for ta > tb. Callers wanting ascending output flip afterwards.
func Lobatto(n int, ta, tb float64) ([]float64, *mat.Dense) {
	nn := n - 1
	mid := (ta + tb) / 2
	half := (tb - ta) / 2

	x := make([]float64, n)
	t := make([]float64, n)
	for j := 0; j <= nn; j++ {
		x[j] = math.Cos(float64(j) * math.Pi / float64(nn))
		t[j] = mid + half*x[j]
	}

	c := func(i int) float64 {
		if i == 0 || i == nn {
			return 2
		}
		return 1
	}

	d := mat.NewDense(n, n, nil)
	for i := 0; i <= nn; i++ {
		for j := 0; j <= nn; j++ {
			if i == j {
				continue
			}
			sign := 1.0
			if (i+j)%2 == 1 {
				sign = -1.0
			}
			d.Set(i, j, sign*c(i)/(c(j)*(x[i]-x[j])))
		}
	}

	// Diagonal by the negative-sum trick: rows of a differentiation matrix
	// must annihilate constants. More accurate than the analytic diagonal.
	for i := 0; i <= nn; i++ {
		sum := 0.0
		for j := 0; j <= nn; j++ {
			if j != i {
				sum += d.At(i, j)
			}
		}
		d.Set(i, i, -sum)
	}

	// Chain rule for the affine map from [-1,1] onto the interval.
	d.Scale(1/half, d)

	return t, d
}
