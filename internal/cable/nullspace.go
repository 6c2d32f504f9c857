package cable

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NullSpace returns an orthonormal basis of the kernel of a as an
// n×(n−rank) matrix, or nil when a has full column rank. It is a separate
// call so structure-matrix users that do not need the kernel never pay for
// the SVD.
func NullSpace(a mat.Matrix) *mat.Dense {
	m, n := a.Dims()

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFullV) {
		return nil
	}

	sv := svd.Values(nil)
	tol := 0.0
	if len(sv) > 0 {
		tol = float64(max(m, n)) * sv[0] * epsilon
	}

	rank := 0
	for _, s := range sv {
		if s > tol {
			rank++
		}
	}
	if rank == n {
		return nil
	}

	var v mat.Dense
	svd.VTo(&v)

	null := mat.NewDense(n, n-rank, nil)
	for j := rank; j < n; j++ {
		for i := 0; i < n; i++ {
			null.Set(i, j-rank, v.At(i, j))
		}
	}
	return null
}

// Rank returns the numerical rank of a using the same singular-value
// threshold as NullSpace.
func Rank(a mat.Matrix) int {
	m, n := a.Dims()

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDNone) {
		return 0
	}

	sv := svd.Values(nil)
	tol := 0.0
	if len(sv) > 0 {
		tol = float64(max(m, n)) * sv[0] * epsilon
	}

	rank := 0
	for _, s := range sv {
		if s > tol {
			rank++
		}
	}
	return rank
}

var epsilon = math.Nextafter(1, 2) - 1
