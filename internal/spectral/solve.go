package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"cablesim/internal/dynamo"
)

// DefaultNodes is the collocation node count used when none is given.
const DefaultNodes = 25

// Options configures the collocation grid. A fresh value is constructed per
// call; there is no shared defaults cache.
type Options struct {
	// Nodes is the number of Chebyshev-Lobatto collocation nodes.
	Nodes int
}

func DefaultOptions() Options {
	return Options{Nodes: DefaultNodes}
}

// Solve integrates ẏ = A(t)y + b(t) over span with y(span.T0) = y0.
//
// The returned times are always sorted ascending regardless of integration
// direction; y holds one row per node and one column per state. The node
// count (and thereby the accuracy) is set through opts.
func Solve(sys System, span dynamo.Span, y0 []float64, opts Options) ([]float64, *mat.Dense, error) {
	if opts.Nodes < 2 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrNodes, opts.Nodes)
	}
	if span.T0 == span.T1 {
		return nil, nil, ErrSpan
	}
	ny := len(y0)
	if ny == 0 {
		return nil, nil, ErrInitialState
	}

	n := opts.Nodes
	ts, d := Lobatto(n, span.T0, span.T1)

	// Fail fast on a bad callback before any global assembly.
	a0, b0, err := probe(sys, ts[0], ny)
	if err != nil {
		return nil, nil, err
	}
	as, bs, err := evaluate(sys, ts, ny, a0, b0)
	if err != nil {
		return nil, nil, err
	}

	// Global collocation operator G = kron(D, I) - blockdiag(A_i), with one
	// ny-block of rows per node, and the stacked forcing vector.
	ns := n * ny
	eye := mat.NewDiagDense(ny, ones(ny))

	var g mat.Dense
	g.Kronecker(d, eye)

	f := mat.NewVecDense(ns, nil)
	for i := 0; i < n; i++ {
		off := i * ny
		for r := 0; r < ny; r++ {
			for c := 0; c < ny; c++ {
				g.Set(off+r, off+c, g.At(off+r, off+c)-as[i].At(r, c))
			}
			f.SetVec(off+r, bs[i].AtVec(r))
		}
	}

	// The initial condition lives at the last node in natural ordering
	// (t[n-1] == span.T0 for either direction). Splitting off that block is
	// the permutation that moves the known dofs out of the unknown system.
	m := ns - ny
	guu := g.Slice(0, m, 0, m)
	guk := g.Slice(0, m, m, ns)

	y0v := mat.NewVecDense(ny, y0)
	var coupling mat.VecDense
	coupling.MulVec(guk, y0v)

	rhs := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		rhs.SetVec(i, f.AtVec(i)-coupling.AtVec(i))
	}

	var yu mat.VecDense
	if err := yu.SolveVec(guu, rhs); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return nil, nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
		}
	}

	// Un-stack: one row per node, one column per state.
	y := mat.NewDense(n, ny, nil)
	for i := 0; i < n-1; i++ {
		for c := 0; c < ny; c++ {
			y.Set(i, c, yu.AtVec(i*ny+c))
		}
	}
	for c := 0; c < ny; c++ {
		y.Set(n-1, c, y0[c])
	}

	// Natural node order is decreasing exactly when the requested interval
	// increases; flip so callers always see ascending times.
	if span.Increasing() {
		reverseRows(ts, y)
	}

	return ts, y, nil
}

func reverseRows(ts []float64, y *mat.Dense) {
	n, ny := y.Dims()
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		ts[i], ts[j] = ts[j], ts[i]
		for c := 0; c < ny; c++ {
			vi, vj := y.At(i, c), y.At(j, c)
			y.Set(i, c, vj)
			y.Set(j, c, vi)
		}
	}
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}
