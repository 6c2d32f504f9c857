package dynamo

import "math"

// Span is an integration interval. Direction is inferred from the sign of
// T1 - T0; decreasing spans integrate backwards in time.
type Span struct {
	T0 float64
	T1 float64
}

func (s Span) Increasing() bool { return s.T1 >= s.T0 }

func (s Span) Width() float64 { return math.Abs(s.T1 - s.T0) }

// Grid returns the uniform time grid over s with step size h. Nodes are
// computed by multiplication from the index, never by repeated addition, so
// the placement is reproducible independent of accumulation order. The sign
// of h is normalized to the span direction; the final node is T1 whenever
// (T1-T0)/h is integral within rounding.
func (s Span) Grid(h float64) []float64 {
	h = math.Abs(h)
	if !s.Increasing() {
		h = -h
	}
	if h == 0 {
		return []float64{s.T0}
	}
	n := int(math.Round((s.T1 - s.T0) / h))
	if n < 0 {
		n = 0
	}
	t := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		t[i] = s.T0 + float64(i)*h
	}
	return t
}

// Grid is shorthand for Span{t0, t1}.Grid(h).
func Grid(t0, t1, h float64) []float64 {
	return Span{T0: t0, T1: t1}.Grid(h)
}
