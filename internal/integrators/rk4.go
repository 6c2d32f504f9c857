package integrators

import "cablesim/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta scheme applied to the
// first-order form of the second-order system. Not symplectic, but useful
// as an accuracy reference in comparison runs.
type RK4 struct {
	xs, vs dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.xs) != n {
		r.xs = make(dynamo.State, n)
		r.vs = make(dynamo.State, n)
	}
}

func (r *RK4) Step(accel dynamo.Acceleration, t, h float64, x, v dynamo.State) (dynamo.State, dynamo.State) {
	n := len(x)
	r.ensureScratch(n)

	// Stage derivatives: ẋ = v, v̇ = a(t, x, v).
	k1x := v
	k1v := accel(t, x, v)

	for i := 0; i < n; i++ {
		r.xs[i] = x[i] + 0.5*h*k1x[i]
		r.vs[i] = v[i] + 0.5*h*k1v[i]
	}
	k2x := r.vs.Clone()
	k2v := accel(t+0.5*h, r.xs, r.vs)

	for i := 0; i < n; i++ {
		r.xs[i] = x[i] + 0.5*h*k2x[i]
		r.vs[i] = v[i] + 0.5*h*k2v[i]
	}
	k3x := r.vs.Clone()
	k3v := accel(t+0.5*h, r.xs, r.vs)

	for i := 0; i < n; i++ {
		r.xs[i] = x[i] + h*k3x[i]
		r.vs[i] = v[i] + h*k3v[i]
	}
	k4x := r.vs.Clone()
	k4v := accel(t+h, r.xs, r.vs)

	xNew := make(dynamo.State, n)
	vNew := make(dynamo.State, n)
	h6 := h / 6.0
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + h6*(k1x[i]+2*k2x[i]+2*k3x[i]+k4x[i])
		vNew[i] = v[i] + h6*(k1v[i]+2*k2v[i]+2*k3v[i]+k4v[i])
	}

	return xNew, vNew
}
