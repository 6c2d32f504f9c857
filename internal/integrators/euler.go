package integrators

import "cablesim/internal/dynamo"

// SymplecticEuler is the semi-implicit Euler scheme: velocity first, then
// position with the updated velocity. First order, but energy-stable.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (e *SymplecticEuler) Step(accel dynamo.Acceleration, t, h float64, x, v dynamo.State) (dynamo.State, dynamo.State) {
	n := len(x)
	a := accel(t, x, v)

	vNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		vNew[i] = v[i] + h*a[i]
	}

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + h*vNew[i]
	}

	return xNew, vNew
}
