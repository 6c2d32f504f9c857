// Package integrators provides fixed-step integrators for second-order
// mechanical systems. Leapfrog is the workhorse; the symplectic Euler and
// RK4 steppers exist for comparison runs.
package integrators

import "cablesim/internal/dynamo"

// Leapfrog is the explicit velocity-Verlet (kick-drift-kick) scheme. It is
// symplectic: for Hamiltonian systems the energy error stays bounded instead
// of drifting secularly.
type Leapfrog struct {
	vHalf dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(accel dynamo.Acceleration, t, h float64, x, v dynamo.State) (dynamo.State, dynamo.State) {
	n := len(x)
	if len(l.vHalf) != n {
		l.vHalf = make(dynamo.State, n)
	}

	a := accel(t, x, v)
	halfH := 0.5 * h

	for i := 0; i < n; i++ {
		l.vHalf[i] = v[i] + a[i]*halfH
	}

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + l.vHalf[i]*h
	}

	// Force and any time- or state-dependent mass are re-evaluated at the
	// advanced position before the velocity update completes.
	aNew := accel(t+h, xNew, l.vHalf)

	vNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		vNew[i] = l.vHalf[i] + aNew[i]*halfH
	}

	return xNew, vNew
}
