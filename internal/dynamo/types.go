package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Force is the right-hand side of a second-order system: the net generalized
// force at (t, x, v), before any division by the mass matrix.
type Force func(t float64, x, v State) State

// SecondOrderSystem describes ẍ = M⁻¹ f(t, x, ẋ). Mass may return nil when
// the force already is an acceleration.
type SecondOrderSystem interface {
	Force(t float64, x, v State) State
	Mass() *Mass
	Dim() int
}

// Hamiltonian is implemented by systems with a conserved energy; the
// simulator uses it for drift bookkeeping.
type Hamiltonian interface {
	Energy(x, v State) float64
}

// Acceleration evaluates the full acceleration ẍ at (t, x, v). It is the
// composition of a force callback with a resolved Mass; steppers receive it
// pre-composed so the hot loop never re-dispatches on the mass variant.
type Acceleration func(t float64, x, v State) State

// Stepper advances a second-order system by one step of size h, returning
// the new position and velocity.
type Stepper interface {
	Step(accel Acceleration, t, h float64, x, v State) (State, State)
}

// Compose joins a force callback with a mass specification into a single
// Acceleration. The mass variant is resolved exactly once.
func Compose(f Force, m *Mass) Acceleration {
	div := m.Resolve()
	return func(t float64, x, v State) State {
		return div(t, x, v, f(t, x, v))
	}
}

type Metric interface {
	Name() string
	Observe(t float64, x, v State)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(t float64, x, v State)
}

// Result is a complete trajectory: one (time, position, velocity) triple per
// grid node, initial condition included. Immutable after return.
type Result struct {
	Times       []float64
	Positions   []State
	Velocities  []State
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
}

// At returns the sample at node i.
func (r *Result) At(i int) (float64, State, State) {
	return r.Times[i], r.Positions[i], r.Velocities[i]
}
