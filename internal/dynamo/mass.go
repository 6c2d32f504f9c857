package dynamo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Accelerator maps a generalized force evaluated at (t, x, v) to an
// acceleration. It is the resolved form of a Mass specification: the step
// loop calls it without knowing which mass variant is in play.
type Accelerator func(t float64, x, v, f State) State

type massKind int

const (
	massNone massKind = iota
	massScalar
	massMatrix
	massTime
	massState
)

// Mass specifies how forces relate to accelerations. The zero value (or a
// nil *Mass) means the force callback already returns accelerations. The
// variant is resolved once per integration call, not re-dispatched per step.
type Mass struct {
	kind    massKind
	scalar  float64
	matrix  mat.Matrix
	timeFn  func(t float64) mat.Matrix
	stateFn func(t float64, x, v State) mat.Matrix
}

// ScalarMass divides every force component by m.
func ScalarMass(m float64) *Mass {
	return &Mass{kind: massScalar, scalar: m}
}

// ConstantMass solves M·a = f with a fixed matrix. The factorization is
// computed once when the mass is resolved.
func ConstantMass(m mat.Matrix) *Mass {
	return &Mass{kind: massMatrix, matrix: m}
}

// TimeMass re-evaluates the mass matrix from the current time at every force
// evaluation.
func TimeMass(fn func(t float64) mat.Matrix) *Mass {
	return &Mass{kind: massTime, timeFn: fn}
}

// StateMass re-evaluates the mass matrix from the full (t, x, v) state at
// every force evaluation.
func StateMass(fn func(t float64, x, v State) mat.Matrix) *Mass {
	return &Mass{kind: massState, stateFn: fn}
}

// Resolve flattens the mass variant into a single accelerator closure. A nil
// receiver resolves to the identity accelerator. Singular mass matrices
// produce NaN accelerations, which the simulator's state validation catches;
// they are not surfaced as errors mid-trajectory.
func (m *Mass) Resolve() Accelerator {
	if m == nil || m.kind == massNone {
		return func(t float64, x, v, f State) State { return f }
	}
	switch m.kind {
	case massScalar:
		inv := 1.0 / m.scalar
		return func(t float64, x, v, f State) State {
			return f.Scale(inv)
		}
	case massMatrix:
		var lu mat.LU
		lu.Factorize(m.matrix)
		return func(t float64, x, v, f State) State {
			return luDivide(&lu, f)
		}
	case massTime:
		return func(t float64, x, v, f State) State {
			return matDivide(m.timeFn(t), f)
		}
	default:
		return func(t float64, x, v, f State) State {
			return matDivide(m.stateFn(t, x, v), f)
		}
	}
}

func luDivide(lu *mat.LU, f State) State {
	var dst mat.VecDense
	err := lu.SolveVecTo(&dst, false, mat.NewVecDense(len(f), f))
	return divided(&dst, err, len(f))
}

func matDivide(m mat.Matrix, f State) State {
	var dst mat.VecDense
	err := dst.SolveVec(m, mat.NewVecDense(len(f), f))
	return divided(&dst, err, len(f))
}

// divided keeps solutions that carry only a finite conditioning warning and
// maps hard solve failures to NaN. An infinite condition number means the
// matrix is exactly singular and the destination was never written.
func divided(dst *mat.VecDense, err error, n int) State {
	if err != nil {
		cond, ok := err.(mat.Condition)
		if !ok || math.IsInf(float64(cond), 0) {
			return nanState(n)
		}
	}
	a := make(State, n)
	copy(a, dst.RawVector().Data)
	return a
}

func nanState(n int) State {
	s := make(State, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
