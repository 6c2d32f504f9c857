package models

import (
	"gonum.org/v1/gonum/mat"

	"cablesim/internal/algebra"
	"cablesim/internal/cable"
)

// LinearizedPlatform is the small-oscillation model of a 6-DOF cable-driven
// platform about a reference pose: ẏ = A·y with y = [δpose; δrate] and the
// cable stiffness K = k·S·Sᵀ built from the structure matrix S at the
// reference orientation. It is the standard payload of the spectral solver.
type LinearizedPlatform struct {
	a *mat.Dense // 12×12 state matrix, fixed at construction
}

// NewLinearizedPlatform linearizes the platform dynamics at the given
// geometry and reference orientation. mass and inertia populate the
// translational and rotational blocks of the (diagonal) mass matrix;
// damping adds -c·I to the rate block.
func NewLinearizedPlatform(attachments, directions *mat.Dense, orientation algebra.Quaternion, stiffness, mass, inertia, damping float64) (*LinearizedPlatform, error) {
	s, err := cable.StructureMatrix(attachments, directions, orientation.RotationMatrix())
	if err != nil {
		return nil, err
	}

	var k mat.Dense
	k.Mul(s, s.T())
	k.Scale(stiffness, &k)

	minv := make([]float64, 6)
	for i := 0; i < 3; i++ {
		minv[i] = 1 / mass
		minv[3+i] = 1 / inertia
	}

	a := mat.NewDense(12, 12, nil)
	for i := 0; i < 6; i++ {
		a.Set(i, 6+i, 1)
		a.Set(6+i, 6+i, -damping*minv[i])
		for j := 0; j < 6; j++ {
			a.Set(6+i, j, -minv[i]*k.At(i, j))
		}
	}

	return &LinearizedPlatform{a: a}, nil
}

func (p *LinearizedPlatform) Coefficients(t float64) (mat.Matrix, mat.Vector) {
	return p.a, mat.NewVecDense(12, nil)
}

// CoefficientsBatch replicates the constant coefficients over all nodes,
// letting the solver skip the per-node loop.
func (p *LinearizedPlatform) CoefficientsBatch(ts []float64) ([]mat.Matrix, []mat.Vector) {
	as := make([]mat.Matrix, len(ts))
	bs := make([]mat.Vector, len(ts))
	for i := range ts {
		as[i] = p.a
		bs[i] = mat.NewVecDense(12, nil)
	}
	return as, bs
}

// StateDim is the dimension of the linearized state vector.
func (p *LinearizedPlatform) StateDim() int { return 12 }
