package models

import (
	"gonum.org/v1/gonum/mat"

	"cablesim/internal/algebra"
)

// CableTorque is the platform torque exerted by tensioned cables at
// orientation q: τ = Σᵢ (R(q)·bᵢ) × ûᵢ·fᵢ, with bᵢ the platform-frame
// attachment points (3×M), ûᵢ the unit cable directions (3×M) and fᵢ the
// cable tensions.
func CableTorque(q algebra.Quaternion, attachments, directions *mat.Dense, tensions []float64) [3]float64 {
	rot := q.RotationMatrix()
	unit := algebra.NormalizeColumns(directions)
	_, m := attachments.Dims()

	var tau [3]float64
	for i := 0; i < m; i++ {
		b := mat.NewVecDense(3, []float64{
			attachments.At(0, i), attachments.At(1, i), attachments.At(2, i),
		})
		var rb mat.VecDense
		rb.MulVec(rot, b)

		u := []float64{unit.At(0, i), unit.At(1, i), unit.At(2, i)}
		cr := algebra.Cross([]float64{rb.AtVec(0), rb.AtVec(1), rb.AtVec(2)}, u)
		for k := 0; k < 3; k++ {
			tau[k] += tensions[i] * cr[k]
		}
	}
	return tau
}

// OrientationStiffness is the sensitivity of the cable torque to the
// orientation quaternion, ∂τ/∂q, as a 3×4 matrix. Column k uses the
// rotation-matrix Jacobian ∂R/∂qₖ in place of R in the torque sum; it is
// the rotational part of the geometric stiffness of a cable platform.
func OrientationStiffness(q algebra.Quaternion, attachments, directions *mat.Dense, tensions []float64) *mat.Dense {
	jac := algebra.RotationJacobian(q)
	unit := algebra.NormalizeColumns(directions)
	_, m := attachments.Dims()

	out := mat.NewDense(3, 4, nil)
	for k := 0; k < 4; k++ {
		for i := 0; i < m; i++ {
			b := mat.NewVecDense(3, []float64{
				attachments.At(0, i), attachments.At(1, i), attachments.At(2, i),
			})
			var jb mat.VecDense
			jb.MulVec(jac[k], b)

			u := []float64{unit.At(0, i), unit.At(1, i), unit.At(2, i)}
			cr := algebra.Cross([]float64{jb.AtVec(0), jb.AtVec(1), jb.AtVec(2)}, u)
			for r := 0; r < 3; r++ {
				out.Set(r, k, out.At(r, k)+tensions[i]*cr[r])
			}
		}
	}
	return out
}
