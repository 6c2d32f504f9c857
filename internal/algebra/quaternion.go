package algebra

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Quaternion is a rotation quaternion in scalar-first order [q0 q1 q2 q3].
type Quaternion [4]float64

// Identity is the no-rotation quaternion.
var Identity = Quaternion{1, 0, 0, 0}

func (q Quaternion) Norm() float64 {
	return math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
}

// Vector returns the vector part [q1 q2 q3].
func (q Quaternion) Vector() [3]float64 {
	return [3]float64{q[1], q[2], q[3]}
}

// QuatMat returns the 4×4 left-multiplication matrix Q and the conjugate
// (right-multiplication) matrix Qc of q, so that for quaternions p, r
// expressed as 4-vectors: q·p = Q(q)p and p·q = Qc(q)p. Both share the
// scalar top-left entry, -vector first row and +vector first column; they
// differ only in the sign of the skew part of the 3×3 block
// (q0·I + skew(v) versus q0·I − skew(v)).
func QuatMat(q Quaternion) (Q, Qc *mat.Dense) {
	q0, q1, q2, q3 := q[0], q[1], q[2], q[3]
	Q = mat.NewDense(4, 4, []float64{
		q0, -q1, -q2, -q3,
		q1, q0, -q3, q2,
		q2, q3, q0, -q1,
		q3, -q2, q1, q0,
	})
	Qc = mat.NewDense(4, 4, []float64{
		q0, -q1, -q2, -q3,
		q1, q0, q3, -q2,
		q2, -q3, q0, q1,
		q3, q2, -q1, q0,
	})
	return Q, Qc
}

// QuatMatBatch is QuatMat over a batch of quaternions.
func QuatMatBatch(qs []Quaternion) (Q, Qc []*mat.Dense) {
	Q = make([]*mat.Dense, len(qs))
	Qc = make([]*mat.Dense, len(qs))
	for i, q := range qs {
		Q[i], Qc[i] = QuatMat(q)
	}
	return Q, Qc
}

// RotationMatrix returns the 3×3 rotation matrix of q. For non-unit q the
// result is scaled by ‖q‖².
func (q Quaternion) RotationMatrix() *mat.Dense {
	q0, q1, q2, q3 := q[0], q[1], q[2], q[3]
	return mat.NewDense(3, 3, []float64{
		q0*q0 + q1*q1 - q2*q2 - q3*q3, 2 * (q1*q2 - q0*q3), 2 * (q1*q3 + q0*q2),
		2 * (q1*q2 + q0*q3), q0*q0 - q1*q1 + q2*q2 - q3*q3, 2 * (q2*q3 - q0*q1),
		2 * (q1*q3 - q0*q2), 2 * (q2*q3 + q0*q1), q0*q0 - q1*q1 - q2*q2 + q3*q3,
	})
}

// RotationJacobian returns the partial derivatives of the rotation matrix of
// q with respect to each quaternion component: four 3×3 matrices, entries
// linear in q and doubled. Entries the analytic formula cannot support
// (non-finite input components) are clamped to zero per element instead of
// propagating NaN; the all-zero quaternion therefore yields four zero
// matrices.
func RotationJacobian(q Quaternion) [4]*mat.Dense {
	q0, q1, q2, q3 := q[0], q[1], q[2], q[3]

	var jac [4]*mat.Dense
	jac[0] = mat.NewDense(3, 3, scale2(clamped([]float64{
		q0, -q3, q2,
		q3, q0, -q1,
		-q2, q1, q0,
	})))
	jac[1] = mat.NewDense(3, 3, scale2(clamped([]float64{
		q1, q2, q3,
		q2, -q1, -q0,
		q3, q0, -q1,
	})))
	jac[2] = mat.NewDense(3, 3, scale2(clamped([]float64{
		-q2, q1, q0,
		q1, q2, q3,
		-q0, q3, -q2,
	})))
	jac[3] = mat.NewDense(3, 3, scale2(clamped([]float64{
		-q3, -q0, q1,
		q0, -q3, q2,
		q1, q2, q3,
	})))
	return jac
}

// RotationJacobianBatch is RotationJacobian over a batch of quaternions.
func RotationJacobianBatch(qs []Quaternion) [][4]*mat.Dense {
	out := make([][4]*mat.Dense, len(qs))
	for i, q := range qs {
		out[i] = RotationJacobian(q)
	}
	return out
}

func clamped(vals []float64) []float64 {
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			vals[i] = 0
		}
	}
	return vals
}

func scale2(vals []float64) []float64 {
	for i := range vals {
		vals[i] *= 2
	}
	return vals
}
