package models_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"cablesim/internal/algebra"
	"cablesim/internal/models"
)

// testGeometry is a four-cable layout whose directions carry a tangential
// component with alternating sense, so each cable exerts a z-torque and the
// torques cancel only when the tensions balance.
func testGeometry() (*mat.Dense, *mat.Dense, []float64) {
	attachments := mat.NewDense(3, 4, []float64{
		0.2, -0.2, -0.2, 0.2,
		0.2, 0.2, -0.2, -0.2,
		0, 0, 0, 0,
	})
	directions := mat.NewDense(3, 4, []float64{
		0.5, -0.5, -0.5, 0.5,
		1.5, 1.5, -1.5, -1.5,
		2, 2, 2, 2,
	})
	tensions := []float64{50, 40, 55, 45}
	return attachments, directions, tensions
}

func TestOrientationStiffnessFiniteDifference(t *testing.T) {
	att, dir, f := testGeometry()
	q := algebra.Quaternion{0.9, 0.1, -0.2, 0.3}

	st := models.OrientationStiffness(q, att, dir, f)

	const eps = 1e-6
	for k := 0; k < 4; k++ {
		qp, qm := q, q
		qp[k] += eps
		qm[k] -= eps

		tp := models.CableTorque(qp, att, dir, f)
		tm := models.CableTorque(qm, att, dir, f)

		for r := 0; r < 3; r++ {
			fd := (tp[r] - tm[r]) / (2 * eps)
			if math.Abs(st.At(r, k)-fd) > 1e-6*(1+math.Abs(fd)) {
				t.Errorf("entry (%d,%d): analytic %g, finite difference %g", r, k, st.At(r, k), fd)
			}
		}
	}
}

func TestCableTorqueIdentityOrientation(t *testing.T) {
	att, dir, f := testGeometry()

	// With symmetric geometry and equal tensions the torque about z
	// cancels; uneven tensions must break the balance.
	equal := []float64{50, 50, 50, 50}
	tau := models.CableTorque(algebra.Identity, att, dir, equal)
	if math.Abs(tau[2]) > 1e-12 {
		t.Errorf("expected zero z-torque for symmetric tensions, got %g", tau[2])
	}

	tau = models.CableTorque(algebra.Identity, att, dir, f)
	if math.Abs(tau[2]) < 1e-6 {
		t.Errorf("expected non-zero z-torque for uneven tensions, got %g", tau[2])
	}
}
