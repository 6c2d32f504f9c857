// Package cable computes the structure matrix of cable-driven parallel
// platforms: the 6×M map from cable tensions to the platform wrench.
package cable

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"cablesim/internal/algebra"
)

var (
	// ErrCableCount indicates mismatched column counts between attachment
	// points and cable direction vectors.
	ErrCableCount = errors.New("cable: attachment and direction column counts differ")

	// ErrGeometryShape indicates attachment or direction matrices that are
	// not 3×M.
	ErrGeometryShape = errors.New("cable: geometry matrices must have three rows")

	// ErrRotationShape indicates a rotation matrix that is not 3×3.
	ErrRotationShape = errors.New("cable: rotation must be a 3x3 matrix")
)

// StructureMatrix builds the 6×M structure matrix from 3×M platform-frame
// attachment points and 3×M cable direction vectors. Directions need not be
// unit length; each column is normalized. rot is the platform rotation
// (nil means identity); orthonormality is assumed, not checked.
//
// Column i carries the normalized direction in rows 0-2 and
// (rot·attachment_i) × û_i in rows 3-5.
func StructureMatrix(attachments, directions *mat.Dense, rot mat.Matrix) (*mat.Dense, error) {
	ra, ca := attachments.Dims()
	rd, cd := directions.Dims()
	if ra != 3 || rd != 3 {
		return nil, fmt.Errorf("%w: got %dx%d and %dx%d", ErrGeometryShape, ra, ca, rd, cd)
	}
	if ca != cd {
		return nil, fmt.Errorf("%w: %d attachments, %d directions", ErrCableCount, ca, cd)
	}
	if rot != nil {
		rr, rc := rot.Dims()
		if rr != 3 || rc != 3 {
			return nil, fmt.Errorf("%w: got %dx%d", ErrRotationShape, rr, rc)
		}
	}

	unit := algebra.NormalizeColumns(directions)

	st := mat.NewDense(6, ca, nil)
	for i := 0; i < ca; i++ {
		u := []float64{unit.At(0, i), unit.At(1, i), unit.At(2, i)}

		b := []float64{attachments.At(0, i), attachments.At(1, i), attachments.At(2, i)}
		if rot != nil {
			var rb mat.VecDense
			rb.MulVec(rot, mat.NewVecDense(3, b))
			b = []float64{rb.AtVec(0), rb.AtVec(1), rb.AtVec(2)}
		}

		torque := algebra.Cross(b, u)
		for k := 0; k < 3; k++ {
			st.Set(k, i, u[k])
			st.Set(3+k, i, torque[k])
		}
	}
	return st, nil
}
