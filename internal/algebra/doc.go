// Package algebra implements the small fixed-size kinematics kernel shared
// by the cable and model packages: column normalization, skew-symmetric
// matrices, quaternion multiplication matrices and rotation-matrix
// Jacobians.
//
// Quaternions use the scalar-first convention [q0 q1 q2 q3]. Unit norm is
// assumed and never enforced; rotation matrices derived from non-unit
// quaternions are scaled accordingly.
package algebra
