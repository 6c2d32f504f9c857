// Package spectral solves first-order linear ordinary differential equations
//
//	ẏ(t) = A(t)·y(t) + b(t),   y(ta) = y0
//
// over an interval by Chebyshev collocation: the solution is sampled on
// Chebyshev-Lobatto nodes and the derivative is replaced by the spectral
// differentiation matrix, turning the ODE into one dense linear system that
// is solved directly. Accuracy improves spectrally with the node count.
//
// The forcing term b is canonically a column vector of length ny
// ([gonum.org/v1/gonum/mat.Vector]); there is no row-orientation fallback.
//
// Systems whose coefficients are cheap to evaluate in bulk can implement
// [BatchSystem]; the solver negotiates that capability once with a type
// assertion and otherwise falls back to a per-node evaluation loop.
package spectral
