// Package dynamo provides the core primitives for integrating second-order
// mechanical systems ẍ = M⁻¹ f(t, x, ẋ).
//
//   - [State]: vector of generalized coordinates or velocities
//   - [SecondOrderSystem]: force and mass contract for a mechanical system
//   - [Mass]: constant / time-dependent / state-dependent mass specification,
//     resolved once per run into an [Accelerator] closure
//   - [Span], [Grid]: deterministic uniform time grids
//   - [Stepper]: fixed-step integrator contract
//   - [Result]: immutable trajectory of (t, x, v) samples
//
// # Thread Safety
//
// All values are plain data with value semantics. Force and mass callbacks
// are the only re-entrant boundary; they must be side-effect-free from the
// integrator's perspective.
package dynamo
