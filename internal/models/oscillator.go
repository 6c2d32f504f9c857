package models

import "cablesim/internal/dynamo"

// HarmonicOscillator is the reference payload ẍ = -ω₀²x used for accuracy
// and energy-conservation checks.
type HarmonicOscillator struct {
	Omega0 float64
}

func NewHarmonicOscillator() *HarmonicOscillator {
	return &HarmonicOscillator{Omega0: 1.0}
}

func (h *HarmonicOscillator) Dim() int { return 1 }

func (h *HarmonicOscillator) Mass() *dynamo.Mass { return nil }

func (h *HarmonicOscillator) Force(t float64, x, v dynamo.State) dynamo.State {
	f := make(dynamo.State, len(x))
	w2 := h.Omega0 * h.Omega0
	for i := range x {
		f[i] = -w2 * x[i]
	}
	return f
}

func (h *HarmonicOscillator) Energy(x, v dynamo.State) float64 {
	e := 0.0
	w2 := h.Omega0 * h.Omega0
	for i := range x {
		e += 0.5*v[i]*v[i] + 0.5*w2*x[i]*x[i]
	}
	return e
}
