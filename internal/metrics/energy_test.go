package metrics

import (
	"math"
	"testing"

	"cablesim/internal/dynamo"
)

type springEnergy struct{ k float64 }

func (s springEnergy) Energy(x, v dynamo.State) float64 {
	return 0.5*v[0]*v[0] + 0.5*s.k*x[0]*x[0]
}

func TestEnergyMean(t *testing.T) {
	m := NewEnergy(springEnergy{k: 4})

	m.Observe(0, dynamo.State{1}, dynamo.State{0}) // E = 2
	m.Observe(1, dynamo.State{0}, dynamo.State{2}) // E = 2

	if math.Abs(m.Value()-2.0) > 1e-12 {
		t.Errorf("expected mean energy 2, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(springEnergy{k: 1})

	m.Observe(0, dynamo.State{1}, dynamo.State{0})   // E = 0.5, reference
	m.Observe(1, dynamo.State{1}, dynamo.State{0.1}) // E = 0.505

	want := 0.005 / 0.5
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected drift %f, got %f", want, m.Value())
	}

	// Drift is a running maximum: a return to the reference energy must not
	// lower it.
	m.Observe(2, dynamo.State{1}, dynamo.State{0})
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("drift must not decrease, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(2.0)

	m.Observe(0, dynamo.State{1}, nil)
	m.Observe(1, dynamo.State{3}, nil)
	m.Observe(2, dynamo.State{-1}, nil)
	m.Observe(3, dynamo.State{0}, nil)

	if math.Abs(m.Value()-0.75) > 1e-12 {
		t.Errorf("expected 0.75, got %f", m.Value())
	}
}

func TestStabilityRatesAndNaN(t *testing.T) {
	m := NewStability(2.0)

	// Rates get an order of magnitude of slack over positions.
	m.Observe(0, dynamo.State{1}, dynamo.State{15})
	m.Observe(1, dynamo.State{1}, dynamo.State{25})
	// A NaN anywhere in the state is always a violation.
	m.Observe(2, dynamo.State{math.NaN()}, dynamo.State{0})
	m.Observe(3, dynamo.State{0}, dynamo.State{math.NaN()})

	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("expected 0.25, got %f", m.Value())
	}
}
