package experiment

import (
	"context"
	"errors"
	"testing"
)

func TestRegistryResolvesKnownNames(t *testing.T) {
	r := NewRegistry()

	for _, name := range r.ListSystems() {
		if _, err := r.System(name); err != nil {
			t.Errorf("System(%q): %v", name, err)
		}
	}
	for _, name := range r.ListIntegrators() {
		if _, err := r.Integrator(name); err != nil {
			t.Errorf("Integrator(%q): %v", name, err)
		}
	}
	for _, name := range r.ListLinearSystems() {
		if _, _, err := r.LinearSystem(name); err != nil {
			t.Errorf("LinearSystem(%q): %v", name, err)
		}
	}
}

func TestRegistryUnknownNames(t *testing.T) {
	r := NewRegistry()

	if _, err := r.System("warp-drive"); !errors.Is(err, ErrSystemNotFound) {
		t.Errorf("System: got %v, want ErrSystemNotFound", err)
	}
	if _, _, err := r.LinearSystem("warp-drive"); !errors.Is(err, ErrSystemNotFound) {
		t.Errorf("LinearSystem: got %v, want ErrSystemNotFound", err)
	}
	if _, err := r.Integrator("magic"); !errors.Is(err, ErrIntegratorNotFound) {
		t.Errorf("Integrator: got %v, want ErrIntegratorNotFound", err)
	}
}

func TestExperimentRun(t *testing.T) {
	r := NewRegistry()
	cfg := Config{
		System:       "oscillator",
		Integrator:   "leapfrog",
		InitPosition: []float64{1},
		InitVelocity: []float64{0},
		Dt:           0.01,
		Duration:     1,
	}

	sys, err := r.System(cfg.System)
	if err != nil {
		t.Fatal(err)
	}
	stepper, err := r.Integrator(cfg.Integrator)
	if err != nil {
		t.Fatal(err)
	}

	e := New(cfg)
	if err := e.Setup(sys, stepper, r.DefaultMetrics(sys)); err != nil {
		t.Fatal(err)
	}

	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.StepsTaken != 100 {
		t.Errorf("StepsTaken = %d, want 100", result.StepsTaken)
	}
	if _, ok := result.Metrics["energy"]; !ok {
		t.Error("expected energy metric for Hamiltonian system")
	}
	if _, ok := result.Metrics["stability"]; !ok {
		t.Error("expected stability metric")
	}
}

func TestExperimentRunBeforeSetup(t *testing.T) {
	e := New(Config{})
	if _, err := e.Run(context.Background()); err == nil {
		t.Error("expected error when running before Setup")
	}
}

func TestSolveLinear(t *testing.T) {
	r := NewRegistry()

	y0 := make([]float64, 12)
	y0[0] = 0.05

	ts, y, err := SolveLinear(r, Config{System: "platform", InitPosition: y0, Duration: 2, Nodes: 31})
	if err != nil {
		t.Fatalf("SolveLinear: %v", err)
	}
	if len(ts) != 31 {
		t.Errorf("got %d times, want 31", len(ts))
	}
	rows, cols := y.Dims()
	if rows != 31 || cols != 12 {
		t.Errorf("solution is %dx%d, want 31x12", rows, cols)
	}

	if _, _, err := SolveLinear(r, Config{System: "platform", InitPosition: []float64{1}, Duration: 2}); err == nil {
		t.Error("expected dimension error for short initial state")
	}
}
