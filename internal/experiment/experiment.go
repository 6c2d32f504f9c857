// Package experiment resolves named systems and integrators and drives
// complete simulation runs from a configuration.
package experiment

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"cablesim/internal/dynamo"
	"cablesim/internal/sim"
	"cablesim/internal/spectral"
)

type Config struct {
	System       string
	Integrator   string
	InitPosition []float64
	InitVelocity []float64
	Dt           float64
	Duration     float64
	Nodes        int
}

type Experiment struct {
	cfg       Config
	simulator *sim.Simulator
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(sys dynamo.SecondOrderSystem, stepper dynamo.Stepper, ms []dynamo.Metric) error {
	e.simulator = sim.New(sys, stepper)
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	x0 := dynamo.State(e.cfg.InitPosition).Clone()
	v0 := dynamo.State(e.cfg.InitVelocity).Clone()
	span := dynamo.Span{T0: 0, T1: e.cfg.Duration}

	return e.simulator.Run(ctx, span, e.cfg.Dt, x0, v0)
}

// Simulator returns the underlying simulator for adding observers
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

// SolveLinear runs the collocation solver on a named linear system from the
// registry, with the configured node count and initial state.
func SolveLinear(r *Registry, cfg Config) ([]float64, *mat.Dense, error) {
	sys, dim, err := r.LinearSystem(cfg.System)
	if err != nil {
		return nil, nil, err
	}
	if len(cfg.InitPosition) != dim {
		return nil, nil, fmt.Errorf("%w: system %q needs %d states, got %d",
			spectral.ErrInitialState, cfg.System, dim, len(cfg.InitPosition))
	}

	opts := spectral.DefaultOptions()
	if cfg.Nodes > 0 {
		opts.Nodes = cfg.Nodes
	}

	return spectral.Solve(sys, dynamo.Span{T0: 0, T1: cfg.Duration}, cfg.InitPosition, opts)
}
