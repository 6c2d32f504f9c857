// Package sim drives fixed-step integrations of second-order systems over
// deterministic time grids, with metric and observer hooks.
package sim

import (
	"context"
	"fmt"
	"math"

	"cablesim/internal/dynamo"
	"cablesim/internal/integrators"
)

type Simulator struct {
	sys       dynamo.SecondOrderSystem
	stepper   dynamo.Stepper
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(sys dynamo.SecondOrderSystem, stepper dynamo.Stepper) *Simulator {
	return &Simulator{
		sys:       sys,
		stepper:   stepper,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run integrates over span with step size h from (x0, v0). The returned
// Times slice is exactly the grid span.Grid(h); every error is terminal and
// returns no partial trajectory.
func (s *Simulator) Run(ctx context.Context, span dynamo.Span, h float64, x0, v0 dynamo.State) (*dynamo.Result, error) {
	if err := s.validate(span, h, x0, v0); err != nil {
		return nil, err
	}

	grid := span.Grid(h)
	steps := len(grid) - 1

	hs := math.Abs(h)
	if !span.Increasing() {
		hs = -hs
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	accel := dynamo.Compose(s.sys.Force, s.sys.Mass())

	result := &dynamo.Result{
		Times:      grid,
		Positions:  make([]dynamo.State, 0, steps+1),
		Velocities: make([]dynamo.State, 0, steps+1),
		Metrics:    make(map[string]float64),
	}

	x := x0.Clone()
	v := v0.Clone()
	result.Positions = append(result.Positions, x.Clone())
	result.Velocities = append(result.Velocities, v.Clone())

	initialEnergy := s.energy(x, v)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		t := grid[i]

		for _, m := range s.metrics {
			m.Observe(t, x, v)
		}
		for _, obs := range s.observers {
			obs.OnStep(t, x, v)
		}

		x, v = s.stepper.Step(accel, t, hs, x, v)

		if !x.IsValid() || !v.IsValid() {
			return nil, &dynamo.IntegrationError{
				Step: i, Time: t, Wrapped: dynamo.ErrInvalidState,
			}
		}

		result.StepsTaken++
		result.Positions = append(result.Positions, x.Clone())
		result.Velocities = append(result.Velocities, v.Clone())
	}

	for _, m := range s.metrics {
		m.Observe(grid[steps], x, v)
		result.Metrics[m.Name()] = m.Value()
	}

	finalEnergy := s.energy(x, v)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	return result, nil
}

func (s *Simulator) validate(span dynamo.Span, h float64, x0, v0 dynamo.State) error {
	if h == 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return fmt.Errorf("%w: got %v", dynamo.ErrStepSize, h)
	}
	if span.T0 == span.T1 {
		return dynamo.ErrEmptySpan
	}
	if len(x0) != len(v0) {
		return fmt.Errorf("%w: %d positions, %d velocities", dynamo.ErrDimensionMismatch, len(x0), len(v0))
	}
	if d := s.sys.Dim(); d != 0 && len(x0) != d {
		return fmt.Errorf("%w: system dimension %d, state dimension %d", dynamo.ErrDimensionMismatch, d, len(x0))
	}
	if !x0.IsValid() || !v0.IsValid() {
		return dynamo.ErrInvalidState
	}
	return nil
}

func (s *Simulator) energy(x, v dynamo.State) float64 {
	if ec, ok := s.sys.(dynamo.Hamiltonian); ok {
		return ec.Energy(x, v)
	}
	return 0
}

// forceSystem adapts a bare force callback and mass specification to the
// SecondOrderSystem contract.
type forceSystem struct {
	f    dynamo.Force
	mass *dynamo.Mass
	dim  int
}

func (fs forceSystem) Force(t float64, x, v dynamo.State) dynamo.State { return fs.f(t, x, v) }
func (fs forceSystem) Mass() *dynamo.Mass                              { return fs.mass }
func (fs forceSystem) Dim() int                                        { return fs.dim }

// Leapfrog integrates ẍ = M⁻¹f(t, x, ẋ) over span with fixed step h using
// the leapfrog scheme. mass may be nil when f already returns accelerations.
// The returned Times equal dynamo.Grid(span.T0, span.T1, h) exactly.
func Leapfrog(ctx context.Context, f dynamo.Force, span dynamo.Span, h float64, x0, v0 dynamo.State, mass *dynamo.Mass) (*dynamo.Result, error) {
	sys := forceSystem{f: f, mass: mass, dim: len(x0)}
	return New(sys, integrators.NewLeapfrog()).Run(ctx, span, h, x0, v0)
}
