package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"cablesim/internal/dynamo"
	"cablesim/internal/integrators"
)

type testOscillator struct{ omega2 float64 }

func (o testOscillator) Force(t float64, x, v dynamo.State) dynamo.State {
	f := make(dynamo.State, len(x))
	for i := range x {
		f[i] = -o.omega2 * x[i]
	}
	return f
}

func (o testOscillator) Mass() *dynamo.Mass { return nil }
func (o testOscillator) Dim() int           { return 1 }

func (o testOscillator) Energy(x, v dynamo.State) float64 {
	return 0.5*v[0]*v[0] + 0.5*o.omega2*x[0]*x[0]
}

func TestSimulatorRun(t *testing.T) {
	s := New(testOscillator{omega2: 1}, integrators.NewLeapfrog())

	result, err := s.Run(context.Background(), dynamo.Span{T0: 0, T1: 1}, 0.1, dynamo.State{1}, dynamo.State{0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if len(result.Positions) != 11 || len(result.Velocities) != 11 {
		t.Errorf("expected 11 samples, got %d/%d", len(result.Positions), len(result.Velocities))
	}

	final := result.Positions[len(result.Positions)-1][0]
	if math.Abs(final-math.Cos(1)) > 1e-3 {
		t.Errorf("expected final position ~%.4f, got %.4f", math.Cos(1), final)
	}
}

func TestRunTimesEqualGrid(t *testing.T) {
	// The returned time vector must equal the independently generated
	// uniform grid within 1000 times machine epsilon.
	cases := []struct {
		t0, t1, h float64
	}{
		{0, 10, 0.01},
		{0, 1, 0.3},
		{-2, 3, 0.25},
		{5, 0, 0.1},
	}

	for _, c := range cases {
		result, err := Leapfrog(context.Background(), testOscillator{omega2: 1}.Force,
			dynamo.Span{T0: c.t0, T1: c.t1}, c.h, dynamo.State{1}, dynamo.State{0}, nil)
		if err != nil {
			t.Fatalf("(%g,%g,%g): %v", c.t0, c.t1, c.h, err)
		}

		grid := dynamo.Grid(c.t0, c.t1, c.h)
		if len(result.Times) != len(grid) {
			t.Fatalf("(%g,%g,%g): %d times, want %d", c.t0, c.t1, c.h, len(result.Times), len(grid))
		}

		tol := 1000 * (math.Nextafter(1, 2) - 1)
		for i := range grid {
			if math.Abs(result.Times[i]-grid[i]) > tol {
				t.Errorf("(%g,%g,%g) node %d: %.17g != %.17g", c.t0, c.t1, c.h, i, result.Times[i], grid[i])
			}
		}
	}
}

func TestRunValidation(t *testing.T) {
	s := New(testOscillator{omega2: 1}, integrators.NewLeapfrog())
	ctx := context.Background()

	tests := []struct {
		name string
		span dynamo.Span
		h    float64
		x0   dynamo.State
		v0   dynamo.State
	}{
		{"zero step", dynamo.Span{T0: 0, T1: 1}, 0, dynamo.State{1}, dynamo.State{0}},
		{"nan step", dynamo.Span{T0: 0, T1: 1}, math.NaN(), dynamo.State{1}, dynamo.State{0}},
		{"empty span", dynamo.Span{T0: 1, T1: 1}, 0.1, dynamo.State{1}, dynamo.State{0}},
		{"dim mismatch", dynamo.Span{T0: 0, T1: 1}, 0.1, dynamo.State{1, 2}, dynamo.State{0}},
		{"nan state", dynamo.Span{T0: 0, T1: 1}, 0.1, dynamo.State{math.NaN()}, dynamo.State{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.Run(ctx, tt.span, tt.h, tt.x0, tt.v0)
			if err == nil {
				t.Error("expected error, got nil")
			}
			if result != nil {
				t.Error("expected no partial result on error")
			}
		})
	}
}

func TestRunDivergingStateTerminal(t *testing.T) {
	blowUp := func(tt float64, x, v dynamo.State) dynamo.State {
		return dynamo.State{math.Inf(1)}
	}

	result, err := Leapfrog(context.Background(), blowUp, dynamo.Span{T0: 0, T1: 1}, 0.1,
		dynamo.State{1}, dynamo.State{0}, nil)
	if err == nil {
		t.Fatal("expected error for diverging state")
	}
	if result != nil {
		t.Error("expected no partial result")
	}

	var ie *dynamo.IntegrationError
	if !errors.As(err, &ie) {
		t.Errorf("expected IntegrationError, got %T", err)
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(testOscillator{omega2: 1}, integrators.NewLeapfrog())
	_, err := s.Run(ctx, dynamo.Span{T0: 0, T1: 10}, 0.001, dynamo.State{1}, dynamo.State{0})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

type countMetric struct {
	count int
}

func (c *countMetric) Name() string                          { return "count" }
func (c *countMetric) Observe(t float64, x, v dynamo.State) { c.count++ }
func (c *countMetric) Value() float64                        { return float64(c.count) }
func (c *countMetric) Reset()                                { c.count = 0 }

func TestSimulatorMetrics(t *testing.T) {
	s := New(testOscillator{omega2: 1}, integrators.NewLeapfrog())
	m := &countMetric{}
	s.AddMetric(m)

	result, err := s.Run(context.Background(), dynamo.Span{T0: 0, T1: 1}, 0.1, dynamo.State{1}, dynamo.State{0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["count"]; !ok {
		t.Error("metric not found in result")
	}
	if m.count != 11 {
		t.Errorf("expected 11 observations, got %d", m.count)
	}
}

func TestLeapfrogMassModes(t *testing.T) {
	// The same oscillator expressed through each mass variant must produce
	// the same trajectory: ẍ = -x as force -m·x with mass m.
	const m = 3.0
	force := func(tt float64, x, v dynamo.State) dynamo.State {
		return dynamo.State{-m * x[0]}
	}
	span := dynamo.Span{T0: 0, T1: 1}
	x0, v0 := dynamo.State{1}, dynamo.State{0}

	masses := map[string]*dynamo.Mass{
		"scalar": dynamo.ScalarMass(m),
		"matrix": dynamo.ConstantMass(mat.NewDense(1, 1, []float64{m})),
		"time":   dynamo.TimeMass(func(float64) mat.Matrix { return mat.NewDense(1, 1, []float64{m}) }),
		"state": dynamo.StateMass(func(float64, dynamo.State, dynamo.State) mat.Matrix {
			return mat.NewDense(1, 1, []float64{m})
		}),
	}

	ref, err := Leapfrog(context.Background(), force, span, 0.01, x0, v0, dynamo.ScalarMass(m))
	if err != nil {
		t.Fatalf("reference run failed: %v", err)
	}

	for name, mass := range masses {
		got, err := Leapfrog(context.Background(), force, span, 0.01, x0, v0, mass)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		for i := range ref.Positions {
			if math.Abs(got.Positions[i][0]-ref.Positions[i][0]) > 1e-12 {
				t.Errorf("%s: node %d diverges: %g vs %g", name, i, got.Positions[i][0], ref.Positions[i][0])
				break
			}
		}
	}
}

func TestLeapfrogNilMassIsAcceleration(t *testing.T) {
	// With no mass given the callback output is used as the acceleration.
	accel := func(tt float64, x, v dynamo.State) dynamo.State {
		return dynamo.State{-x[0]}
	}

	result, err := Leapfrog(context.Background(), accel, dynamo.Span{T0: 0, T1: 2}, 0.001,
		dynamo.State{1}, dynamo.State{0}, nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	final := result.Positions[len(result.Positions)-1][0]
	if math.Abs(final-math.Cos(2)) > 1e-4 {
		t.Errorf("expected %.6f, got %.6f", math.Cos(2), final)
	}
}
