package experiment

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"cablesim/internal/algebra"
	"cablesim/internal/dynamo"
	"cablesim/internal/integrators"
	"cablesim/internal/metrics"
	"cablesim/internal/models"
	"cablesim/internal/spectral"
)

var (
	ErrSystemNotFound     = errors.New("experiment: system not found")
	ErrIntegratorNotFound = errors.New("experiment: integrator not found")
)

// Registry resolves the names used in configuration files and on the
// command line to concrete systems and integrators.
type Registry struct {
	systems     map[string]func() dynamo.SecondOrderSystem
	linear      map[string]func() (spectral.System, int, error)
	integrators map[string]func() dynamo.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		systems:     make(map[string]func() dynamo.SecondOrderSystem),
		linear:      make(map[string]func() (spectral.System, int, error)),
		integrators: make(map[string]func() dynamo.Stepper),
	}

	r.systems["oscillator"] = func() dynamo.SecondOrderSystem { return models.NewHarmonicOscillator() }
	r.systems["cdpr"] = func() dynamo.SecondOrderSystem { return models.NewPointMassCDPR() }

	r.linear["platform"] = defaultPlatform

	r.integrators["leapfrog"] = func() dynamo.Stepper { return integrators.NewLeapfrog() }
	r.integrators["euler"] = func() dynamo.Stepper { return integrators.NewSymplecticEuler() }
	r.integrators["rk4"] = func() dynamo.Stepper { return integrators.NewRK4() }

	return r
}

func (r *Registry) System(name string) (dynamo.SecondOrderSystem, error) {
	fn, ok := r.systems[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSystemNotFound, name)
	}
	return fn(), nil
}

// LinearSystem resolves a named linear model for the spectral solver and
// reports its state dimension.
func (r *Registry) LinearSystem(name string) (spectral.System, int, error) {
	fn, ok := r.linear[name]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrSystemNotFound, name)
	}
	return fn()
}

func (r *Registry) Integrator(name string) (dynamo.Stepper, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrIntegratorNotFound, name)
	}
	return fn(), nil
}

func (r *Registry) ListSystems() []string {
	names := make([]string, 0, len(r.systems))
	for name := range r.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListLinearSystems() []string {
	names := make([]string, 0, len(r.linear))
	for name := range r.linear {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics picks the metrics every run records. Energy metrics only
// attach when the system exposes its Hamiltonian.
func (r *Registry) DefaultMetrics(sys dynamo.SecondOrderSystem) []dynamo.Metric {
	ms := []dynamo.Metric{metrics.NewStability(10.0)}
	if h, ok := sys.(dynamo.Hamiltonian); ok {
		ms = append(ms, metrics.NewEnergy(h), metrics.NewEnergyDrift(h))
	}
	return ms
}

// defaultPlatform is the stock six-DOF suspension: four cables on the
// corners of a 0.4 m square platform, pulled toward tilted directions.
func defaultPlatform() (spectral.System, int, error) {
	attachments := mat.NewDense(3, 4, []float64{
		0.2, -0.2, -0.2, 0.2,
		0.2, 0.2, -0.2, -0.2,
		0, 0, 0, 0,
	})
	directions := mat.NewDense(3, 4, []float64{
		1, -1, -1, 1,
		1, 1, -1, -1,
		2, 2, 2, 2,
	})
	p, err := models.NewLinearizedPlatform(attachments, directions, algebra.Identity, 200, 8, 0.5, 2)
	if err != nil {
		return nil, 0, err
	}
	return p, p.StateDim(), nil
}
