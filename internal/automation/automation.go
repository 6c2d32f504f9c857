// Package automation runs scripted sequences of simulations: YAML scenarios
// with several steps, and Monte Carlo batches with perturbed initial states.
package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"cablesim/internal/dynamo"
	"cablesim/internal/experiment"
	"cablesim/internal/storage"
)

// Scenario defines a scripted simulation sequence.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario.
type ScenarioStep struct {
	System       string    `yaml:"system"`
	Integrator   string    `yaml:"integrator"`
	Duration     float64   `yaml:"duration"`
	Dt           float64   `yaml:"dt"`
	InitPosition []float64 `yaml:"init_position"`
	InitVelocity []float64 `yaml:"init_velocity"`
	Save         bool      `yaml:"save"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// RunScenario executes all steps in order. Steps marked save are written to
// the store; a nil store skips saving.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		fmt.Printf("running step %d/%d: %s\n", i+1, len(scenario.Steps), step.System)

		sys, err := registry.System(step.System)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		stepper, err := registry.Integrator(step.Integrator)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		cfg := experiment.Config{
			System:       step.System,
			Integrator:   step.Integrator,
			InitPosition: step.InitPosition,
			InitVelocity: step.InitVelocity,
			Dt:           step.Dt,
			Duration:     step.Duration,
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(sys, stepper, registry.DefaultMetrics(sys)); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		if step.Save && store != nil {
			if _, err := store.Save(step.System, step.Integrator, step.Dt, step.Duration, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}

		results = append(results, result)
	}

	return results, nil
}

// MonteCarloConfig defines a batch of runs with randomly perturbed initial
// positions.
type MonteCarloConfig struct {
	System       string
	Integrator   string
	BasePosition []float64
	BaseVelocity []float64
	Perturbation float64
	NumTrials    int
	Duration     float64
	Dt           float64
	Seed         int64
}

// MonteCarloResult holds the outcome of one trial.
type MonteCarloResult struct {
	TrialID       int
	InitPosition  dynamo.State
	FinalPosition dynamo.State
	EnergyDrift   float64
	Stable        bool
}

// RunMonteCarlo executes NumTrials runs with uniform perturbations on the
// initial position. A diverged run counts as unstable instead of failing
// the whole batch.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	sys, err := registry.System(cfg.System)
	if err != nil {
		return nil, err
	}
	stepper, err := registry.Integrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	for trial := 0; trial < cfg.NumTrials; trial++ {
		initPos := make([]float64, len(cfg.BasePosition))
		for i, v := range cfg.BasePosition {
			initPos[i] = v + (rng.Float64()-0.5)*2*cfg.Perturbation
		}

		expCfg := experiment.Config{
			System:       cfg.System,
			Integrator:   cfg.Integrator,
			InitPosition: initPos,
			InitVelocity: cfg.BaseVelocity,
			Dt:           cfg.Dt,
			Duration:     cfg.Duration,
		}

		exp := experiment.New(expCfg)
		if err := exp.Setup(sys, stepper, registry.DefaultMetrics(sys)); err != nil {
			return nil, err
		}

		trialResult := MonteCarloResult{
			TrialID:      trial,
			InitPosition: dynamo.State(initPos).Clone(),
		}

		result, err := exp.Run(ctx)
		switch {
		case err == nil:
			trialResult.FinalPosition = result.Positions[len(result.Positions)-1]
			trialResult.EnergyDrift = result.EnergyDrift
			trialResult.Stable = true
		case ctx.Err() != nil:
			return results, err
		default:
			trialResult.Stable = false
		}

		results = append(results, trialResult)

		if (trial+1)%10 == 0 {
			fmt.Printf("monte carlo: %d/%d trials complete\n", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
