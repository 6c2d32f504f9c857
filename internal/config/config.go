package config

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt        = 0.01
	DefaultDuration  = 10.0
	DefaultNodes     = 25
	DefaultStiffness = 200.0
	DefaultMass      = 8.0
	DefaultInertia   = 0.5
	DefaultDamping   = 2.0
)

type Config struct {
	System     string          `yaml:"system"`
	Integrator string          `yaml:"integrator"`
	Dt         float64         `yaml:"dt"`
	Duration   float64         `yaml:"duration"`
	Nodes      int             `yaml:"nodes"`
	InitState  InitStateConfig `yaml:"init_state"`
	Geometry   GeometryConfig  `yaml:"geometry"`
}

type InitStateConfig struct {
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	Z  float64 `yaml:"z"`
	VX float64 `yaml:"vx"`
	VY float64 `yaml:"vy"`
	VZ float64 `yaml:"vz"`
	// State overrides the scalar fields for systems whose state vector
	// does not fit them, eg. the 12-state linearized platform.
	State []float64 `yaml:"state"`
}

// GeometryConfig describes the cable layout: attachments and directions are
// 3×M matrices given row by row.
type GeometryConfig struct {
	Attachments [][]float64 `yaml:"attachments"`
	Directions  [][]float64 `yaml:"directions"`
	Stiffness   float64     `yaml:"stiffness"`
	Mass        float64     `yaml:"mass"`
	Inertia     float64     `yaml:"inertia"`
	Damping     float64     `yaml:"damping"`
}

func DefaultConfig() *Config {
	return &Config{
		System:     "cdpr",
		Integrator: "leapfrog",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Nodes:      DefaultNodes,
		InitState:  InitStateConfig{Z: 0.5},
		Geometry:   DefaultGeometry(),
	}
}

func DefaultGeometry() GeometryConfig {
	return GeometryConfig{
		Attachments: [][]float64{
			{0.2, -0.2, -0.2, 0.2},
			{0.2, 0.2, -0.2, -0.2},
			{0, 0, 0, 0},
		},
		Directions: [][]float64{
			{1, -1, -1, 1},
			{1, 1, -1, -1},
			{2, 2, 2, 2},
		},
		Stiffness: DefaultStiffness,
		Mass:      DefaultMass,
		Inertia:   DefaultInertia,
		Damping:   DefaultDamping,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetInitState maps the configured initial conditions onto the state layout
// of the configured system.
func (c *Config) GetInitState() (position, velocity []float64) {
	if len(c.InitState.State) > 0 {
		return c.InitState.State, nil
	}
	switch c.System {
	case "cdpr":
		return []float64{c.InitState.X, c.InitState.Y, c.InitState.Z},
			[]float64{c.InitState.VX, c.InitState.VY, c.InitState.VZ}
	case "platform":
		s := make([]float64, 12)
		s[0], s[1], s[2] = c.InitState.X, c.InitState.Y, c.InitState.Z
		s[6], s[7], s[8] = c.InitState.VX, c.InitState.VY, c.InitState.VZ
		return s, nil
	default:
		return []float64{c.InitState.X}, []float64{c.InitState.VX}
	}
}

// Matrices converts the row-wise geometry lists to dense 3×M matrices.
func (g GeometryConfig) Matrices() (attachments, directions *mat.Dense, err error) {
	attachments, err = rowsToDense(g.Attachments, "attachments")
	if err != nil {
		return nil, nil, err
	}
	directions, err = rowsToDense(g.Directions, "directions")
	if err != nil {
		return nil, nil, err
	}
	ar, ac := attachments.Dims()
	dr, dc := directions.Dims()
	if ar != dr || ac != dc {
		return nil, nil, fmt.Errorf("geometry: attachments are %dx%d but directions are %dx%d", ar, ac, dr, dc)
	}
	return attachments, directions, nil
}

func rowsToDense(rows [][]float64, name string) (*mat.Dense, error) {
	if len(rows) != 3 {
		return nil, fmt.Errorf("geometry: %s needs 3 rows, got %d", name, len(rows))
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, fmt.Errorf("geometry: %s has empty rows", name)
	}
	out := mat.NewDense(3, cols, nil)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("geometry: %s row %d has %d values, want %d", name, i, len(row), cols)
		}
		out.SetRow(i, row)
	}
	return out, nil
}
