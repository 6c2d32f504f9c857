package config

var Presets = map[string]map[string]*Config{
	"oscillator": {
		"unit": {
			System: "oscillator", Integrator: "leapfrog", Dt: 0.01, Duration: 20.0,
			InitState: InitStateConfig{X: 1.0},
		},
		"kicked": {
			System: "oscillator", Integrator: "leapfrog", Dt: 0.01, Duration: 20.0,
			InitState: InitStateConfig{X: 0.0, VX: 3.0},
		},
	},
	"cdpr": {
		"drop": {
			System: "cdpr", Integrator: "leapfrog", Dt: 0.001, Duration: 10.0,
			InitState: InitStateConfig{Z: 0.8},
		},
		"swing": {
			System: "cdpr", Integrator: "leapfrog", Dt: 0.001, Duration: 15.0,
			InitState: InitStateConfig{X: 0.4, Z: 0.5},
		},
		"settle": {
			System: "cdpr", Integrator: "rk4", Dt: 0.005, Duration: 30.0,
			InitState: InitStateConfig{Z: 0.5},
		},
	},
	"platform": {
		"lateral": {
			System: "platform", Duration: 8.0, Nodes: 35,
			InitState: InitStateConfig{X: 0.05},
		},
		"tilt": {
			System: "platform", Duration: 8.0, Nodes: 35,
			InitState: InitStateConfig{State: []float64{0, 0, 0, 0.02, 0.02, 0, 0, 0, 0, 0, 0, 0}},
		},
	},
}

func GetPreset(system, preset string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	return names
}
