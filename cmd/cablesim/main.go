package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"cablesim/internal/algebra"
	"cablesim/internal/analysis"
	"cablesim/internal/automation"
	"cablesim/internal/cable"
	"cablesim/internal/config"
	"cablesim/internal/dynamo"
	"cablesim/internal/experiment"
	"cablesim/internal/models"
	"cablesim/internal/optim"
	"cablesim/internal/storage"
	"cablesim/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	nodes      int
	x, y, z    float64
	vx, vy, vz float64
	integrator string
	configFile string
	preset     string
	component  int
	csvPath    string
	svgPath    string
	trials     int
	seed       int64
	// Orientation quaternion for the structure command.
	qw, qx, qy, qz float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cablesim",
		Short: "cable-driven platform simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cablesim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [system]",
		Short: "run a time-stepping simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addStateFlags(runCmd)
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().StringVar(&integrator, "integrator", "leapfrog", "integrator")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	solveCmd := &cobra.Command{
		Use:   "solve [system]",
		Short: "solve a linear system by Chebyshev collocation",
		Args:  cobra.ExactArgs(1),
		RunE:  solveLinear,
	}
	addStateFlags(solveCmd)
	solveCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	solveCmd.Flags().IntVar(&nodes, "nodes", config.DefaultNodes, "collocation nodes")
	solveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	solveCmd.Flags().StringVar(&csvPath, "csv", "", "write solution CSV to file")

	structureCmd := &cobra.Command{
		Use:   "structure",
		Short: "print the cable structure matrix and its null space",
		RunE:  printStructure,
	}
	structureCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	structureCmd.Flags().Float64Var(&qw, "qw", 1, "orientation quaternion scalar part")
	structureCmd.Flags().Float64Var(&qx, "qx", 0, "orientation quaternion x")
	structureCmd.Flags().Float64Var(&qy, "qy", 0, "orientation quaternion y")
	structureCmd.Flags().Float64Var(&qz, "qz", 0, "orientation quaternion z")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&component, "component", 0, "state component to plot")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the x-z trajectory as SVG")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate the dominant oscillation frequency of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&component, "component", 0, "state component to analyze")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [system]",
		Short: "grid-search the timestep that minimizes energy drift",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneSystem,
	}
	addStateFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	tuneCmd.Flags().StringVar(&integrator, "integrator", "leapfrog", "integrator")

	mcCmd := &cobra.Command{
		Use:   "montecarlo [system]",
		Short: "run perturbed trials and report the stable fraction",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	addStateFlags(mcCmd)
	mcCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	mcCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	mcCmd.Flags().StringVar(&integrator, "integrator", "leapfrog", "integrator")
	mcCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	mcCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRunCSV,
	}
	exportCSVCmd.Flags().StringVar(&csvPath, "out", "", "output file (default <run_id>.csv)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRunJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live [system]",
		Short: "run a simulation with live terminal visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addStateFlags(liveCmd)
	liveCmd.Flags().Float64Var(&dt, "dt", 0.001, "timestep")
	liveCmd.Flags().StringVar(&integrator, "integrator", "leapfrog", "integrator")

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets for a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for system: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	systemsCmd := &cobra.Command{
		Use:   "systems",
		Short: "list available systems and integrators",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := experiment.NewRegistry()
			fmt.Println("systems:")
			for _, name := range registry.ListSystems() {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("linear systems (solve):")
			for _, name := range registry.ListLinearSystems() {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("integrators:")
			for _, name := range registry.ListIntegrators() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, solveCmd, structureCmd, listCmd, plotCmd, analyzeCmd,
		scenarioCmd, tuneCmd, mcCmd, exportCSVCmd, exportJSONCmd, liveCmd, presetsCmd, systemsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addStateFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&x, "x", 0, "initial x")
	cmd.Flags().Float64Var(&y, "y", 0, "initial y")
	cmd.Flags().Float64Var(&z, "z", 0.5, "initial z")
	cmd.Flags().Float64Var(&vx, "vx", 0, "initial x velocity")
	cmd.Flags().Float64Var(&vy, "vy", 0, "initial y velocity")
	cmd.Flags().Float64Var(&vz, "vz", 0, "initial z velocity")
}

// resolveConfig folds preset, config file and flags into one Config. The
// precedence is flags over file over preset over defaults.
func resolveConfig(cmd *cobra.Command, system string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(system, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(system))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	cfg.System = system

	if cmd.Flags().Changed("dt") || cfg.Dt == 0 {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") || cfg.Duration == 0 {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("nodes") || cfg.Nodes == 0 {
		cfg.Nodes = nodes
	}
	if cmd.Flags().Changed("integrator") || cfg.Integrator == "" {
		cfg.Integrator = integrator
	}
	for flag, dst := range map[string]*float64{
		"x": &cfg.InitState.X, "y": &cfg.InitState.Y, "z": &cfg.InitState.Z,
		"vx": &cfg.InitState.VX, "vy": &cfg.InitState.VY, "vz": &cfg.InitState.VZ,
	} {
		if cmd.Flags().Changed(flag) {
			*dst = mustFloat(cmd, flag)
		}
	}
	return cfg, nil
}

func mustFloat(cmd *cobra.Command, name string) float64 {
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}

func runSimulation(cmd *cobra.Command, args []string) error {
	system := args[0]

	cfg, err := resolveConfig(cmd, system)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	sys, err := registry.System(system)
	if err != nil {
		return err
	}
	stepper, err := registry.Integrator(cfg.Integrator)
	if err != nil {
		return err
	}

	pos, vel := cfg.GetInitState()
	expCfg := experiment.Config{
		System:       system,
		Integrator:   cfg.Integrator,
		InitPosition: pos,
		InitVelocity: vel,
		Dt:           cfg.Dt,
		Duration:     cfg.Duration,
	}

	exp := experiment.New(expCfg)
	if err := exp.Setup(sys, stepper, registry.DefaultMetrics(sys)); err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", system)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(system, cfg.Integrator, cfg.Dt, cfg.Duration, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func solveLinear(cmd *cobra.Command, args []string) error {
	system := args[0]

	cfg, err := resolveConfig(cmd, system)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	pos, _ := cfg.GetInitState()

	times, solution, err := experiment.SolveLinear(registry, experiment.Config{
		System:       system,
		InitPosition: pos,
		Duration:     cfg.Duration,
		Nodes:        cfg.Nodes,
	})
	if err != nil {
		return err
	}

	_, cols := solution.Dims()
	plotCols := []int{0}
	if cols > 2 {
		plotCols = []int{0, 1, 2}
	}
	fmt.Println(viz.PlotSolution(times, solution, plotCols))

	if csvPath != "" {
		file, err := os.Create(csvPath)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := storage.ExportSolutionCSV(file, times, solution); err != nil {
			return err
		}
		fmt.Printf("solution written to %s\n", csvPath)
	}
	return nil
}

func printStructure(cmd *cobra.Command, args []string) error {
	geometry := config.DefaultGeometry()
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		geometry = cfg.Geometry
	}

	attachments, directions, err := geometry.Matrices()
	if err != nil {
		return err
	}

	q := algebra.Quaternion{qw, qx, qy, qz}
	s, err := cable.StructureMatrix(attachments, directions, q.RotationMatrix())
	if err != nil {
		return err
	}

	rows, cols := s.Dims()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "structure matrix (wrench rows x cable columns)")
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			fmt.Fprintf(w, "%.4f\t", s.At(i, j))
		}
		fmt.Fprintln(w)
	}
	w.Flush()

	fmt.Printf("\nrank: %d\n", cable.Rank(s))
	if null := cable.NullSpace(s); null != nil {
		_, dim := null.Dims()
		fmt.Printf("null space dimension: %d (internal tension directions)\n", dim)
		fmt.Println(mat.Formatted(null, mat.Prefix(""), mat.Squeeze()))
	} else {
		fmt.Println("null space: empty (no internal tensions possible)")
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tDURATION\tDT\tINTEG\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%.2e\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

// loadResult rebuilds a Result from a stored trajectory. The CSV carries
// positions then velocities, so each row splits in half.
func loadResult(st *storage.Store, runID string) (*dynamo.Result, *storage.RunMetadata, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	times, rows, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("run %s has no trajectory data", runID)
	}

	dim := len(rows[0]) / 2
	result := &dynamo.Result{
		Times:      times,
		Positions:  make([]dynamo.State, len(rows)),
		Velocities: make([]dynamo.State, len(rows)),
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}
	for i, row := range rows {
		result.Positions[i] = dynamo.State(row[:dim])
		result.Velocities[i] = dynamo.State(row[dim:])
	}
	return result, meta, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, meta, err := loadResult(st, args[0])
	if err != nil {
		return err
	}

	if component >= len(result.Positions[0]) {
		return fmt.Errorf("component %d out of range, run has %d", component, len(result.Positions[0]))
	}

	fmt.Printf("run: %s\nsystem: %s\n\n", meta.ID, meta.System)
	fmt.Println(viz.PlotPosition(result, component))
	fmt.Println()
	fmt.Println(viz.PlotPhase(result, component))

	if svgPath != "" {
		dim := len(result.Positions[0])
		zIdx := 0
		if dim >= 3 {
			zIdx = 2
		}
		xs := make([]float64, len(result.Positions))
		zs := make([]float64, len(result.Positions))
		for i, p := range result.Positions {
			xs[i] = p[0]
			zs[i] = p[zIdx]
		}
		if err := os.WriteFile(svgPath, []byte(viz.TrajectorySVG(xs, zs, 4)), 0644); err != nil {
			return err
		}
		fmt.Printf("trajectory image written to %s\n", svgPath)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, meta, err := loadResult(st, args[0])
	if err != nil {
		return err
	}
	if component >= len(result.Positions[0]) {
		return fmt.Errorf("component %d out of range, run has %d", component, len(result.Positions[0]))
	}
	if len(result.Times) < 2 {
		return fmt.Errorf("run %s is too short to analyze", meta.ID)
	}

	series := make([]float64, len(result.Positions))
	for i, p := range result.Positions {
		series[i] = p[component]
	}
	sampleDt := result.Times[1] - result.Times[0]

	freq := analysis.DominantFrequency(series, sampleDt)
	fmt.Printf("run: %s\nsystem: %s\n", meta.ID, meta.System)
	if freq > 0 {
		fmt.Printf("dominant frequency of x%d: %.4f Hz (period %.4f s)\n", component, freq, 1/freq)
	} else {
		fmt.Printf("no dominant oscillation found in x%d\n", component)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}

	results, err := automation.RunScenario(context.Background(), scenario, experiment.NewRegistry(), st)
	if err != nil {
		return err
	}
	fmt.Printf("completed %d steps\n", len(results))
	return nil
}

func tuneSystem(cmd *cobra.Command, args []string) error {
	system := args[0]

	cfg, err := resolveConfig(cmd, system)
	if err != nil {
		return err
	}
	pos, vel := cfg.GetInitState()

	registry := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		sys, err := registry.System(system)
		if err != nil {
			return nil, err
		}
		stepper, err := registry.Integrator(cfg.Integrator)
		if err != nil {
			return nil, err
		}
		exp := experiment.New(experiment.Config{
			System:       system,
			Integrator:   cfg.Integrator,
			InitPosition: pos,
			InitVelocity: vel,
			Dt:           params["dt"],
			Duration:     cfg.Duration,
		})
		if err := exp.Setup(sys, stepper, registry.DefaultMetrics(sys)); err != nil {
			return nil, err
		}
		return exp, nil
	}

	gs := optim.NewGridSearch([]string{"dt"}, [][]float64{{0.05, 0.02, 0.01, 0.005, 0.002, 0.001}})
	best, score, err := gs.Search(context.Background(), build, "energy_drift")
	if err != nil {
		return err
	}

	fmt.Printf("best dt: %g (energy drift %.3e)\n", best["dt"], score)
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	system := args[0]

	cfg, err := resolveConfig(cmd, system)
	if err != nil {
		return err
	}
	pos, vel := cfg.GetInitState()

	mcCfg := &automation.MonteCarloConfig{
		System:       system,
		Integrator:   cfg.Integrator,
		BasePosition: pos,
		BaseVelocity: vel,
		Perturbation: 0.1,
		NumTrials:    trials,
		Duration:     cfg.Duration,
		Dt:           cfg.Dt,
		Seed:         seed,
	}

	results, err := automation.RunMonteCarlo(context.Background(), mcCfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d, stable: %d, unstable: %d\n", len(results), stable, unstable)
	return nil
}

func exportRunCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, meta, err := loadResult(st, args[0])
	if err != nil {
		return err
	}

	out := csvPath
	if out == "" {
		out = meta.ID + ".csv"
	}
	if err := storage.ExportCSV(out, result); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", out)
	return nil
}

func exportRunJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, meta, err := loadResult(st, args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta.System, meta.Integrator, meta.Dt, meta.Duration, result)
}

func runLive(cmd *cobra.Command, args []string) error {
	system := args[0]

	cfg, err := resolveConfig(cmd, system)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	sys, err := registry.System(system)
	if err != nil {
		return err
	}
	stepper, err := registry.Integrator(cfg.Integrator)
	if err != nil {
		return err
	}

	var anchors *mat.Dense
	if cdpr, ok := sys.(*models.PointMassCDPR); ok {
		anchors = cdpr.Anchors
	}

	pos, vel := cfg.GetInitState()
	if vel == nil {
		vel = make([]float64, len(pos))
	}

	model := viz.NewLiveModel(system, sys, stepper, anchors, dynamo.State(pos), dynamo.State(vel), cfg.Dt)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
