package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"cablesim/internal/dynamo"
)

type ExportData struct {
	System      string             `json:"system"`
	Integrator  string             `json:"integrator"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	Times       []float64          `json:"times"`
	Positions   [][]float64        `json:"positions"`
	Velocities  [][]float64        `json:"velocities"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run as indented JSON to w. Pass os.Stdout to print.
func ExportJSON(w io.Writer, system, integrator string, dt, duration float64, result *dynamo.Result) error {
	data := ExportData{
		System:      system,
		Integrator:  integrator,
		Dt:          dt,
		Duration:    duration,
		Steps:       result.StepsTaken,
		Times:       result.Times,
		Positions:   make([][]float64, len(result.Positions)),
		Velocities:  make([][]float64, len(result.Velocities)),
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}

	for i, p := range result.Positions {
		data.Positions[i] = p
	}
	for i, v := range result.Velocities {
		data.Velocities[i] = v
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONFile is ExportJSON to a freshly created file.
func ExportJSONFile(path, system, integrator string, dt, duration float64, result *dynamo.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, system, integrator, dt, duration, result)
}

// ExportCSV writes a run trajectory to path in the same layout the store
// uses for saved runs.
func ExportCSV(path string, result *dynamo.Result) error {
	return writeTrajectoryCSV(path, result)
}

// ExportSolutionCSV writes a collocation solution: one row per node, time
// first, then the state columns y0..yn.
func ExportSolutionCSV(w io.Writer, times []float64, y *mat.Dense) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	_, cols := y.Dims()
	header := []string{"time"}
	for j := 0; j < cols; j++ {
		header = append(header, fmt.Sprintf("y%d", j))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, t := range times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for j := 0; j < cols; j++ {
			row = append(row, strconv.FormatFloat(y.At(i, j), 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}
