// Package viz renders trajectories and live simulations in the terminal:
// asciigraph plots for saved results and a Bubble Tea view for running
// integrations.
package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/mat"

	"cablesim/internal/dynamo"
)

const (
	plotHeight = 15
	plotWidth  = 70
)

// PlotPosition graphs one position component of a run over time.
func PlotPosition(result *dynamo.Result, component int) string {
	series := make([]float64, len(result.Positions))
	for i, p := range result.Positions {
		series[i] = p[component]
	}
	return asciigraph.Plot(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("x%d over %d steps", component, result.StepsTaken)),
	)
}

// PlotPhase graphs position against velocity for one component.
func PlotPhase(result *dynamo.Result, component int) string {
	pos := make([]float64, len(result.Positions))
	vel := make([]float64, len(result.Velocities))
	for i := range result.Positions {
		pos[i] = result.Positions[i][component]
		vel[i] = result.Velocities[i][component]
	}
	return asciigraph.PlotMany([][]float64{pos, vel},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("x%d (green) and v%d (red)", component, component)),
	)
}

// PlotSolution graphs selected columns of a collocation solution.
func PlotSolution(times []float64, y *mat.Dense, columns []int) string {
	rows, _ := y.Dims()
	series := make([][]float64, len(columns))
	for k, col := range columns {
		series[k] = make([]float64, rows)
		for i := 0; i < rows; i++ {
			series[k][i] = y.At(i, col)
		}
	}
	caption := fmt.Sprintf("states %v over [%g, %g]", columns, times[0], times[len(times)-1])
	return asciigraph.PlotMany(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
}
