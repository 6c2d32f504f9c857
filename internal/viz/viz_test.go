package viz

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"cablesim/internal/dynamo"
)

func TestCanvasMarkAndSegment(t *testing.T) {
	c := NewCanvas(10, 5, 0, 1, 0, 1)

	c.Mark(0.5, 0.5)
	out := c.String()
	if !strings.ContainsFunc(out, func(r rune) bool { return r > 0x2800 }) {
		t.Error("expected a lit dot after Mark")
	}

	c.Clear()
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r > 0x2800 }) {
		t.Error("Clear left dots behind")
	}

	c.Segment(0, 0, 1, 1)
	lit := 0
	for _, r := range c.String() {
		if r > 0x2800 && r <= 0x28FF {
			lit++
		}
	}
	if lit < 5 {
		t.Errorf("diagonal segment lit %d cells, want several", lit)
	}

	// Out-of-window points must not panic or wrap around.
	c.Mark(-3, 7)
	c.Segment(-2, -2, 5, 5)
}

func TestCanvasSVG(t *testing.T) {
	c := NewCanvas(10, 5, 0, 1, 0, 1)
	c.Segment(0.1, 0.1, 0.9, 0.9)

	svg := c.SVG(4)
	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML header")
	}
	if strings.Count(svg, "<circle") < 5 {
		t.Errorf("expected several dots, got %d", strings.Count(svg, "<circle"))
	}
	if !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Error("unterminated SVG document")
	}
}

func TestTrajectorySVG(t *testing.T) {
	xs := []float64{0, 0.1, 0.2, 0.3}
	zs := []float64{0.5, 0.4, 0.45, 0.5}
	svg := TrajectorySVG(xs, zs, 4)
	if !strings.Contains(svg, "<circle") {
		t.Error("trajectory produced no dots")
	}

	// Constant series must not divide by a zero-width window.
	flat := []float64{1, 1, 1}
	if svg := TrajectorySVG(flat, flat, 4); !strings.Contains(svg, "<circle") {
		t.Error("flat trajectory produced no dots")
	}
}

func sineResult(n int) *dynamo.Result {
	r := &dynamo.Result{
		Times:      make([]float64, n),
		Positions:  make([]dynamo.State, n),
		Velocities: make([]dynamo.State, n),
		StepsTaken: n - 1,
	}
	for i := 0; i < n; i++ {
		t := float64(i) * 0.1
		r.Times[i] = t
		r.Positions[i] = dynamo.State{math.Sin(t)}
		r.Velocities[i] = dynamo.State{math.Cos(t)}
	}
	return r
}

func TestPlotPosition(t *testing.T) {
	out := PlotPosition(sineResult(100), 0)
	if !strings.Contains(out, "x0") {
		t.Errorf("caption missing from plot:\n%s", out)
	}
	if len(strings.Split(out, "\n")) < plotHeight {
		t.Error("plot shorter than configured height")
	}
}

func TestPlotPhase(t *testing.T) {
	out := PlotPhase(sineResult(100), 0)
	if !strings.Contains(out, "green") {
		t.Errorf("caption missing from plot:\n%s", out)
	}
}

func TestPlotSolution(t *testing.T) {
	times := []float64{0, 0.5, 1, 1.5, 2}
	y := mat.NewDense(5, 2, []float64{
		1, 0,
		0.8, -0.3,
		0.6, -0.5,
		0.4, -0.6,
		0.2, -0.6,
	})
	out := PlotSolution(times, y, []int{0, 1})
	if !strings.Contains(out, "[0 1]") {
		t.Errorf("caption missing from plot:\n%s", out)
	}
}
