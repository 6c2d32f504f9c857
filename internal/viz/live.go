package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/mat"

	"cablesim/internal/dynamo"
)

const (
	canvasWidth     = 60
	canvasHeight    = 18
	historyCapacity = 400
	stepsPerFrame   = 20
)

var (
	canvasStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// LiveModel steps a second-order system in real time and draws the platform
// in the x-z plane. When anchors are set, the cables to the current position
// are drawn too.
type LiveModel struct {
	sys     dynamo.SecondOrderSystem
	stepper dynamo.Stepper
	accel   dynamo.Acceleration

	name    string
	anchors *mat.Dense // 3×M winch positions, nil when the system has none

	x0, v0 dynamo.State
	x, v   dynamo.State
	t, dt  float64

	canvas        *Canvas
	trail         [][2]float64
	energyHistory []float64
	running       bool
	failed        error
}

func NewLiveModel(name string, sys dynamo.SecondOrderSystem, stepper dynamo.Stepper, anchors *mat.Dense, x0, v0 dynamo.State, dt float64) LiveModel {
	xmin, xmax, ymin, ymax := -1.5, 1.5, -0.5, 2.5
	return LiveModel{
		sys:           sys,
		stepper:       stepper,
		accel:         dynamo.Compose(sys.Force, sys.Mass()),
		name:          name,
		anchors:       anchors,
		x0:            x0.Clone(),
		v0:            v0.Clone(),
		x:             x0.Clone(),
		v:             v0.Clone(),
		dt:            dt,
		canvas:        NewCanvas(canvasWidth, canvasHeight, xmin, xmax, ymin, ymax),
		trail:         make([][2]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
		running:       true,
	}
}

func (m LiveModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.x = m.x0.Clone()
			m.v = m.v0.Clone()
			m.t = 0
			m.trail = m.trail[:0]
			m.energyHistory = m.energyHistory[:0]
			m.failed = nil
			m.running = true
		}
		return m, nil

	case TickMsg:
		if m.running && m.failed == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) step() {
	for i := 0; i < stepsPerFrame; i++ {
		m.x, m.v = m.stepper.Step(m.accel, m.t, m.dt, m.x, m.v)
		m.t += m.dt
		if !m.x.IsValid() || !m.v.IsValid() {
			m.failed = dynamo.ErrInvalidState
			m.running = false
			return
		}
	}

	m.trail = append(m.trail, [2]float64{m.x[0], m.zCoord()})
	if len(m.trail) > historyCapacity {
		m.trail = m.trail[1:]
	}
	if h, ok := m.sys.(dynamo.Hamiltonian); ok {
		m.energyHistory = append(m.energyHistory, h.Energy(m.x, m.v))
		if len(m.energyHistory) > historyCapacity {
			m.energyHistory = m.energyHistory[1:]
		}
	}
}

// zCoord is the vertical drawing coordinate: the third state when the
// system is spatial, the first otherwise.
func (m *LiveModel) zCoord() float64 {
	if len(m.x) >= 3 {
		return m.x[2]
	}
	return 0
}

func (m LiveModel) View() string {
	m.canvas.Clear()

	px, pz := m.x[0], m.zCoord()
	if m.anchors != nil {
		_, cables := m.anchors.Dims()
		for i := 0; i < cables; i++ {
			ax, az := m.anchors.At(0, i), m.anchors.At(2, i)
			m.canvas.Segment(ax, az, px, pz)
			m.canvas.Mark(ax, az)
		}
	}
	for _, p := range m.trail {
		m.canvas.Mark(p[0], p[1])
	}
	m.canvas.Mark(px, pz)

	var stats strings.Builder
	stats.WriteString(headerStyle.Render(m.name) + "\n\n")
	row := func(label, value string) {
		stats.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%8.3f s", m.t))
	row("position", formatState(m.x))
	row("velocity", formatState(m.v))
	if m.failed != nil {
		row("status", "diverged")
	} else if !m.running {
		row("status", "paused")
	} else {
		row("status", "running")
	}

	view := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		lipgloss.NewStyle().Padding(0, 2).Render(stats.String()),
	)

	if len(m.energyHistory) > 2 {
		graph := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(6),
			asciigraph.Width(plotWidth),
			asciigraph.Caption("energy"),
		)
		view = lipgloss.JoinVertical(lipgloss.Left, view, graphStyle.Render(graph))
	}

	return view + helpStyle.Render("\nspace pause · r reset · q quit")
}

func formatState(s dynamo.State) string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = fmt.Sprintf("%7.3f", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
