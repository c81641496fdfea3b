package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mdsim/internal/sim"
	"github.com/san-kum/mdsim/internal/vec"
)

const (
	canvasWidth     = 48
	canvasHeight    = 20
	historyCapacity = 400
	frameRate       = 30
)

type TickMsg time.Time

// Factory builds a fresh simulator. The live view calls it on start and on
// every reset.
type Factory func() (*sim.Simulator, error)

type graphKind int

const (
	graphConserved graphKind = iota
	graphTemperature
	graphPressure
	graphCount
)

func (g graphKind) String() string {
	switch g {
	case graphTemperature:
		return "temperature"
	case graphPressure:
		return "pressure"
	default:
		return "conserved energy"
	}
}

// Model is a Bubble Tea model that advances a simulator on every frame.
type Model struct {
	name    string
	factory Factory
	sim     *sim.Simulator

	stepsPerFrame int
	running       bool
	err           error

	canvas *Canvas
	camera *Camera
	theme  int
	graph  graphKind

	history  []sim.Sample
	showHelp bool
}

// NewModel builds the first simulator from factory.
func NewModel(name string, factory Factory, stepsPerFrame int) (Model, error) {
	if stepsPerFrame <= 0 {
		stepsPerFrame = 1
	}
	s, err := factory()
	if err != nil {
		return Model{}, err
	}
	s.Init()
	return Model{
		name:          name,
		factory:       factory,
		sim:           s,
		stepsPerFrame: stepsPerFrame,
		running:       true,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		camera:        NewCamera(),
		history:       []sim.Sample{sim.SampleOf(s.State())},
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "n":
			if !m.running && m.err == nil {
				m.advance(1)
			}
		case "g":
			m.graph = (m.graph + 1) % graphCount
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "left", "h":
			m.camera.Rotate(0, -0.1)
		case "right", "l":
			m.camera.Rotate(0, 0.1)
		case "up", "k":
			m.camera.Rotate(-0.1, 0)
		case "down", "j":
			m.camera.Rotate(0.1, 0)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case ">", ".":
			m.stepsPerFrame *= 2
		case "<", ",":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame /= 2
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance(m.stepsPerFrame)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		if err := m.sim.Advance(); err != nil {
			m.err = err
			m.running = false
			break
		}
	}
	m.history = append(m.history, sim.SampleOf(m.sim.State()))
	if len(m.history) > historyCapacity {
		m.history = m.history[len(m.history)-historyCapacity:]
	}
}

func (m *Model) reset() {
	s, err := m.factory()
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	s.Init()
	m.sim = s
	m.err = nil
	m.running = true
	m.history = []sim.Sample{sim.SampleOf(s.State())}
}

// Simulator returns the simulator currently shown.
func (m Model) Simulator() *sim.Simulator { return m.sim }

func (m Model) Err() error { return m.err }

func (m Model) Running() bool { return m.running }

func (m Model) View() string {
	st := Themes[m.theme].styles()
	state := m.sim.State()

	m.canvas.Clear()
	m.camera.DrawBox(m.canvas, state.Box)
	positions := make([]vec.Vec3, state.Len())
	for i, p := range state.Particles() {
		positions[i] = p.Position
	}
	m.camera.DrawPoints(m.canvas, state.Box, positions)
	left := lipgloss.NewStyle().Padding(1, 2).Foreground(Themes[m.theme].Primary).Render(m.canvas.String())

	last := m.history[len(m.history)-1]
	row := func(label, value string) string {
		return st.label.Render(label) + st.value.Render(value)
	}

	var b strings.Builder
	b.WriteString(st.title.Render(fmt.Sprintf("%s (%s, N=%d)", m.name, state.Kind(), state.Len())))
	b.WriteString("\n")
	lines := []string{
		row("step", fmt.Sprintf("%d", last.Step)),
		row("time", fmt.Sprintf("%.4f", last.Time)),
		row("T", fmt.Sprintf("%.4f", last.Temperature)),
		row("KE", fmt.Sprintf("%.4f", last.Kinetic)),
		row("PE", fmt.Sprintf("%.4f", last.Potential)),
		row("E conserved", fmt.Sprintf("%.6f", last.Conserved)),
		row("P", fmt.Sprintf("%.4f", last.Pressure)),
		row("V", fmt.Sprintf("%.3f", last.Volume)),
		row("steps/frame", fmt.Sprintf("%d", m.stepsPerFrame)),
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")

	if d := state.Degeneracies; d.Total() > 0 {
		b.WriteString(st.warn.Render(fmt.Sprintf("clamped %d  zero bonds %d  skipped %d  cutoff %d",
			d.ClampedPairs, d.ZeroLengthBonds, d.SkippedRescales, d.CutoffViolations)))
		b.WriteString("\n")
	}

	if series := m.series(); len(series) > 1 {
		plot := asciigraph.Plot(series, asciigraph.Height(8), asciigraph.Width(40), asciigraph.Caption(m.graph.String()))
		b.WriteString(st.graph.Render(plot))
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(st.err.Render(describe(m.err)))
	case !m.running:
		b.WriteString(st.warn.Render("paused"))
	}

	right := st.panel.Render(b.String())
	view := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	if m.showHelp {
		view += "\n" + st.muted.Render(helpText)
	} else {
		view += "\n" + st.muted.Render("space pause  n step  r reset  g graph  ? help  q quit")
	}
	return view
}

const helpText = `space      pause / resume
n          single step while paused
r          rebuild the system from its config
g          cycle graph (energy, temperature, pressure)
t          cycle theme
arrows     rotate the view
+ / -      zoom
> / <      double / halve steps per frame
q          quit`

func (m Model) series() []float64 {
	out := make([]float64, len(m.history))
	for i, s := range m.history {
		switch m.graph {
		case graphTemperature:
			out[i] = s.Temperature
		case graphPressure:
			out[i] = s.Pressure
		default:
			out[i] = s.Conserved
		}
	}
	return out
}

func describe(err error) string {
	var se *sim.StepError
	if errors.As(err, &se) {
		return fmt.Sprintf("unstable at step %d (particle %d), press r", se.Step, se.Particle)
	}
	return err.Error()
}
