package viz

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mdsim/internal/forcefield"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/sim"
	"github.com/san-kum/mdsim/internal/vec"
)

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(2, 1)
	assert.Equal(t, "⠀⠀", c.String())

	c.Set(0, 0)
	c.Set(3, 3)
	assert.True(t, c.IsSet(0, 0))
	assert.True(t, c.IsSet(3, 3))
	assert.False(t, c.IsSet(1, 0))
	assert.Equal(t, "⠁⢀", c.String())

	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	assert.Equal(t, "⠁⢀", c.String(), "out of range dots are ignored")

	c.Clear()
	assert.False(t, c.IsSet(0, 0))
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Line(0, 0, 19, 19)
	for i := 0; i < 20; i++ {
		assert.True(t, c.IsSet(i, i), "diagonal dot %d", i)
	}

	c.Clear()
	c.Line(15, 2, 3, 2)
	for x := 3; x <= 15; x++ {
		assert.True(t, c.IsSet(x, 2))
	}
	assert.Len(t, strings.Split(c.String(), "\n"), 5)
}

func TestCameraProjectsCentreToMiddle(t *testing.T) {
	cam := NewCamera()
	box := vec.Cube(6)
	x, y, ok := cam.Project(box, vec.Vec3{3, 3, 3}, 100, 40)
	require.True(t, ok)
	assert.Equal(t, 50, x)
	assert.Equal(t, 20, y)
}

func TestCameraDrawsBox(t *testing.T) {
	cam := NewCamera()
	cv := NewCanvas(30, 15)
	cam.DrawBox(cv, vec.Cube(5))
	assert.NotEqual(t, NewCanvas(30, 15).String(), cv.String())

	cam.ZoomIn()
	assert.Greater(t, cam.Zoom, 1.0)
	for i := 0; i < 50; i++ {
		cam.ZoomOut()
	}
	assert.InDelta(t, 0.125, cam.Zoom, 1e-12)
}

func TestThemes(t *testing.T) {
	assert.Equal(t, []string{"phosphor", "ocean", "mono"}, ThemeNames())
	assert.Equal(t, "ocean", ThemeByName("ocean").Name)
	assert.Equal(t, "phosphor", ThemeByName("nope").Name)
}

func dimerFactory(r float64) Factory {
	return func() (*sim.Simulator, error) {
		a := md.Particle{Position: vec.Vec3{5 - r/2, 5, 5}, Mass: 1}
		b := md.Particle{Position: vec.Vec3{5 + r/2, 5, 5}, Mass: 1}
		params := md.DefaultParams()
		params.Dt = 0.001
		s, err := md.NewCollectionState(vec.Cube(10), []md.LJType{{Name: "Ar", Sigma: 1, Epsilon: 1, Mass: 1}},
			md.Collection{Particles: []md.Particle{a, b}}, params)
		if err != nil {
			return nil, err
		}
		ff, err := forcefield.New(s, forcefield.DefaultOptions())
		if err != nil {
			return nil, err
		}
		return sim.New(s, integrators.NewVelocityVerlet(ff)), nil
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestModelTicksAdvance(t *testing.T) {
	m, err := NewModel("dimer", dimerFactory(1.2), 5)
	require.NoError(t, err)

	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})
	assert.Equal(t, 10, m.Simulator().State().Step)
	assert.Len(t, m.history, 3)

	m = update(t, m, key(" "))
	assert.False(t, m.Running())
	m = update(t, m, TickMsg{})
	assert.Equal(t, 10, m.Simulator().State().Step, "paused model does not advance")

	m = update(t, m, key("n"))
	assert.Equal(t, 11, m.Simulator().State().Step)

	m = update(t, m, key(">"))
	assert.Equal(t, 10, m.stepsPerFrame)
}

func TestModelReset(t *testing.T) {
	m, err := NewModel("dimer", dimerFactory(1.2), 10)
	require.NoError(t, err)
	m = update(t, m, TickMsg{})
	require.Equal(t, 10, m.Simulator().State().Step)

	m = update(t, m, key("r"))
	assert.Equal(t, 0, m.Simulator().State().Step)
	assert.True(t, m.Running())
	assert.Len(t, m.history, 1)
}

func TestModelFactoryError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewModel("x", func() (*sim.Simulator, error) { return nil, boom }, 1)
	assert.ErrorIs(t, err, boom)
}

func TestModelView(t *testing.T) {
	m, err := NewModel("dimer", dimerFactory(1.2), 1)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		m = update(t, m, TickMsg{})
	}

	view := m.View()
	assert.Contains(t, view, "dimer (collection, N=2)")
	assert.Contains(t, view, "conserved energy")
	assert.Contains(t, view, "q quit")

	m = update(t, m, key("g"))
	assert.Contains(t, m.View(), "temperature")

	m = update(t, m, key("?"))
	assert.Contains(t, m.View(), "single step while paused")
}

func TestModelQuit(t *testing.T) {
	m, err := NewModel("dimer", dimerFactory(1.2), 1)
	require.NoError(t, err)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
