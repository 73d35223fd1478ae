package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/tanksim/internal/control"
	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/models"
	"github.com/san-kum/tanksim/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTank(t *testing.T) {
	out := RenderTank(TankView{
		Temps:        []float64{60, 50, 40, 30},
		Min:          30,
		Max:          60,
		HeaterLayers: 2,
		HeaterOn:     true,
		Well:         1,
		Width:        10,
	})

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, lines[1], "60.0°C")
	assert.Contains(t, lines[2], "◄ well")
	assert.Contains(t, lines[4], "30.0°C")
}

func TestRange(t *testing.T) {
	lo, hi := Range([]float64{40, 55}, []float64{38}, nil)
	assert.Equal(t, 38.0, lo)
	assert.Equal(t, 55.0, hi)

	lo, hi = Range([]float64{20, 20})
	assert.Equal(t, 19.5, lo)
	assert.Equal(t, 20.5, hi)
}

func TestBlend(t *testing.T) {
	assert.Equal(t, "#000000", string(blend("#000000", "#ffffff", 0)))
	assert.Equal(t, "#ffffff", string(blend("#000000", "#ffffff", 1)))
	assert.Equal(t, "#7f7f7f", string(blend("#000000", "#ffffff", 0.5)))
	assert.Equal(t, "#ffffff", string(blend("#000000", "#ffffff", 7)))
}

func TestPlotLayers(t *testing.T) {
	temps := [][]float64{{50, 40, 30}, {49, 40, 31}, {48, 41, 32}}
	out := PlotLayers(temps, DefaultLayers(3), 5, 20, LayerCaption(DefaultLayers(3)))
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "T_2")

	assert.Empty(t, PlotLayers(nil, []int{0}, 5, 20, ""))
	assert.Equal(t, []int{0, 5, 9}, DefaultLayers(10))
	assert.Nil(t, DefaultLayers(0))
}

func TestSparklineAndProgress(t *testing.T) {
	assert.Equal(t, "▁█", Sparkline([]float64{0, 1}, 2))
	assert.Equal(t, strings.Repeat("─", 4), Sparkline(nil, 4))
	assert.NotEmpty(t, ProgressBar(0.5, 10))
}

func TestThemes(t *testing.T) {
	defer SetTheme("thermal")

	SetTheme("minimal")
	assert.Equal(t, "minimal", CurrentTheme.Name)
	NextTheme()
	assert.Equal(t, "sunset", CurrentTheme.Name)
	NextTheme()
	assert.Equal(t, "thermal", CurrentTheme.Name)
	assert.Equal(t, ThemeThermal, GetTheme("unknown"))
}

func heaterBuilder() (*sim.Simulator, Tank, error) {
	h, err := models.NewDHWHeater("dhwh", models.DefaultDHWHeaterParams())
	if err != nil {
		return nil, nil, err
	}
	src := &sim.Profile{Constant: dynamo.Signals{
		models.OutletFlow:  0,
		models.InletTemp:   10,
		models.AmbientTemp: 20,
	}}
	ctrl := control.NewHysteresis(models.WellTemp, models.HeaterState, 55, 5, 1)
	return sim.New(h, src, ctrl), h, nil
}

func TestModelStepsOnTick(t *testing.T) {
	m, err := NewModel("dhwh", 60, heaterBuilder)
	require.NoError(t, err)

	next, cmd := m.Update(TickMsg{})
	require.NotNil(t, cmd)
	m = next.(Model)

	assert.Equal(t, 600.0, m.Time())
	assert.NoError(t, m.Err())
	assert.Contains(t, m.View(), "DHWH")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	assert.Equal(t, 600.0, m.Time(), "paused model must not advance")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	assert.Equal(t, 0.0, m.Time())
}

func TestModelTuneParameter(t *testing.T) {
	m, err := NewModel("dhwh", 60, heaterBuilder)
	require.NoError(t, err)

	// parameters are sorted: diameter, heater_height, heater_power, k_high, ...
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	assert.InDelta(t, 420.0, m.params["diameter"], 1e-9)
	assert.InDelta(t, 420.0, m.tank.(dynamo.Configurable).GetParams()["diameter"], 1e-9)
}

func TestModelQuit(t *testing.T) {
	m, err := NewModel("dhwh", 60, heaterBuilder)
	require.NoError(t, err)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
