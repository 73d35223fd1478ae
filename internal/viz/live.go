package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/sim"
	"github.com/san-kum/tanksim/internal/tes"
)

const historyCapacity = 600

// Tank is what the live view needs from a simulated component.
type Tank interface {
	dynamo.Component
	Temperatures() []float64
	Geometry() *tes.Geometry
	Energy() float64
}

// Builder creates a fresh simulator and the tank it drives.
type Builder func() (*sim.Simulator, Tank, error)

var (
	panelStyle       = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(52)
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

// Model steps a simulation on every tick and renders the tank.
type Model struct {
	build     Builder
	sim       *sim.Simulator
	tank      Tank
	title     string
	dt        float64
	t         float64
	in, out   dynamo.Signals
	steps     int
	speed     int // simulation steps per frame
	running   bool
	err       error
	showHelp  bool
	topHist   []float64
	wellHist  []float64
	params    map[string]float64
	paramKeys []string
	selected  int
}

// NewModel builds the first simulator instance.
func NewModel(title string, dt float64, build Builder) (Model, error) {
	m := Model{
		build:   build,
		title:   title,
		dt:      dt,
		speed:   10,
		running: true,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "+", "=":
			m.speed *= 2
			if m.speed > 1000 {
				m.speed = 1000
			}
		case "-", "_":
			m.speed /= 2
			if m.speed < 1 {
				m.speed = 1
			}
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < m.speed; i++ {
				if err := m.step(); err != nil {
					m.err = err
					m.running = false
					break
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() error {
	in, out, err := m.sim.Advance(m.t, m.out)
	if err != nil {
		return &dynamo.StepError{Component: m.tank.Name(), Step: m.steps, Time: m.t, Wrapped: err}
	}
	m.in, m.out = in, out
	m.t += m.dt
	m.steps++

	temps := m.tank.Temperatures()
	m.topHist = appendCapped(m.topHist, temps[0])
	if w := m.well(); w >= 0 {
		m.wellHist = appendCapped(m.wellHist, temps[w])
	}
	return nil
}

func appendCapped(hist []float64, v float64) []float64 {
	hist = append(hist, v)
	if len(hist) > historyCapacity {
		hist = hist[1:]
	}
	return hist
}

func (m *Model) reset() error {
	s, tank, err := m.build()
	if err != nil {
		return err
	}
	m.sim, m.tank = s, tank
	m.t, m.steps = 0, 0
	m.in, m.out = nil, nil
	m.err = nil
	m.topHist = m.topHist[:0]
	m.wellHist = m.wellHist[:0]

	m.params = make(map[string]float64)
	m.paramKeys = m.paramKeys[:0]
	if c, ok := tank.(dynamo.Configurable); ok {
		for k, v := range c.GetParams() {
			m.params[k] = v
			m.paramKeys = append(m.paramKeys, k)
		}
	}
	sort.Strings(m.paramKeys)
	if m.selected >= len(m.paramKeys) {
		m.selected = 0
	}
	return nil
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	c, ok := m.tank.(dynamo.Configurable)
	if !ok {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if err := c.SetParam(key, val); err != nil {
		m.err = err
		return
	}
	m.params[key] = val
}

func (m Model) well() int {
	if w, ok := m.tank.(interface{ WellLayer() int }); ok {
		return w.WellLayer()
	}
	return -1
}

// Time returns the simulated time in seconds.
func (m Model) Time() float64 { return m.t }

func (m Model) Err() error { return m.err }

// View renders the TUI interface.
func (m Model) View() string {
	temps := m.tank.Temperatures()
	lo, hi := Range(temps, m.topHist, m.wellHist)

	tankView := panelStyle.Render(RenderTank(TankView{
		Temps:        temps,
		Min:          lo,
		Max:          hi,
		HeaterLayers: m.tank.Geometry().HeaterLayers,
		HeaterOn:     m.in[heaterPort] == 1,
		Well:         m.well(),
		Width:        18,
	}))

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n")

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = StatusError.Render("ERROR: " + m.err.Error())
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	if len(m.topHist) > 1 {
		series := [][]float64{m.topHist}
		if len(m.wellHist) > 1 {
			series = append(series, m.wellHist)
		}
		chart := asciigraph.PlotMany(series,
			asciigraph.Height(6),
			asciigraph.Width(36),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Yellow),
			asciigraph.Caption("top / well °C"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(formatClock(m.t)) + "\n")
	s.WriteString(MetricLabel.Render("Speed") + MetricValue.Render(fmt.Sprintf("%dx", m.speed)) + "\n")
	s.WriteString(MetricLabel.Render("Energy") + MetricValue.Render(fmt.Sprintf("%.2f kWh", m.tank.Energy())) + "\n")
	if flow, ok := m.in[drawPort(m.in)]; ok {
		s.WriteString(MetricLabel.Render("Draw") + MetricValue.Render(fmt.Sprintf("%.3f kg/s", flow)) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) > 0 {
		for i, k := range m.paramKeys {
			line := fmt.Sprintf("%-14s %g", k, m.params[k])
			if i == m.selected {
				s.WriteString(activeParamStyle.Render("> "+line) + "\n")
			} else {
				s.WriteString("  " + Subtle.Render(line) + "\n")
			}
		}
	} else {
		s.WriteString(Subtle.Render("  (none)") + "\n")
	}
	s.WriteString(KeyHint.Render("\nSP:Pause R:Reset Q:Quit\nT:Theme  +/-:Speed ?:Help\nTab:Param ↑↓:Tune"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, tankView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  + / -    - Faster / slower          ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

const heaterPort = "heater_state"

func drawPort(in dynamo.Signals) string {
	if _, ok := in["outlet_flow"]; ok {
		return "outlet_flow"
	}
	return "outlet_flow_dhw"
}

func formatClock(t float64) string {
	d := time.Duration(t) * time.Second
	days := int(d.Hours()) / 24
	d -= time.Duration(days) * 24 * time.Hour
	h := int(d.Hours())
	mnt := int(d.Minutes()) % 60
	return fmt.Sprintf("day %d %02d:%02d", days+1, h, mnt)
}
