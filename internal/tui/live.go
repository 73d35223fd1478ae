package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"

	historyWidth = 40
)

// LiveRenderer redraws the tank column in the terminal while a run
// progresses. It is a simulation observer.
type LiveRenderer struct {
	out       io.Writer
	title     string
	tank      viz.Tank
	frameRate int
	lastFrame time.Time

	lo, hi  float64
	scaled  bool
	history []float64
}

// NewLiveRenderer draws at most frameRate frames per second; zero draws
// every step.
func NewLiveRenderer(out io.Writer, title string, tank viz.Tank, frameRate int) *LiveRenderer {
	return &LiveRenderer{
		out:       out,
		title:     title,
		tank:      tank,
		frameRate: frameRate,
		history:   make([]float64, 0, historyWidth),
	}
}

func (r *LiveRenderer) OnStep(x dynamo.State, in, out dynamo.Signals, t float64) {
	temps := x.Celsius()
	r.track(temps)

	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}
	r.render(temps, in, t)
}

// track widens the colour scale and records the top layer.
func (r *LiveRenderer) track(temps []float64) {
	lo, hi := viz.Range(temps)
	if !r.scaled {
		r.lo, r.hi, r.scaled = lo, hi, true
	}
	if lo < r.lo {
		r.lo = lo
	}
	if hi > r.hi {
		r.hi = hi
	}

	if len(r.history) == historyWidth {
		r.history = r.history[1:]
	}
	r.history = append(r.history, temps[0])
}

func (r *LiveRenderer) render(temps []float64, in dynamo.Signals, t float64) {
	well := -1
	if w, ok := r.tank.(interface{ WellLayer() int }); ok {
		well = w.WellLayer()
	}

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(viz.HeaderStyle.Render(fmt.Sprintf("%s  t=%.0fs", r.title, t)) + "\n\n")
	b.WriteString(viz.RenderTank(viz.TankView{
		Temps:        temps,
		Min:          r.lo,
		Max:          r.hi,
		HeaterLayers: r.tank.Geometry().HeaterLayers,
		HeaterOn:     in["heater_state"] == 1,
		Well:         well,
		Width:        18,
	}))
	b.WriteString("\n")
	b.WriteString(viz.MetricLabel.Render("Top") + viz.Sparkline(r.history, historyWidth) + "\n")
	b.WriteString(viz.MetricLabel.Render("Energy") + viz.MetricValue.Render(fmt.Sprintf("%.2f kWh", r.tank.Energy())) + "\n")

	for _, k := range in.Keys() {
		b.WriteString(viz.Subtle.Render(fmt.Sprintf("  %-16s %g", k, in[k])) + "\n")
	}

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
