package control

import (
	"math"

	"github.com/san-kum/tanksim/internal/dynamo"
)

// TimeProportional turns a duty cycle in [0, 1] from an inner controller into
// on/off switching. The duty is sampled once at the start of every window and
// the output is on for the first duty*Window seconds of it.
type TimeProportional struct {
	Inner  dynamo.Controller
	Output string
	Window float64
	start  float64
	duty   float64
	primed bool
}

func NewTimeProportional(inner dynamo.Controller, output string, window float64) *TimeProportional {
	return &TimeProportional{Inner: inner, Output: output, Window: window}
}

func (p *TimeProportional) Compute(out dynamo.Signals, t float64) dynamo.Signals {
	if !p.primed || t-p.start >= p.Window {
		p.duty = math.Max(0, math.Min(1, p.Inner.Compute(out, t)[p.Output]))
		p.start = t
		p.primed = true
	}

	on := 0.0
	if t-p.start < p.duty*p.Window {
		on = 1
	}
	return dynamo.Signals{p.Output: on}
}

// Duty returns the duty cycle of the current window.
func (p *TimeProportional) Duty() float64 { return p.duty }

func (p *TimeProportional) Reset() {
	p.primed = false
	p.duty = 0
	if r, ok := p.Inner.(interface{ Reset() }); ok {
		r.Reset()
	}
}
