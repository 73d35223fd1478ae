package sim

import "github.com/san-kum/tanksim/internal/dynamo"

// Source provides the exogenous component inputs at time t.
type Source interface {
	Inputs(t float64) dynamo.Signals
}

// Draw is a hot-water tapping event.
type Draw struct {
	Start    float64 `yaml:"start" json:"start"`       // s
	Duration float64 `yaml:"duration" json:"duration"` // s
	Flow     float64 `yaml:"flow" json:"flow"`         // kg/s
}

func (d Draw) active(t float64) bool {
	return t >= d.Start && t < d.Start+d.Duration
}

// Profile holds constant inputs plus draw events. During a draw every port
// in DrawPorts carries the draw flow; overlapping draws add up.
type Profile struct {
	Constant  dynamo.Signals
	DrawPorts []string
	Draws     []Draw

	// Period repeats the draw schedule, e.g. daily. Zero disables repetition.
	Period float64
}

func (p *Profile) Inputs(t float64) dynamo.Signals {
	in := p.Constant.Clone()
	if len(p.DrawPorts) == 0 {
		return in
	}

	local := t
	if p.Period > 0 {
		local = t - p.Period*float64(int(t/p.Period))
	}

	flow := 0.0
	for _, d := range p.Draws {
		if d.active(local) {
			flow += d.Flow
		}
	}
	for _, port := range p.DrawPorts {
		in[port] = flow
	}
	return in
}

// DrawnMass returns the water drawn between 0 and duration in kg.
func (p *Profile) DrawnMass(duration, dt float64) float64 {
	if len(p.DrawPorts) == 0 || dt <= 0 {
		return 0
	}
	total := 0.0
	for t := 0.0; t < duration; t += dt {
		total += p.Inputs(t)[p.DrawPorts[0]] * dt
	}
	return total
}
