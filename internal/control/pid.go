package control

import (
	"fmt"
	"math"

	"github.com/san-kum/tanksim/internal/dynamo"
)

// PID drives one measured output towards Target and writes the clamped
// control value to every name in Outputs. Paired ports (supply and return
// flow of a heat pump) therefore stay mass balanced.
type PID struct {
	Input    string
	Outputs  []string
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	Min      float64
	Max      float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(input string, outputs []string, kp, ki, kd, target, min, max float64) *PID {
	return &PID{
		Input:   input,
		Outputs: outputs,
		Kp:      kp,
		Ki:      ki,
		Kd:      kd,
		Target:  target,
		Min:     min,
		Max:     max,
		first:   true,
	}
}

func (p *PID) Compute(out dynamo.Signals, t float64) dynamo.Signals {
	x, ok := out[p.Input]
	if !ok {
		return p.emit(p.Min)
	}

	err := p.Target - x

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return p.emit(p.Kp * err)
	}

	dt := t - p.prevT
	if dt <= 0 {
		return p.emit(p.Kp * err)
	}

	derivative := (err - p.prevErr) / dt
	u := p.Kp*err + p.Ki*(p.integral+err*dt) + p.Kd*derivative
	// no integration while saturated
	if u > p.Min && u < p.Max {
		p.integral += err * dt
	}

	p.prevErr = err
	p.prevT = t
	return p.emit(u)
}

func (p *PID) emit(u float64) dynamo.Signals {
	u = math.Max(p.Min, math.Min(p.Max, u))
	s := make(dynamo.Signals, len(p.Outputs))
	for _, name := range p.Outputs {
		s[name] = u
	}
	return s
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":     p.Kp,
		"ki":     p.Ki,
		"kd":     p.Kd,
		"target": p.Target,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		p.Kp = value
	case "ki":
		p.Ki = value
	case "kd":
		p.Kd = value
	case "target":
		p.Target = value
	default:
		return fmt.Errorf("%w: unknown pid parameter %q", dynamo.ErrConfiguration, name)
	}
	return nil
}
