package control

import (
	"fmt"

	"github.com/san-kum/tanksim/internal/dynamo"
)

// Hysteresis switches its output off above Setpoint+Band/2 and on below
// Setpoint-Band/2, holding the previous state in between.
type Hysteresis struct {
	Input    string
	Output   string
	Setpoint float64
	Band     float64
	state    float64
	initial  float64
}

func NewHysteresis(input, output string, setpoint, band float64, initial float64) *Hysteresis {
	if initial != 0 {
		initial = 1
	}
	return &Hysteresis{
		Input:    input,
		Output:   output,
		Setpoint: setpoint,
		Band:     band,
		state:    initial,
		initial:  initial,
	}
}

func (h *Hysteresis) Compute(out dynamo.Signals, t float64) dynamo.Signals {
	if v, ok := out[h.Input]; ok {
		switch {
		case v > h.Setpoint+h.Band/2:
			h.state = 0
		case v < h.Setpoint-h.Band/2:
			h.state = 1
		}
	}
	return dynamo.Signals{h.Output: h.state}
}

// On reports the current switching state.
func (h *Hysteresis) On() bool { return h.state == 1 }

func (h *Hysteresis) Reset() { h.state = h.initial }

func (h *Hysteresis) GetParams() map[string]float64 {
	return map[string]float64{
		"setpoint": h.Setpoint,
		"band":     h.Band,
	}
}

func (h *Hysteresis) SetParam(name string, value float64) error {
	switch name {
	case "setpoint":
		h.Setpoint = value
	case "band":
		if value < 0 {
			return &dynamo.ConfigError{Field: "band", Value: value, Reason: "must not be negative"}
		}
		h.Band = value
	default:
		return fmt.Errorf("%w: unknown hysteresis parameter %q", dynamo.ErrConfiguration, name)
	}
	return nil
}
