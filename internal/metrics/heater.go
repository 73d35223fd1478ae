package metrics

import "github.com/san-kum/tanksim/internal/dynamo"

// HeaterEnergy integrates the electric energy of a switched heater in kWh.
type HeaterEnergy struct {
	name  string
	port  string
	power float64 // W
	sum   float64 // J
	lastT float64
}

func NewHeaterEnergy(port string, power float64) *HeaterEnergy {
	return &HeaterEnergy{
		name:  "heater_energy",
		port:  port,
		power: power,
	}
}

func (h *HeaterEnergy) Name() string { return h.name }

// Observe is called after each step; the input in held over (lastT, t].
func (h *HeaterEnergy) Observe(x dynamo.State, in dynamo.Signals, t float64) {
	dt := t - h.lastT
	h.lastT = t
	if dt <= 0 {
		return
	}
	h.sum += in[h.port] * h.power * dt
}

func (h *HeaterEnergy) Value() float64 { return h.sum / 3.6e6 }

func (h *HeaterEnergy) Reset() {
	h.sum = 0
	h.lastT = 0
}
