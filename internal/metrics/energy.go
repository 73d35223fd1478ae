package metrics

import (
	"math"

	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/tes"
)

// StoredEnergy reports the heat held in the tank above a reference
// temperature, in kWh, at the last observed state.
type StoredEnergy struct {
	name      string
	geom      *tes.Geometry
	reference float64 // K
	current   float64
	samples   int
}

func NewStoredEnergy(g *tes.Geometry, referenceC float64) *StoredEnergy {
	return &StoredEnergy{
		name:      "stored_energy",
		geom:      g,
		reference: dynamo.CelsiusToKelvin(referenceC),
	}
}

func (e *StoredEnergy) Name() string { return e.name }

func (e *StoredEnergy) Observe(x dynamo.State, in dynamo.Signals, t float64) {
	if len(x) != e.geom.Layers {
		return
	}
	e.current = e.geom.Energy(x, e.reference) / 3.6e6
	e.samples++
}

func (e *StoredEnergy) Value() float64 { return e.current }

func (e *StoredEnergy) Reset() {
	e.current = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative change of stored heat between
// consecutive observed states. Heat is counted from absolute zero so the
// ratio stays defined for any temperature.
type EnergyDrift struct {
	name     string
	geom     *tes.Geometry
	previous float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(g *tes.Geometry) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		geom: g,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, in dynamo.Signals, t float64) {
	if len(x) != e.geom.Layers {
		return
	}
	energy := e.geom.Energy(x, 0)

	if e.samples > 0 && e.previous != 0 {
		drift := math.Abs(energy-e.previous) / math.Abs(e.previous)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
	e.previous = energy
	e.samples++
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.previous = 0
	e.maxDrift = 0
	e.samples = 0
}
