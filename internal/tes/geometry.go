package tes

import (
	"math"

	"github.com/san-kum/tanksim/internal/dynamo"
)

const (
	// DefaultKLow is the still-water conductivity of the generic tank in
	// W/(m K). Stably stratified layers of the generic tank exchange no heat.
	DefaultKLow = 0.0
	// DefaultKHigh approximates instantaneous buoyant mixing in W/(m K).
	DefaultKHigh = 999999.0
)

// Params are the physical construction parameters of a tank.
type Params struct {
	Volume       float64 // m³
	Diameter     float64 // inner diameter, mm
	Layers       int
	U            float64 // overall loss coefficient, W/(m² K)
	KLow         float64 // W/(m K)
	KHigh        float64 // W/(m K)
	HeaterPower  float64 // nominal electrical power, W
	HeaterHeight float64 // mm, measured from the bottom
}

// Geometry holds the per-layer constants derived from Params.
type Geometry struct {
	Layers       int
	Height       float64 // tank height, mm
	LayerHeight  float64 // x_l, m
	Area         float64 // inner cross-section A_l, m²
	LayerMass    float64 // kg
	Cp           float64 // J/(kg K)
	C            []float64
	UA           []float64
	HeaterLayers int
	HeaterPower  []float64
}

// NewGeometry validates p and derives the layer constants.
func NewGeometry(p Params) (*Geometry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.Layers
	d := p.Diameter
	cp := dynamo.SpecificHeatWater

	g := &Geometry{
		Layers:    n,
		Area:      math.Pi * (d / 1000) * (d / 1000) / 4,
		Height:    p.Volume * 1e9 / (math.Pi * d * d / 4),
		LayerMass: p.Volume * 1000 / float64(n),
		Cp:        cp,
		C:         make([]float64, n),
		UA:        make([]float64, n),
	}
	g.LayerHeight = g.Height / (float64(n) * 1000)

	mantle := math.Pi * d * g.Height / float64(n)
	endCap := d * d / 4 * math.Pi
	uaMiddle := p.U * mantle / 1e6
	uaOuter := p.U * (mantle + endCap) / 1e6

	for i := 0; i < n; i++ {
		g.C[i] = g.LayerMass * cp
		g.UA[i] = uaMiddle
	}
	g.UA[0] = uaOuter
	g.UA[n-1] = uaOuter

	g.HeaterLayers = int(math.Ceil(p.HeaterHeight / (g.Height / float64(n))))
	if g.HeaterLayers > n {
		g.HeaterLayers = n
	}
	g.HeaterPower = make([]float64, n)
	if g.HeaterLayers > 0 {
		share := p.HeaterPower / float64(g.HeaterLayers)
		for i := n - g.HeaterLayers; i < n; i++ {
			g.HeaterPower[i] = share
		}
	}

	return g, nil
}

// ThermalWell is the layer where the heating element ends, counted from the
// bottom. Without a heater it is the bottom layer.
func (g *Geometry) ThermalWell() int {
	if g.HeaterLayers == 0 {
		return g.Layers - 1
	}
	return g.Layers - g.HeaterLayers
}

// Energy returns the heat stored above the reference temperature in J.
func (g *Geometry) Energy(x dynamo.State, reference float64) float64 {
	e := 0.0
	for i, t := range x {
		e += g.C[i] * (t - reference)
	}
	return e
}

// Validate fails fast on physically meaningless parameters.
func (p Params) Validate() error {
	positive := []struct {
		field string
		value float64
	}{
		{"volume", p.Volume},
		{"diameter", p.Diameter},
		{"u", p.U},
		{"k_high", p.KHigh},
	}
	for _, f := range positive {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value <= 0 {
			return &dynamo.ConfigError{Field: f.field, Value: f.value, Reason: "must be positive and finite"}
		}
	}
	if math.IsNaN(p.KLow) || math.IsInf(p.KLow, 0) || p.KLow < 0 {
		return &dynamo.ConfigError{Field: "k_low", Value: p.KLow, Reason: "must be non-negative and finite"}
	}

	if p.Layers < 2 {
		return &dynamo.ConfigError{Field: "layers", Value: p.Layers, Reason: "need at least 2 layers"}
	}
	if p.KHigh < p.KLow {
		return &dynamo.ConfigError{Field: "k_high", Value: p.KHigh, Reason: "must not be below k_low"}
	}
	if math.IsNaN(p.HeaterPower) || math.IsInf(p.HeaterPower, 0) || p.HeaterPower < 0 {
		return &dynamo.ConfigError{Field: "heater_power", Value: p.HeaterPower, Reason: "must be non-negative"}
	}
	if math.IsNaN(p.HeaterHeight) || math.IsInf(p.HeaterHeight, 0) || p.HeaterHeight < 0 {
		return &dynamo.ConfigError{Field: "heater_height", Value: p.HeaterHeight, Reason: "must be non-negative"}
	}
	return nil
}
