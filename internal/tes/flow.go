package tes

import (
	"fmt"
	"math"

	"github.com/san-kum/tanksim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// FlowNetwork holds the mass flow across each of the N-1 layer interfaces.
// Down[i] flows from layer i into layer i+1, Up[i] from layer i+1 into layer i.
// At most one of the two is nonzero per interface.
type FlowNetwork struct {
	Down []float64
	Up   []float64
}

// BuildFlowNetwork resolves per-layer boundary flows (kg/s) into inter-layer
// flows with a single top-to-bottom pass.
func BuildFlowNetwork(inlet, outlet []float64) (FlowNetwork, error) {
	n := len(inlet)
	if n < 2 || len(outlet) != n {
		return FlowNetwork{}, fmt.Errorf("%w: %d inlet flows, %d outlet flows", dynamo.ErrDimensionMismatch, len(inlet), len(outlet))
	}
	for i := 0; i < n; i++ {
		if !nonNegative(inlet[i]) || !nonNegative(outlet[i]) {
			return FlowNetwork{}, fmt.Errorf("%w: layer %d flows in=%g out=%g", dynamo.ErrInvalidState, i, inlet[i], outlet[i])
		}
	}
	if in, out := floats.Sum(inlet), floats.Sum(outlet); in != out {
		return FlowNetwork{}, fmt.Errorf("%w: in=%g kg/s out=%g kg/s", dynamo.ErrMassBalance, in, out)
	}

	f := FlowNetwork{
		Down: make([]float64, n-1),
		Up:   make([]float64, n-1),
	}
	f.set(0, inlet[0]-outlet[0])
	for i := 1; i < n-1; i++ {
		f.set(i, inlet[i]-outlet[i]+f.Down[i-1]-f.Up[i-1])
	}
	return f, nil
}

func (f FlowNetwork) set(i int, net float64) {
	switch {
	case net > 0:
		f.Down[i] = net
	case net < 0:
		f.Up[i] = -net
	}
}

// Leaving is the flow leaving layer n towards its neighbours.
func (f FlowNetwork) Leaving(n int) float64 {
	out := 0.0
	if n < len(f.Down) {
		out += f.Down[n]
	}
	if n > 0 {
		out += f.Up[n-1]
	}
	return out
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
