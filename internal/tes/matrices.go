package tes

import (
	"fmt"
	"math"

	"github.com/san-kum/tanksim/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// BoundaryCondition is the per-step forcing of the tank. Temperatures are in
// Kelvin, flows in kg/s, all slices have one entry per layer.
type BoundaryCondition struct {
	InletFlow  []float64
	InletTemp  []float64
	OutletFlow []float64
	Ambient    float64
	HeaterOn   bool
}

// NewBoundaryCondition returns an all-zero condition for n layers.
func NewBoundaryCondition(n int, ambient float64) BoundaryCondition {
	return BoundaryCondition{
		InletFlow:  make([]float64, n),
		InletTemp:  make([]float64, n),
		OutletFlow: make([]float64, n),
		Ambient:    ambient,
	}
}

func (bc BoundaryCondition) validate(n int) error {
	if len(bc.InletFlow) != n || len(bc.InletTemp) != n || len(bc.OutletFlow) != n {
		return fmt.Errorf("%w: boundary condition for %d layers, tank has %d", dynamo.ErrDimensionMismatch, len(bc.InletFlow), n)
	}
	if math.IsNaN(bc.Ambient) || math.IsInf(bc.Ambient, 0) || bc.Ambient < 0 {
		return fmt.Errorf("%w: ambient temperature %g K", dynamo.ErrInvalidState, bc.Ambient)
	}
	for i, t := range bc.InletTemp {
		if math.IsNaN(t) || math.IsInf(t, 0) || (bc.InletFlow[i] > 0 && t < 0) {
			return fmt.Errorf("%w: inlet temperature %g K on layer %d", dynamo.ErrInvalidState, t, i)
		}
	}
	return nil
}

// Assemble builds the continuous-time system for one step. The input vector is
// [T_amb, ṁ_in[0]·T_in[0], …, ṁ_in[N-1]·T_in[N-1], heater].
func Assemble(g *Geometry, flow FlowNetwork, k ConductivityProfile, bc BoundaryCondition) *dynamo.LTI {
	n := g.Layers
	m := n + 2
	cp := g.Cp

	a := mat.NewDense(n, n, nil)
	b := mat.NewDense(n, m, nil)
	u := mat.NewVecDense(m, nil)
	uniform := mat.NewVecDense(m, nil)

	for i := 0; i < n; i++ {
		c := g.C[i]
		diag := (-g.UA[i] - bc.OutletFlow[i]*cp - flow.Leaving(i)*cp) / c

		if i > 0 {
			cond := k[i-1] * g.Area / (g.LayerHeight * c)
			diag -= cond
			a.Set(i, i-1, flow.Down[i-1]*cp/c+cond)
		}
		if i < n-1 {
			cond := k[i] * g.Area / (g.LayerHeight * c)
			diag -= cond
			a.Set(i, i+1, flow.Up[i]*cp/c+cond)
		}
		a.Set(i, i, diag)

		b.Set(i, 0, g.UA[i]/c)
		b.Set(i, i+1, cp/c)
		b.Set(i, n+1, g.HeaterPower[i]/c)

		u.SetVec(i+1, bc.InletFlow[i]*bc.InletTemp[i])
		uniform.SetVec(i+1, bc.InletFlow[i])
	}

	u.SetVec(0, bc.Ambient)
	uniform.SetVec(0, 1)
	if bc.HeaterOn {
		u.SetVec(n+1, 1)
	}

	return &dynamo.LTI{A: a, B: b, U: u, Uniform: uniform}
}
