package tes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAssembleStructure(t *testing.T) {
	g, err := NewGeometry(heaterParams())
	require.NoError(t, err)
	n := g.Layers

	bc := NewBoundaryCondition(n, 283.15)
	bc.InletFlow[n-1] = 0.1
	bc.InletTemp[n-1] = 283.15
	bc.OutletFlow[0] = 0.1
	bc.HeaterOn = true

	flow, err := BuildFlowNetwork(bc.InletFlow, bc.OutletFlow)
	require.NoError(t, err)
	prev := make([]float64, n)
	for i := range prev {
		prev[i] = 313.15 - float64(i)
	}
	prev[8] = 330
	k := SwitchConductivity(prev, 8.2, DefaultKHigh)

	sys := Assemble(g, flow, k, bc)
	rows, cols := sys.A.Dims()
	require.Equal(t, n, rows)
	require.Equal(t, n, cols)
	_, m := sys.B.Dims()
	require.Equal(t, n+2, m)
	require.Equal(t, n+2, sys.U.Len())

	t.Run("tri-diagonal", func(t *testing.T) {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if d := i - j; d > 1 || d < -1 {
					assert.Zero(t, sys.A.At(i, j), "A[%d,%d]", i, j)
				}
			}
		}
	})

	t.Run("input vector", func(t *testing.T) {
		assert.Equal(t, 283.15, sys.U.AtVec(0))
		assert.InDelta(t, 0.1*283.15, sys.U.AtVec(n), 1e-12)
		assert.Zero(t, sys.U.AtVec(1))
		assert.Equal(t, 1.0, sys.U.AtVec(n+1))
	})

	t.Run("heater column", func(t *testing.T) {
		for i := 0; i < n; i++ {
			assert.InDelta(t, g.HeaterPower[i]/g.C[i], sys.B.At(i, n+1), 1e-15)
		}
	})

	t.Run("convective interface", func(t *testing.T) {
		// prev[7] < prev[8], so interface 7 mixes.
		cond := DefaultKHigh * g.Area / (g.LayerHeight * g.C[8])
		assert.InDelta(t, cond+flow.Down[7]*g.Cp/g.C[8], sys.A.At(8, 7), 1e-9)
	})

	t.Run("uniform equilibrium", func(t *testing.T) {
		ones := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			ones.SetVec(i, 1)
		}
		r := mat.NewVecDense(n, nil)
		r.MulVec(sys.A, ones)
		bw := mat.NewVecDense(n, nil)
		bw.MulVec(sys.B, sys.Uniform)
		r.AddVec(r, bw)
		for i := 0; i < n; i++ {
			assert.InDelta(t, 0, r.AtVec(i), 1e-9*math.Abs(sys.A.At(i, i))+1e-15, "row %d", i)
		}
	})
}

func TestAssembleDiagonalDominance(t *testing.T) {
	g, err := NewGeometry(genericParams())
	require.NoError(t, err)

	bc := NewBoundaryCondition(3, 293.15)
	flow, err := BuildFlowNetwork(bc.InletFlow, bc.OutletFlow)
	require.NoError(t, err)

	sys := Assemble(g, flow, SwitchConductivity([]float64{1, 1, 1}, 0.6, DefaultKHigh), bc)
	for i := 0; i < 3; i++ {
		assert.Less(t, sys.A.At(i, i), 0.0)
		off := 0.0
		for j := 0; j < 3; j++ {
			if j != i {
				off += sys.A.At(i, j)
			}
		}
		// the ambient loss makes every row strictly dominant
		assert.Greater(t, -sys.A.At(i, i), off)
	}
}
