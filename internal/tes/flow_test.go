package tes

import (
	"testing"

	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFlowNetwork(t *testing.T) {
	tests := []struct {
		name     string
		inlet    []float64
		outlet   []float64
		down, up []float64
	}{
		{
			name:   "no flow",
			inlet:  []float64{0, 0, 0},
			outlet: []float64{0, 0, 0},
			down:   []float64{0, 0},
			up:     []float64{0, 0},
		},
		{
			name:   "charging from the top",
			inlet:  []float64{5, 0, 0},
			outlet: []float64{0, 0, 5},
			down:   []float64{5, 5},
			up:     []float64{0, 0},
		},
		{
			name:   "draw from the top",
			inlet:  []float64{0, 0, 0, 0.1},
			outlet: []float64{0.1, 0, 0, 0},
			down:   []float64{0, 0, 0},
			up:     []float64{0.1, 0.1, 0.1},
		},
		{
			name:   "charging and draw",
			inlet:  []float64{5, 0, 3},
			outlet: []float64{3, 0, 5},
			down:   []float64{2, 2},
			up:     []float64{0, 0},
		},
		{
			name:   "middle injection splits",
			inlet:  []float64{0, 4, 0},
			outlet: []float64{1, 0, 3},
			down:   []float64{0, 3},
			up:     []float64{1, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := BuildFlowNetwork(tt.inlet, tt.outlet)
			require.NoError(t, err)
			assert.Equal(t, tt.down, f.Down)
			assert.Equal(t, tt.up, f.Up)

			for i := range f.Down {
				assert.False(t, f.Down[i] != 0 && f.Up[i] != 0, "interface %d carries flow both ways", i)
			}
		})
	}
}

func TestBuildFlowNetworkLeaving(t *testing.T) {
	f, err := BuildFlowNetwork([]float64{0, 4, 0}, []float64{1, 0, 3})
	require.NoError(t, err)

	assert.Equal(t, 0.0, f.Leaving(0))
	assert.Equal(t, 4.0, f.Leaving(1))
	assert.Equal(t, 0.0, f.Leaving(2))
}

func TestBuildFlowNetworkErrors(t *testing.T) {
	tests := []struct {
		name   string
		inlet  []float64
		outlet []float64
		want   error
	}{
		{"unbalanced", []float64{1, 0, 0}, []float64{0, 0, 0.5}, dynamo.ErrMassBalance},
		{"negative flow", []float64{-1, 0, 0}, []float64{0, 0, -1}, dynamo.ErrInvalidState},
		{"length mismatch", []float64{0, 0, 0}, []float64{0, 0}, dynamo.ErrDimensionMismatch},
		{"single layer", []float64{0}, []float64{0}, dynamo.ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildFlowNetwork(tt.inlet, tt.outlet)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
