package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// newtonCooling is dx/dt = -a·(x - T_amb) written as an LTI system.
func newtonCooling(a, ambient float64) *dynamo.LTI {
	return &dynamo.LTI{
		A:       mat.NewDense(1, 1, []float64{-a}),
		B:       mat.NewDense(1, 1, []float64{a}),
		U:       mat.NewVecDense(1, []float64{ambient}),
		Uniform: mat.NewVecDense(1, []float64{1}),
	}
}

// twoLayer couples two masses with conductance g and no external input.
func twoLayer(g float64) *dynamo.LTI {
	return &dynamo.LTI{
		A:       mat.NewDense(2, 2, []float64{-g, g, g, -g}),
		B:       mat.NewDense(2, 1, []float64{0, 0}),
		U:       mat.NewVecDense(1, []float64{0}),
		Uniform: mat.NewVecDense(1, []float64{0}),
	}
}

func TestExactMatchesAnalyticDecay(t *testing.T) {
	sys := newtonCooling(0.01, 280)
	integ := NewExact()

	x, err := integ.Advance(sys, dynamo.State{300}, 60)
	require.NoError(t, err)

	expected := 280 + 20*math.Exp(-0.6)
	assert.InDelta(t, expected, x[0], 1e-9)
}

func TestExactZeroDurationIsIdentity(t *testing.T) {
	sys := twoLayer(5)
	integ := NewExact()

	ad, bd, err := integ.Discretize(sys, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ad.At(0, 0), 1e-12)
	assert.InDelta(t, 0.0, ad.At(0, 1), 1e-12)
	assert.InDelta(t, 0.0, bd.At(1, 0), 1e-12)

	x, err := integ.Advance(sys, dynamo.State{330, 290}, 0)
	require.NoError(t, err)
	assert.InDelta(t, 330, x[0], 1e-9)
	assert.InDelta(t, 290, x[1], 1e-9)
}

func TestExactStiffCouplingMixes(t *testing.T) {
	// g·dt = 6e4: any explicit scheme without substeps explodes here.
	sys := twoLayer(1000)
	x, err := NewExact().Advance(sys, dynamo.State{290, 330}, 60)
	require.NoError(t, err)

	assert.InDelta(t, 310, x[0], 1e-6)
	assert.InDelta(t, 310, x[1], 1e-6)
}

func TestExactRejectsBrokenEquilibrium(t *testing.T) {
	sys := newtonCooling(0.01, 280)
	sys.Uniform = mat.NewVecDense(1, []float64{2})

	_, err := NewExact().Advance(sys, dynamo.State{300}, 60)
	assert.ErrorIs(t, err, dynamo.ErrIllConditioned)
}

func TestExactRejectsNonFiniteSystem(t *testing.T) {
	sys := newtonCooling(math.Inf(1), 280)
	_, err := NewExact().Advance(sys, dynamo.State{300}, 60)
	assert.ErrorIs(t, err, dynamo.ErrIllConditioned)
}

func TestExactDimensionMismatch(t *testing.T) {
	_, err := NewExact().Advance(twoLayer(1), dynamo.State{300}, 60)
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)
}

func TestExactNegativeStep(t *testing.T) {
	_, err := NewExact().Advance(newtonCooling(0.01, 280), dynamo.State{300}, -1)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
}

func TestExplicitSchemesConvergeOnMildSystem(t *testing.T) {
	sys := newtonCooling(0.01, 280)
	expected := 280 + 20*math.Exp(-0.6)

	tests := []struct {
		name  string
		integ dynamo.Integrator
		tol   float64
	}{
		{"rk4 single step", NewRK4(1), 2e-2},
		{"rk4 substeps", NewRK4(60), 1e-9},
		{"euler substeps", NewEuler(600), 1e-2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := tt.integ.Advance(sys, dynamo.State{300}, 60)
			require.NoError(t, err)
			assert.InDelta(t, expected, x[0], tt.tol)
		})
	}
}

func TestExplicitSchemesBlowUpWhenStiff(t *testing.T) {
	sys := twoLayer(1000)
	x, err := NewEuler(1).Advance(sys, dynamo.State{290, 330}, 60)
	if err == nil {
		// finite but wildly overshooting
		assert.Greater(t, math.Abs(x[0]-310), 1e3)
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		integ, err := New(name, 4)
		require.NoError(t, err)
		assert.Equal(t, name, integ.Name())
	}

	_, err := New("leapfrog", 1)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
}

func BenchmarkExact(b *testing.B) {
	integ := NewExact()
	sys := twoLayer(1000)
	x := dynamo.State{290, 330}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = integ.Advance(sys, x, 60)
	}
}

func BenchmarkRK4(b *testing.B) {
	integ := NewRK4(100)
	sys := newtonCooling(0.01, 280)
	x := dynamo.State{300}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, _ = integ.Advance(sys, x, 60)
	}
}
