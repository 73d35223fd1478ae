package dynamo

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// State holds one absolute temperature per layer, top layer first.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Inverted reports whether any layer is cooler than the layer below it.
func (s State) Inverted() bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] < s[i] {
			return true
		}
	}
	return false
}

// LTI is the continuous-time system dX/dt = A·X + B·U held constant over one step.
//
// Uniform, when set, is an input vector under which a state of all ones is an
// equilibrium (A·1 + B·Uniform = 0). Integrators use it to check that the
// discretized system still preserves that equilibrium.
type LTI struct {
	A       *mat.Dense
	B       *mat.Dense
	U       *mat.VecDense
	Uniform *mat.VecDense
}

// Dims returns the state and input dimensions.
func (l *LTI) Dims() (n, m int) {
	n, _ = l.A.Dims()
	_, m = l.B.Dims()
	return n, m
}

// Derive evaluates A·x + B·u.
func (l *LTI) Derive(x State) State {
	n, _ := l.Dims()
	dx := mat.NewVecDense(n, nil)
	dx.MulVec(l.A, mat.NewVecDense(n, x.Clone()))
	bu := mat.NewVecDense(n, nil)
	bu.MulVec(l.B, l.U)
	dx.AddVec(dx, bu)
	return State(dx.RawVector().Data)
}

// Integrator advances an LTI system by dt seconds from x.
type Integrator interface {
	Name() string
	Advance(sys *LTI, x State, dt float64) (State, error)
}

// Signals maps port names to values.
type Signals map[string]float64

func (s Signals) Clone() Signals {
	c := make(Signals, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Keys returns the port names in sorted order.
func (s Signals) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Require returns the named value or ErrUnknownInput.
func (s Signals) Require(name string) (float64, error) {
	v, ok := s[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownInput, name)
	}
	return v, nil
}

// Component is a named-port model advanced once per simulation step.
type Component interface {
	Name() string
	Inputs() []string
	Outputs() []string
	Step(t float64, in Signals) (Signals, error)
	State() State
}

type Controller interface {
	Compute(out Signals, t float64) Signals
}

type Metric interface {
	Name() string
	Observe(x State, in Signals, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, in, out Signals, t float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
