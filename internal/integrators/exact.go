package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/tanksim/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// DefaultTolerance bounds the uniform-equilibrium residual of a discretized step.
const DefaultTolerance = 1e-6

// Exact discretizes the LTI system with Van Loan's block exponential
//
//	exp([[A·dt, B·dt], [0, 0]]) = [[Ad, Bd], [0, I]]
//
// and advances x' = Ad·x + Bd·u. The result is exact for inputs held
// constant over the step, however stiff A is.
type Exact struct {
	Tolerance float64
}

func NewExact() *Exact {
	return &Exact{Tolerance: DefaultTolerance}
}

func (e *Exact) Name() string { return "exact" }

// Discretize returns the discrete transition matrix Ad and input matrix Bd.
func (e *Exact) Discretize(sys *dynamo.LTI, dt float64) (*mat.Dense, *mat.Dense, error) {
	n, m := sys.Dims()
	size := n + m

	aug := mat.NewDense(size, size, nil)
	aug.Slice(0, n, 0, n).(*mat.Dense).Scale(dt, sys.A)
	aug.Slice(0, n, n, size).(*mat.Dense).Scale(dt, sys.B)

	// Exp picks its squaring count from the 1-norm.
	if norm := mat.Norm(aug, 1); math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, nil, fmt.Errorf("%w: augmented matrix norm %g", dynamo.ErrIllConditioned, norm)
	}

	var res mat.Dense
	res.Exp(aug)

	ad := mat.DenseCopyOf(res.Slice(0, n, 0, n))
	bd := mat.DenseCopyOf(res.Slice(0, n, n, size))
	return ad, bd, nil
}

func (e *Exact) Advance(sys *dynamo.LTI, x dynamo.State, dt float64) (dynamo.State, error) {
	n, m := sys.Dims()
	if len(x) != n || sys.U.Len() != m {
		return nil, fmt.Errorf("%w: state %d, system %dx%d, input %d", dynamo.ErrDimensionMismatch, len(x), n, m, sys.U.Len())
	}
	if dt < 0 {
		return nil, fmt.Errorf("%w: negative step %g", dynamo.ErrConfiguration, dt)
	}

	ad, bd, err := e.Discretize(sys, dt)
	if err != nil {
		return nil, err
	}
	if err := e.check(ad, bd, sys.Uniform); err != nil {
		return nil, err
	}

	next := mat.NewVecDense(n, nil)
	next.MulVec(ad, mat.NewVecDense(n, x.Clone()))
	bu := mat.NewVecDense(n, nil)
	bu.MulVec(bd, sys.U)
	next.AddVec(next, bu)

	out := dynamo.State(next.RawVector().Data)
	if !out.IsValid() {
		return nil, fmt.Errorf("%w: non-finite state after step", dynamo.ErrIllConditioned)
	}
	return out, nil
}

func (e *Exact) check(ad, bd *mat.Dense, uniform *mat.VecDense) error {
	if !finite(ad) || !finite(bd) {
		return fmt.Errorf("%w: non-finite transition matrix", dynamo.ErrIllConditioned)
	}
	if uniform == nil {
		return nil
	}

	n, _ := ad.Dims()
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	r := mat.NewVecDense(n, nil)
	r.MulVec(ad, mat.NewVecDense(n, ones))
	bw := mat.NewVecDense(n, nil)
	bw.MulVec(bd, uniform)
	r.AddVec(r, bw)

	tol := e.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	for i := 0; i < n; i++ {
		if res := math.Abs(r.AtVec(i) - 1); !(res <= tol) {
			return fmt.Errorf("%w: uniform-equilibrium residual %.3g on layer %d exceeds %.3g", dynamo.ErrIllConditioned, res, i, tol)
		}
	}
	return nil
}

func finite(m *mat.Dense) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
