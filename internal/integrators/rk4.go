package integrators

import (
	"fmt"

	"github.com/san-kum/tanksim/internal/dynamo"
)

// RK4 integrates the LTI system with classic Runge-Kutta over Substeps equal
// sub-intervals. It is only stable while dt/Substeps stays below roughly
// 2.8/|λmax| of A, which the convective conductivity easily violates.
type RK4 struct {
	Substeps       int
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4(substeps int) *RK4 {
	if substeps < 1 {
		substeps = 1
	}
	return &RK4{Substeps: substeps}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) != n {
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Advance(sys *dynamo.LTI, x dynamo.State, dt float64) (dynamo.State, error) {
	n, _ := sys.Dims()
	if len(x) != n {
		return nil, fmt.Errorf("%w: state %d, system %d", dynamo.ErrDimensionMismatch, len(x), n)
	}
	r.ensureScratch(n)

	h := dt / float64(r.Substeps)
	cur := x.Clone()
	for s := 0; s < r.Substeps; s++ {
		r.k1 = sys.Derive(cur)

		for i := 0; i < n; i++ {
			r.scratch[i] = cur[i] + h*0.5*r.k1[i]
		}
		r.k2 = sys.Derive(r.scratch)

		for i := 0; i < n; i++ {
			r.scratch[i] = cur[i] + h*0.5*r.k2[i]
		}
		r.k3 = sys.Derive(r.scratch)

		for i := 0; i < n; i++ {
			r.scratch[i] = cur[i] + h*r.k3[i]
		}
		r.k4 = sys.Derive(r.scratch)

		h6 := h / 6.0
		for i := 0; i < n; i++ {
			cur[i] += h6 * (r.k1[i] + 2*r.k2[i] + 2*r.k3[i] + r.k4[i])
		}
	}

	if !cur.IsValid() {
		return nil, fmt.Errorf("%w: rk4 diverged (%d substeps)", dynamo.ErrIllConditioned, r.Substeps)
	}
	return cur, nil
}
