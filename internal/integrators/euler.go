package integrators

import (
	"fmt"

	"github.com/san-kum/tanksim/internal/dynamo"
)

// Euler is the explicit forward Euler scheme with fixed substeps.
type Euler struct {
	Substeps int
}

func NewEuler(substeps int) *Euler {
	if substeps < 1 {
		substeps = 1
	}
	return &Euler{Substeps: substeps}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Advance(sys *dynamo.LTI, x dynamo.State, dt float64) (dynamo.State, error) {
	n, _ := sys.Dims()
	if len(x) != n {
		return nil, fmt.Errorf("%w: state %d, system %d", dynamo.ErrDimensionMismatch, len(x), n)
	}

	h := dt / float64(e.Substeps)
	result := x.Clone()
	for s := 0; s < e.Substeps; s++ {
		dx := sys.Derive(result)
		for i := range result {
			result[i] += h * dx[i]
		}
	}

	if !result.IsValid() {
		return nil, fmt.Errorf("%w: euler diverged (%d substeps)", dynamo.ErrIllConditioned, e.Substeps)
	}
	return result, nil
}
