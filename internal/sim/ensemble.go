package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent simulators in parallel, e.g. one water heater per
// apartment. Instances share no state.
type Ensemble struct {
	build   func(idx int) (*Simulator, error)
	numRuns int
	limit   int
}

func NewEnsemble(numRuns int, build func(idx int) (*Simulator, error)) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, limit: runtime.NumCPU()}
}

// SetLimit caps the number of concurrently running instances.
func (e *Ensemble) SetLimit(n int) {
	if n > 0 {
		e.limit = n
	}
}

// Run executes all instances. The first failure cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			s, err := e.build(idx)
			if err != nil {
				return fmt.Errorf("instance %d: %w", idx, err)
			}
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("instance %d: %w", idx, err)
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
