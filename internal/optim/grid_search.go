package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/experiment"
)

// Constraint rejects a grid point by its run metrics.
type Constraint func(metrics map[string]float64) bool

// MinMetric accepts points whose metric is at least min.
func MinMetric(name string, min float64) Constraint {
	return func(m map[string]float64) bool { return m[name] >= min }
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs base with every combination of the grid values and returns
// the combination minimizing metricName among points passing all
// constraints. A failing run aborts the search.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	registry *experiment.Registry,
	metricName string,
	constraints ...Constraint,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid search: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, registry, metricName, constraints, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("grid search: no point satisfies the constraints")
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	registry *experiment.Registry,
	metricName string,
	constraints []Constraint,
	best *float64,
	bestParams *map[string]float64,
) error {
	if depth == len(g.paramNames) {
		cfg := base.Clone()
		for k, v := range current {
			if err := cfg.SetParam(k, v); err != nil {
				return err
			}
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return fmt.Errorf("%v: %w", current, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return fmt.Errorf("%v: %w", current, err)
		}

		for _, ok := range constraints {
			if !ok(result.Metrics) {
				return nil
			}
		}

		val, found := result.Metrics[metricName]
		if !found {
			return fmt.Errorf("grid search: unknown metric %q", metricName)
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, registry, metricName, constraints, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}
