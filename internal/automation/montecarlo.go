package automation

import (
	"context"
	"math/rand"
	"time"

	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/experiment"
	"github.com/san-kum/tanksim/internal/sim"
	log "github.com/sirupsen/logrus"
)

// MonteCarloConfig defines randomized hot-water demand around a base run
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64 // relative spread of draw flows
	NumTrials    int
	Seed         int64
	Workers      int
}

// MonteCarloResult holds the outcome of one trial
type MonteCarloResult struct {
	TrialID    int
	DrawScale  float64
	FinalTemps []float64 // °C
	Comfort    float64
	Satisfied  bool // every drawn litre met the comfort temperature
}

// RunMonteCarlo executes the trials in parallel. The draw flows of each
// trial are scaled by a random factor in [1-p, 1+p].
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	scales := make([]float64, cfg.NumTrials)
	for i := range scales {
		scales[i] = 1 + (rng.Float64()-0.5)*2*cfg.Perturbation
		if scales[i] < 0 {
			scales[i] = 0
		}
	}

	ens := sim.NewEnsemble(cfg.NumTrials, func(i int) (*sim.Simulator, error) {
		c := cfg.Base.Clone()
		c.ScaleDraws(scales[i])
		exp := experiment.New(c)
		if err := exp.Setup(registry); err != nil {
			return nil, err
		}
		return exp.GetSimulator(), nil
	})
	ens.SetLimit(cfg.Workers)

	runs, err := ens.Run(ctx, sim.Config{Dt: cfg.Base.Dt, Duration: cfg.Base.Duration})
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, res := range runs {
		comfort := res.Metrics["comfort"]
		results[i] = MonteCarloResult{
			TrialID:    i,
			DrawScale:  scales[i],
			FinalTemps: res.Final().Celsius(),
			Comfort:    comfort,
			Satisfied:  comfort >= 1,
		}
	}

	log.WithField("trials", len(results)).Info("monte carlo finished")
	return results, nil
}

// MonteCarloStats counts trials with and without comfort shortfall
func MonteCarloStats(results []MonteCarloResult) (satisfied int, unsatisfied int) {
	for _, r := range results {
		if r.Satisfied {
			satisfied++
		} else {
			unsatisfied++
		}
	}
	return
}
