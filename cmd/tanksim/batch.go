package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/tanksim/internal/automation"
	"github.com/san-kum/tanksim/internal/experiment"
	"github.com/san-kum/tanksim/internal/optim"
)

var (
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	workers    int

	grid       []string
	objective  string
	minComfort float64

	trials int
	spread float64
	seed   int64
)

func batchCommands() []*cobra.Command {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "sweep one parameter over a range",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "u", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.2, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.5, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = unlimited)")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [model]",
		Short: "grid search minimizing a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOptimize,
	}
	addConfigFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&grid, "grid", nil, "grid axis name=v1,v2,... (repeatable)")
	optimizeCmd.Flags().StringVar(&objective, "metric", "heater_energy", "metric to minimize")
	optimizeCmd.Flags().Float64Var(&minComfort, "min-comfort", 1, "minimum comfort of accepted points")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "run randomized hot-water demand trials",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addConfigFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&spread, "spread", 0.3, "relative spread of draw flows")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	monteCarloCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = unlimited)")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same run",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addConfigFlags(compareCmd)

	return []*cobra.Command{scenarioCmd, sweepCmd, optimizeCmd, monteCarloCmd, compareCmd}
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", scenario.Name, len(results))
	for _, r := range results {
		id := r.Name
		if !noSave {
			st, err := openStore()
			if err != nil {
				return err
			}
			if id, err = st.Save(r.Name, r.Config, r.Result); err != nil {
				return err
			}
		}
		fmt.Printf("\n== %s (%s, %s)\n", id, r.Config.Model, r.Config.Controller)
		printMetrics(r.Result.Metrics)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Workers:   workers,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tTOP °C\tBOTTOM °C\tSTORED kWh\tCOMFORT\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.2f\t%.2f\t%.3f\t%.3f\n",
			r.ParamValue, r.FinalTemps[0], r.FinalTemps[len(r.FinalTemps)-1],
			r.Metrics["stored_energy"], r.Metrics["comfort"])
	}
	return w.Flush()
}

// parseGrid reads "name=v1,v2,..." axes.
func parseGrid(axes []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(axes))
	ranges := make([][]float64, 0, len(axes))
	for _, axis := range axes {
		name, list, ok := strings.Cut(axis, "=")
		if !ok {
			return nil, nil, fmt.Errorf("grid axis %q: want name=v1,v2,...", axis)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid axis %q: %w", axis, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(grid) == 0 {
		grid = []string{"setpoint=45,50,55,60"}
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	best, value, err := optim.NewGridSearch(names, ranges).Search(ctx, cfg, experiment.NewRegistry(),
		objective, optim.MinMetric("comfort", minComfort))
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6f\n", objective, value)
	for _, n := range names {
		fmt.Printf("  %s = %g\n", n, best[n])
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: spread,
		NumTrials:    trials,
		Seed:         seed,
		Workers:      workers,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	comfort := make([]float64, len(results))
	for i, r := range results {
		comfort[i] = r.Comfort
	}
	ok, short := automation.MonteCarloStats(results)

	fmt.Printf("trials: %d  satisfied: %d  short: %d\n", len(results), ok, short)
	if len(comfort) > 0 {
		fmt.Printf("comfort min %.3f  mean %.3f  max %.3f\n",
			floats.Min(comfort), floats.Sum(comfort)/float64(len(comfort)), floats.Max(comfort))
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[:1])
	if err != nil {
		return err
	}
	names := args[1:]
	registry := experiment.NewRegistry()

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("comparing integrators on %s (dt=%gs, %gs)\n\n", cfg.Model, cfg.Dt, cfg.Duration)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tTIME\tTOP °C\tBOTTOM °C\tMAX |ΔT| vs first")

	var reference []float64
	for _, name := range names {
		c := cfg.Clone()
		c.Integrator = name

		exp := experiment.New(c)
		if err := exp.Setup(registry); err != nil {
			return err
		}
		start := time.Now()
		result, err := exp.Run(ctx)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t%v\n", name, err)
			continue
		}
		elapsed := time.Since(start)

		final := result.Final().Celsius()
		diff := 0.0
		if reference == nil {
			reference = final
		} else {
			diff = floats.Distance(final, reference, math.Inf(1))
		}
		fmt.Fprintf(w, "%s\t%v\t%.3f\t%.3f\t%.2e\n",
			name, elapsed.Round(time.Microsecond), final[0], final[len(final)-1], diff)
	}
	return w.Flush()
}
