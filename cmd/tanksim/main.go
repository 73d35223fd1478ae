package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/experiment"
	"github.com/san-kum/tanksim/internal/export"
	"github.com/san-kum/tanksim/internal/integrators"
	"github.com/san-kum/tanksim/internal/storage"
	"github.com/san-kum/tanksim/internal/tui"
	"github.com/san-kum/tanksim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool

	dt         float64
	duration   float64
	integrator string
	controller string
	configFile string
	preset     string
	overrides  []string

	watch     bool
	frameRate int
	noSave    bool
	outFile   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "tanksim",
		Short:         "stratified thermal storage tank simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel, logJSON)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".tanksim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw the tank while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 20, "frame rate of --watch")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot layer temperatures of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a stored run as an SVG heatmap",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models := config.Models()
			if len(args) == 1 {
				models = args[:1]
			}
			for _, m := range models {
				presets := config.ListPresets(m)
				if len(presets) == 0 {
					fmt.Printf("no presets for model: %s\n", m)
					continue
				}
				fmt.Printf("presets for %s:\n", m)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models, controllers and integrators",
		Run: func(cmd *cobra.Command, args []string) {
			r := experiment.NewRegistry()
			fmt.Printf("models:      %s\n", strings.Join(r.ListModels(), ", "))
			fmt.Printf("controllers: %s\n", strings.Join(r.ListControllers(), ", "))
			fmt.Printf("integrators: %s\n", strings.Join(integrators.Names(), ", "))
			fmt.Printf("parameters:  %s\n", strings.Join(config.ParamNames, ", "))
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, modelsCmd)
	rootCmd.AddCommand(batchCommands()...)
	rootCmd.AddCommand(liveCommand(), serveCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging(level string, json bool) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
	if json {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// addConfigFlags registers the flags every simulating command accepts.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file (yaml or ini)")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().StringVar(&integrator, "integrator", "exact", "integrator")
	cmd.Flags().StringVar(&controller, "controller", "", "controller")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "parameter override name=value (repeatable)")
}

// resolveConfig builds the run configuration from, in order, the config
// file or preset or model defaults, then the flags the user set.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	model := config.ModelDHWH
	if len(args) > 0 {
		model = args[0]
	}

	var (
		cfg *config.Config
		err error
	)
	switch {
	case configFile != "":
		cfg, err = config.Load(configFile)
	case preset != "":
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			err = fmt.Errorf("unknown preset %q for model %s (see: tanksim presets %s)", preset, model, model)
		}
	default:
		cfg, err = config.ForModel(model)
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("controller") {
		cfg.Controller = controller
	}
	for _, o := range overrides {
		name, value, err := parseOverride(o)
		if err != nil {
			return nil, err
		}
		if err := cfg.SetParam(name, value); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func parseOverride(s string) (string, float64, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf("override %q: want name=value", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("override %q: %w", s, err)
	}
	return strings.TrimSpace(name), v, nil
}

// signalContext is canceled on Ctrl-C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry); err != nil {
		return err
	}

	if watch {
		r := tui.NewLiveRenderer(os.Stdout, cfg.Model, exp.Model(), frameRate)
		r.Start()
		defer r.Stop()
		exp.GetSimulator().AddObserver(r)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s simulation...\n", cfg.Model)
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)

	if !noSave {
		st, err := openStore()
		if err != nil {
			return err
		}
		runID, err := st.Save("", cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	printTemps(result.Final().Celsius())
	printMetrics(result.Metrics)
	return nil
}

func printTemps(temps []float64) {
	fmt.Println("\nfinal temperatures:")
	for i, v := range temps {
		fmt.Printf("  T_%-3d %6.2f °C\n", i, v)
	}
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %-16s %.6f\n", name, metrics[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tCONTROLLER\tLAYERS\tSTEPS\tTIMESTAMP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID, run.Model, run.Controller, run.Layers, run.Steps,
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("run %s has no states", args[0])
	}

	layers := viz.DefaultLayers(meta.Layers)
	fmt.Printf("%s  %s  %.0fs\n\n", meta.ID, meta.Model, times[len(times)-1])
	fmt.Println(viz.PlotLayers(states, layers, 15, 70, viz.LayerCaption(layers)))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	w := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return st.ExportStored(w, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	svg := export.HeatmapSVG(states, 2, 12)
	if svg == "" {
		return fmt.Errorf("run %s has no states", args[0])
	}

	path := outFile
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
