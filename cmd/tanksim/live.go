package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/experiment"
	"github.com/san-kum/tanksim/internal/sim"
	"github.com/san-kum/tanksim/internal/viz"
	"github.com/san-kum/tanksim/internal/ws"
)

var (
	theme string

	addr     string
	pace     time.Duration
	every    int
	loopRuns bool
)

func liveCommand() *cobra.Command {
	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "interactive terminal view of a running tank",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "thermal", "colour theme")
	return liveCmd
}

func serveCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve [model]",
		Short: "stream a run to websocket clients",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	addConfigFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().DurationVar(&pace, "pace", 20*time.Millisecond, "wall time per broadcast step")
	serveCmd.Flags().IntVar(&every, "every", 1, "broadcast every n-th step")
	serveCmd.Flags().BoolVar(&loopRuns, "loop", false, "restart the run when it finishes")
	return serveCmd
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	viz.SetTheme(theme)

	registry := experiment.NewRegistry()
	build := func() (*sim.Simulator, viz.Tank, error) {
		exp := experiment.New(cfg.Clone())
		if err := exp.Setup(registry); err != nil {
			return nil, nil, err
		}
		return exp.GetSimulator(), exp.Model(), nil
	}

	m, err := viz.NewModel(cfg.Model, cfg.Dt, build)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	hub := ws.NewHub()
	mux := http.NewServeMux()
	mux.Handle("/ws", ws.NewHandler(hub, ws.RunInfoPayload{
		Model:      cfg.Model,
		Controller: cfg.Controller,
		Integrator: cfg.Integrator,
		Layers:     cfg.Tank.Layers,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
	}))
	srv := &http.Server{Addr: addr, Handler: mux}

	ctx, cancel := signalContext()
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("addr", addr).Info("serving websocket on /ws")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		hub.Close()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		registry := experiment.NewRegistry()
		for {
			if err := streamRun(ctx, cfg, registry, hub); err != nil {
				return err
			}
			if !loopRuns || ctx.Err() != nil {
				return nil
			}
		}
	})

	fmt.Printf("streaming %s on ws://%s/ws (Ctrl-C to stop)\n", cfg.Model, addr)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// streamRun runs one simulation with every step broadcast to the hub.
func streamRun(ctx context.Context, cfg *config.Config, registry *experiment.Registry, hub *ws.Hub) error {
	exp := experiment.New(cfg.Clone())
	if err := exp.Setup(registry); err != nil {
		return err
	}

	bridge := ws.NewBridge(hub)
	bridge.Every = every
	bridge.Pace = pace
	exp.GetSimulator().AddObserver(bridge)

	result, err := exp.Run(ctx)
	bridge.Done(result, err)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
