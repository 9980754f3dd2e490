package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/sentinel/internal/ai"
	"github.com/udisondev/sentinel/internal/config"
	"github.com/udisondev/sentinel/internal/db"
	"github.com/udisondev/sentinel/internal/mission"
	"github.com/udisondev/sentinel/internal/sim"
	"github.com/udisondev/sentinel/internal/view"
)

const (
	// ViewLogPath receives logs while the terminal viewer owns stdout.
	ViewLogPath = "sentinel.log"

	viewFPS         = 30
	shutdownTimeout = 5 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := config.Path()
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	var logOut io.Writer = os.Stdout
	if cfg.View {
		f, err := os.OpenFile(ViewLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Enable AI debug logging if log level is debug
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	runID := uuid.New()
	slog.Info("sentinel starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"run", runID,
		"seed", cfg.Seed)

	// Connect to database (optional)
	store, err := db.Open(ctx, cfg.Database)
	switch {
	case errors.Is(err, db.ErrDisabled):
		slog.Info("defeat ledger disabled")
	case err != nil:
		return fmt.Errorf("opening database: %w", err)
	default:
		defer store.Close()
		if err := store.StartRun(ctx, runID, cfg.Seed); err != nil {
			return fmt.Errorf("starting run: %w", err)
		}
		slog.Info("database connected", "driver", cfg.Database.Driver)
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	counter := mission.NewCounter(cfg.Mission.Required, cfg.Mission.Kind)
	sinks := mission.Fanout{counter}

	var ledger *mission.Ledger
	if store != nil {
		ledger = mission.NewLedger(store, runID, 0)
		sinks = append(sinks, ledger)
	}

	s, err := sim.New(runCtx, cfg, sinks)
	if err != nil {
		return fmt.Errorf("creating simulation: %w", err)
	}
	if cfg.Mission.StopOnComplete {
		counter.SetOnComplete(s.Stop)
	}

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		// the run is over once the simulation stops
		defer stop()
		if err := s.Run(gctx); err != nil {
			return fmt.Errorf("simulation: %w", err)
		}
		return nil
	})

	if ledger != nil {
		g.Go(func() error {
			return ledger.Run(gctx)
		})
	}

	g.Go(func() error {
		if err := config.Watch(gctx, cfgPath, s.ApplyConfig); err != nil {
			slog.Warn("config hot reload disabled", "error", err)
		}
		return nil
	})

	if cfg.View {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("creating screen: %w", err)
		}
		g.Go(func() error {
			defer stop()
			if err := view.New(screen, s, viewFPS).Run(gctx); err != nil {
				return fmt.Errorf("viewer: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if store != nil {
		finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := store.FinishRun(finishCtx, runID, s.Defeats()); err != nil {
			slog.Error("failed to finish run", "run", runID, "error", err)
		}
	}

	summary := []any{
		"run", runID,
		"simulated", s.Now().Truncate(time.Millisecond),
		"ticks", humanize.Comma(int64(s.Snapshot().Tick)),
		"defeats", humanize.Comma(int64(s.Defeats())),
		"agents_alive", s.Snapshot().Alive(),
		"target_health", s.Target().Health().Current(),
	}
	if counter.Required() > 0 {
		summary = append(summary,
			"mission", fmt.Sprintf("%d/%d", counter.Count(), counter.Required()),
			"mission_complete", counter.Completed())
	}
	if ledger != nil {
		summary = append(summary,
			"ledger_saved", humanize.Comma(ledger.Saved()),
			"ledger_dropped", ledger.Dropped(),
			"ledger_failed", ledger.Failed())
	}
	slog.Info("sentinel stopped", summary...)
	return nil
}
