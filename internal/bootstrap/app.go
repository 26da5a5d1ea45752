// Package bootstrap handles application initialization and lifecycle management
// for the automation service.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/profiling"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

// Start initializes and runs the automation service until SIGINT or SIGTERM.
func Start() error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Profiling (optional)
	if cfg.Pprof.Enabled {
		pprofServer := profiling.NewPprofServer(cfg.Pprof.Address, log)
		pprofServer.Start()
		defer shutdown(log, "pprof server", pprofServer.Shutdown)
	}
	profiler, err := profiling.StartPyroscope(cfg.Pyroscope, cfg.Service.Name, cfg.Service.Version, log)
	if err != nil {
		log.Warn("Continuous profiling disabled", logger.Error(err))
	}
	defer func() { _ = profiler.Stop() }()

	// Phase 3: Database, Redis and services
	app, err := NewApp(cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Phase 4: Scheduler
	if cfg.Scheduler.Enabled {
		sched, schedErr := startScheduler(app)
		if schedErr != nil {
			return schedErr
		}
		defer shutdown(log, "scheduler", sched.Stop)
	}

	// Phase 5: HTTP server
	server := SetupHTTPServer(app)
	log.Info("Starting HTTP server", logger.Int("port", cfg.Service.Port))
	if runErr := server.RunContext(ctx); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}

func startScheduler(app *App) (*scheduler.Scheduler, error) {
	cfg := app.Config
	sched := scheduler.New(cfg.Scheduler.JobTimeout, app.Log.With(logger.String("component", "scheduler")))

	var syncer scheduler.DomainSyncer
	if cfg.Netlify.Configured() {
		syncer = app.Domains
	}
	if err := scheduler.Register(sched, cfg.Scheduler, syncer, app.Repo, app.Activity, app.Log); err != nil {
		return nil, fmt.Errorf("register jobs: %w", err)
	}
	sched.Start()
	return sched, nil
}

func shutdown(log logger.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("Shutdown failed", logger.String("component", name), logger.Error(err))
	}
}
