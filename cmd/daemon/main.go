// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/phasekit/lifecount/internal/api"
	"github.com/phasekit/lifecount/internal/config"
	"github.com/phasekit/lifecount/internal/driver"
	"github.com/phasekit/lifecount/internal/health"
	"github.com/phasekit/lifecount/internal/journal"
	lclog "github.com/phasekit/lifecount/internal/log"
	"github.com/phasekit/lifecount/internal/store"
	"github.com/phasekit/lifecount/internal/telemetry"
	"github.com/phasekit/lifecount/internal/tracker"
)

var (
	version   = "v0.3.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	simulate := flag.Bool("simulate", false, "replay the demo lifecycle script after startup")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Configure logger with safe defaults until config is loaded.
	lclog.Configure(lclog.Config{
		Level:   "info",
		Service: "lifecount",
		Version: version,
	})
	logger := lclog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewLoader(*configPath, version).Load()
	if err != nil {
		logger.Fatal().Err(err).
			Str(lclog.FieldEvent, "config.load_failed").
			Str("config_path", *configPath).
			Msg("configuration invalid")
	}
	if parsed, perr := zerolog.ParseLevel(cfg.LogLevel); perr == nil {
		zerolog.SetGlobalLevel(parsed)
	}

	if err := run(ctx, cfg, *simulate); err != nil {
		logger.Fatal().Err(err).Str(lclog.FieldEvent, "daemon.failed").Msg("daemon exited with error")
	}
}

func run(ctx context.Context, cfg config.AppConfig, simulate bool) error {
	logger := lclog.WithComponent("daemon")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    "lifecount",
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.TracingExporter,
		Endpoint:       cfg.TracingEndpoint,
		SamplingRate:   cfg.TracingSampling,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	if cfg.StoreBackend == config.StoreBadger || cfg.JournalEnabled {
		if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn().Err(err).Msg("store close failed")
		}
	}()
	logger.Info().
		Str(lclog.FieldBackend, cfg.StoreBackend).
		Str(lclog.FieldEvent, "store.opened").
		Msg("snapshot store ready")

	var jnl *journal.Journal
	if cfg.JournalEnabled {
		jnl, err = journal.Open(ctx, cfg.ResolveJournalPath())
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer func() {
			if err := jnl.Close(); err != nil {
				logger.Warn().Err(err).Msg("journal close failed")
			}
		}()
	}

	var trJournal tracker.Journal
	if jnl != nil {
		trJournal = jnl
	}
	tr := tracker.New(st, trJournal, tracker.Options{Strict: cfg.StrictTransitions})
	tr.Restore(ctx)

	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewStoreChecker(func(ctx context.Context) error {
		_, err := st.Load(ctx)
		if errors.Is(err, store.ErrNoSnapshot) {
			return nil
		}
		return err
	}))
	if jnl != nil {
		hm.RegisterChecker(health.NewPingChecker("journal", jnl))
	}

	srv := api.New(cfg, tr, jnl, hm)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if simulate {
		g.Go(func() error {
			// Two entries per second keeps the demo watchable.
			return driver.New(tr, 2).Run(gctx, driver.Rotation)
		})
	}

	err = g.Wait()

	// Persist the counts before teardown so recreation restores them.
	saveCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if saveErr := tr.Save(saveCtx); saveErr != nil {
		logger.Error().Err(saveErr).
			Str(lclog.FieldEvent, "snapshot.save_failed").
			Msg("counts not persisted on shutdown")
		if err == nil {
			err = saveErr
		}
	}

	logger.Info().Str(lclog.FieldEvent, "daemon.stopped").Msg("daemon stopped")
	return err
}
