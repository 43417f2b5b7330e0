// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/hybridrec/internal/api"
	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/logging"
	"github.com/tomtom215/hybridrec/internal/metrics"
	"github.com/tomtom215/hybridrec/internal/store"
	"github.com/tomtom215/hybridrec/internal/supervisor"
	"github.com/tomtom215/hybridrec/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("store_path", cfg.Store.Path).
		Bool("in_memory", cfg.Store.InMemory).
		Msg("Starting Hybridrec with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	engine, err := initEngine(cfg, st, logger)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create recommendation engine")
		return
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing engine")
		}
	}()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return
	}

	// Model layer
	tree.AddModelService(services.NewRebuildService(engine, rebuildServiceConfig(cfg), logger))
	tree.AddModelService(services.NewStoreGCService(st, cfg.Store.GCInterval, logger))
	logging.Info().
		Dur("rebuild_interval", cfg.Recommend.Rebuild.Interval).
		Dur("gc_interval", cfg.Store.GCInterval).
		Msg("Rebuild and store GC services added")

	// API layer
	router := api.NewRouter(api.NewHandler(engine), api.RouterConfig{
		Middleware:   chiMiddlewareConfig(cfg),
		DevEndpoints: cfg.Server.DevEndpoints,
	}, logger)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))
	logging.Info().
		Str("addr", server.Addr).
		Bool("dev_endpoints", cfg.Server.DevEndpoints).
		Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// openStore opens the BadgerDB store and seeds it when configured.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(storeConfig(cfg), logging.WithComponent("store"))
	if err != nil {
		return nil, err
	}

	if !cfg.Store.Seed.Enabled {
		return st, nil
	}

	seeded, err := store.SeedMockData(ctx, st, seedConfig(cfg), time.Now().UTC())
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	logging.Info().
		Bool("seeded", seeded).
		Int("users", cfg.Store.Seed.Users).
		Int("products", cfg.Store.Seed.Products).
		Int("interactions", cfg.Store.Seed.Interactions).
		Msg("Mock data seeding enabled")
	return st, nil
}
