// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package supervisor provides process supervision using suture v4.

The tree splits long-running services into two layers so each can restart
independently:

	RootSupervisor ("hybridrec")
	├── ModelSupervisor ("model-layer")
	│   ├── RebuildService
	│   └── StoreGCService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A rebuild loop that keeps crashing backs off inside the model layer. The
HTTP server keeps answering from the last published model snapshot.

# Usage

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddModelService(services.NewRebuildService(engine, rebuildCfg, logger))
	tree.AddModelService(services.NewStoreGCService(store, gcInterval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Configuration

TreeConfig controls restart behavior. Zero values fall back to suture's
defaults: 5 failures, 30s decay, 15s backoff and a 10s shutdown timeout.

Supervisor events (service panics, backoff, restarts) are logged through
sutureslog, so callers pass a *slog.Logger. logging.NewSlogLogger bridges
the application's zerolog logger.

# Debugging Shutdown Issues

	report, _ := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    logger.Warn("service did not stop", "service", svc.Name)
	}
*/
package supervisor
