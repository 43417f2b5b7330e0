// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package main is the entry point for the Hybridrec server.

Hybridrec serves product recommendations over HTTP. Requests are routed
between a cold-start blend (demographic and context scorers) and a warm
blend (collaborative and recency scorers), with a latent factor model
available on its own endpoint and updated online as interactions arrive.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("hybridrec")
	├── ModelSupervisor ("model-layer")
	│   ├── Rebuild service (startup, schedule, requested rebuilds)
	│   └── Store GC service (BadgerDB value log)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. Store: BadgerDB, optionally seeded with synthetic data
 4. Engine: scorers, latent model factory and Prometheus observer
 5. Supervisor Tree: rebuild, GC and HTTP services

# Configuration

Every setting can be overridden from the environment, for example:

	SERVER_PORT=9090
	STORE_IN_MEMORY=true
	STORE_SEED_ENABLED=true
	RECOMMEND_REBUILD_INTERVAL=30m
	LOGGING_FORMAT=console

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests, the rebuild service stops after the current rebuild
and the store is closed last.
*/
package main
