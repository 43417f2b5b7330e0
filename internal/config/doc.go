// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package config provides centralized configuration management.

Configuration is loaded with Koanf v2 in three layers, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/hybridrec/config.yaml, /etc/hybridrec/config.yml
 3. Environment variables

# Configuration Structure

  - ServerConfig: HTTP listener, timeouts, environment, dev endpoints
  - LoggingConfig: zerolog level, format and caller info
  - StoreConfig: BadgerDB path, GC schedule and synthetic data seeding
  - RecommendConfig: engine limits, blend weights, rebuild schedule,
    response cache and per-scorer hyperparameters
  - SecurityConfig: rate limiting and CORS

# Environment Variables

Only mapped variables are read; see envMappings. Common ones:

  - HTTP_PORT: Listen port (default: 8080)
  - LOG_LEVEL, LOG_FORMAT: Logging (default: info, json)
  - STORE_PATH, STORE_IN_MEMORY: Storage location
  - SEED_MOCK_DATA: Seed an empty store at startup (default: false)
  - RECOMMEND_MAX_K: Largest accepted k (default: 100)
  - RECOMMEND_REBUILD_INTERVAL: Scheduled rebuild period (default: 1h)
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)

# Example YAML

	server:
	  port: 8080
	store:
	  path: /data/hybridrec
	  seed:
	    enabled: true
	recommend:
	  router:
	    demographic_weight: 0.7
	    context_weight: 0.3
	  rebuild:
	    interval: 30m
*/
package config
