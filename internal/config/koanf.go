// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/hybridrec/config.yaml",
	"/etc/hybridrec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
			DevEndpoints:    true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Store: StoreConfig{
			Path:       "/data/hybridrec",
			InMemory:   false,
			GCInterval: 10 * time.Minute,
			GCRatio:    0.5,
			Seed: SeedConfig{
				Enabled:      false,
				Users:        50,
				Products:     40,
				Interactions: 600,
				Seed:         42,
				Window:       30 * 24 * time.Hour,
			},
		},
		Recommend: RecommendConfig{
			Seed:             42,
			DefaultK:         20,
			MaxK:             100,
			RequestTimeout:   5 * time.Second,
			IncrementalSteps: 10,
			Router: RouterConfig{
				DemographicWeight: 0.7,
				ContextWeight:     0.3,
				CollaborativeTopN: 10,
				RecencyTopN:       10,
			},
			Rebuild: RebuildConfig{
				Interval:         time.Hour,
				Timeout:          10 * time.Minute,
				MinInterval:      30 * time.Second,
				FailureThreshold: 3,
				BreakerTimeout:   5 * time.Minute,
			},
			Cache: CacheConfig{
				Enabled: true,
				Size:    4096,
				TTL:     time.Minute,
			},
			Latent: LatentConfig{
				Factors:        20,
				LearningRate:   0.01,
				Regularization: 0.1,
				Epochs:         20,
				RecencyAlpha:   0.101,
				RecencyUnit:    24 * time.Hour,
				CategoryBoost:  0.6,
				BrandBoost:     0.2,
			},
			Demographic: DemographicConfig{
				MinCohortSize:  5,
				CohortWeight:   8.0,
				OutsiderWeight: 0.2,
			},
			Collaborative: CollaborativeConfig{
				Neighbors: 5,
			},
			Recency: RecencyConfig{
				Lookback:       30 * 24 * time.Hour,
				DecayRate:      0.05,
				DecayUnit:      time.Second,
				DiversityBoost: 0.2,
			},
		},
		Security: SecurityConfig{
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",
	"enable_dev_endpoints":  "server.dev_endpoints",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Store
	"store_path":              "store.path",
	"store_in_memory":         "store.in_memory",
	"store_sync_writes":       "store.sync_writes",
	"store_gc_interval":       "store.gc_interval",
	"store_gc_ratio":          "store.gc_ratio",
	"seed_mock_data":          "store.seed.enabled",
	"seed_users":              "store.seed.users",
	"seed_products":           "store.seed.products",
	"seed_interactions":       "store.seed.interactions",
	"seed_random_seed":        "store.seed.seed",
	"seed_interaction_window": "store.seed.window",

	// Recommendation engine
	"recommend_seed":                  "recommend.seed",
	"recommend_default_k":             "recommend.default_k",
	"recommend_max_k":                 "recommend.max_k",
	"recommend_request_timeout":       "recommend.request_timeout",
	"recommend_incremental_steps":     "recommend.incremental_steps",
	"recommend_demographic_weight":    "recommend.router.demographic_weight",
	"recommend_context_weight":        "recommend.router.context_weight",
	"recommend_collaborative_top_n":   "recommend.router.collaborative_top_n",
	"recommend_recency_top_n":         "recommend.router.recency_top_n",
	"recommend_rebuild_interval":      "recommend.rebuild.interval",
	"recommend_rebuild_timeout":       "recommend.rebuild.timeout",
	"recommend_rebuild_min_interval":  "recommend.rebuild.min_interval",
	"recommend_rebuild_failures":      "recommend.rebuild.failure_threshold",
	"recommend_rebuild_breaker_reset": "recommend.rebuild.breaker_timeout",
	"recommend_cache_enabled":         "recommend.cache.enabled",
	"recommend_cache_size":            "recommend.cache.size",
	"recommend_cache_ttl":             "recommend.cache.ttl",
	"recommend_latent_factors":        "recommend.latent.factors",
	"recommend_latent_learning_rate":  "recommend.latent.learning_rate",
	"recommend_latent_regularization": "recommend.latent.regularization",
	"recommend_latent_epochs":         "recommend.latent.epochs",
	"recommend_latent_recency_alpha":  "recommend.latent.recency_alpha",
	"recommend_collab_neighbors":      "recommend.collaborative.neighbors",
	"recommend_recency_lookback":      "recommend.recency.lookback",
	"recommend_recency_decay_unit":    "recommend.recency.decay_unit",

	// Security
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - STORE_PATH -> store.path
//   - RECOMMEND_MAX_K -> recommend.max_k
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
