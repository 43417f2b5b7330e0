// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Store     StoreConfig     `koanf:"store"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment"`

	// DevEndpoints exposes the per-strategy probe routes under /api/v1/dev.
	DevEndpoints bool `koanf:"dev_endpoints"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// StoreConfig holds the BadgerDB store configuration
type StoreConfig struct {
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	SyncWrites bool          `koanf:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval"`
	GCRatio    float64       `koanf:"gc_ratio"`

	// Seed fills an empty store with synthetic data at startup.
	Seed SeedConfig `koanf:"seed"`
}

// SeedConfig controls synthetic data generation
type SeedConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Users        int           `koanf:"users"`
	Products     int           `koanf:"products"`
	Interactions int           `koanf:"interactions"`
	Seed         int64         `koanf:"seed"`
	Window       time.Duration `koanf:"window"`
}

// RecommendConfig holds recommendation engine configuration
type RecommendConfig struct {
	// Seed drives latent initialization and exploration noise.
	Seed int64 `koanf:"seed"`

	DefaultK         int           `koanf:"default_k"`
	MaxK             int           `koanf:"max_k"`
	RequestTimeout   time.Duration `koanf:"request_timeout"`
	IncrementalSteps int           `koanf:"incremental_steps"`

	Router        RouterConfig        `koanf:"router"`
	Rebuild       RebuildConfig       `koanf:"rebuild"`
	Cache         CacheConfig         `koanf:"cache"`
	Latent        LatentConfig        `koanf:"latent"`
	Demographic   DemographicConfig   `koanf:"demographic"`
	Collaborative CollaborativeConfig `koanf:"collaborative"`
	Recency       RecencyConfig       `koanf:"recency"`
}

// RouterConfig holds the cold and warm path blend
type RouterConfig struct {
	DemographicWeight float64 `koanf:"demographic_weight"`
	ContextWeight     float64 `koanf:"context_weight"`
	CollaborativeTopN int     `koanf:"collaborative_top_n"`
	RecencyTopN       int     `koanf:"recency_top_n"`
}

// RebuildConfig holds background rebuild scheduling
type RebuildConfig struct {
	// Interval between scheduled rebuilds. 0 disables the schedule; rebuilds
	// still run when new users or products are seen.
	Interval time.Duration `koanf:"interval"`

	// Timeout bounds a single rebuild.
	Timeout time.Duration `koanf:"timeout"`

	// MinInterval is the minimum spacing between requested rebuilds.
	MinInterval time.Duration `koanf:"min_interval"`

	// FailureThreshold consecutive failures open the rebuild circuit breaker.
	FailureThreshold uint32 `koanf:"failure_threshold"`

	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// CacheConfig holds response cache settings
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	Size    int           `koanf:"size"`
	TTL     time.Duration `koanf:"ttl"`
}

// LatentConfig holds latent factor model hyperparameters
type LatentConfig struct {
	Factors        int           `koanf:"factors"`
	LearningRate   float64       `koanf:"learning_rate"`
	Regularization float64       `koanf:"regularization"`
	Epochs         int           `koanf:"epochs"`
	RecencyAlpha   float64       `koanf:"recency_alpha"`
	RecencyUnit    time.Duration `koanf:"recency_unit"`
	CategoryBoost  float64       `koanf:"category_boost"`
	BrandBoost     float64       `koanf:"brand_boost"`
}

// DemographicConfig holds location cohort scorer settings
type DemographicConfig struct {
	MinCohortSize  int     `koanf:"min_cohort_size"`
	CohortWeight   float64 `koanf:"cohort_weight"`
	OutsiderWeight float64 `koanf:"outsider_weight"`
}

// CollaborativeConfig holds neighbor scorer settings
type CollaborativeConfig struct {
	Neighbors int `koanf:"neighbors"`
}

// RecencyConfig holds recency scorer settings
type RecencyConfig struct {
	Lookback       time.Duration `koanf:"lookback"`
	DecayRate      float64       `koanf:"decay_rate"`
	DecayUnit      time.Duration `koanf:"decay_unit"`
	DiversityBoost float64       `koanf:"diversity_boost"`
}

// SecurityConfig holds HTTP hardening settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
