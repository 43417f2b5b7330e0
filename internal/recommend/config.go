// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Config holds engine-level configuration. Scorer parameters live with the
// scorers in the algorithms package.
type Config struct {
	// Seed for deterministic latent initialization and exploration noise.
	// If 0, uses 42.
	Seed int64 `json:"seed"`

	// Router controls the cold/warm blend.
	Router RouterConfig `json:"router"`

	// Limits bounds request sizes and latency.
	Limits LimitsConfig `json:"limits"`

	// Incremental controls the single-interaction update path.
	Incremental IncrementalConfig `json:"incremental"`

	// Rebuild controls background full rebuilds.
	Rebuild RebuildConfig `json:"rebuild"`

	// Cache controls the response cache.
	Cache CacheConfig `json:"cache"`
}

// RouterConfig contains the strategy blend for both router paths.
type RouterConfig struct {
	// DemographicWeight is the demographic share of the cold-start blend.
	// Default: 0.7
	DemographicWeight float64 `json:"demographic_weight"`

	// ContextWeight is the context share of the cold-start blend.
	// Default: 0.3
	ContextWeight float64 `json:"context_weight"`

	// CollaborativeTopN is how many collaborative products the warm path keeps.
	// Default: 10
	CollaborativeTopN int `json:"collaborative_top_n"`

	// RecencyTopN is how many recency products the warm path keeps after
	// removing the collaborative ones.
	// Default: 10
	RecencyTopN int `json:"recency_top_n"`
}

// LimitsConfig bounds request handling.
type LimitsConfig struct {
	// DefaultK is used when the caller passes k <= 0.
	DefaultK int `json:"default_k"`

	// MaxK caps k.
	MaxK int `json:"max_k"`

	// RequestTimeout is the scoring budget for a single request.
	RequestTimeout time.Duration `json:"request_timeout"`
}

// IncrementalConfig controls online updates for already indexed pairs.
type IncrementalConfig struct {
	// Steps is the number of repeated SGD updates per recorded interaction.
	// Default: 10
	Steps int `json:"steps"`
}

// RebuildConfig controls full rebuilds.
type RebuildConfig struct {
	// Timeout bounds a single rebuild, including the gateway load.
	// Default: 10m
	Timeout time.Duration `json:"timeout"`
}

// CacheConfig controls memoization of recommendation responses.
// Entries are keyed by model version, so any update makes them unreachable.
type CacheConfig struct {
	Enabled bool          `json:"enabled"`
	Size    int           `json:"size"`
	TTL     time.Duration `json:"ttl"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Seed: 42,
		Router: RouterConfig{
			DemographicWeight: 0.7,
			ContextWeight:     0.3,
			CollaborativeTopN: 10,
			RecencyTopN:       10,
		},
		Limits: LimitsConfig{
			DefaultK:       20,
			MaxK:           100,
			RequestTimeout: 5 * time.Second,
		},
		Incremental: IncrementalConfig{
			Steps: 10,
		},
		Rebuild: RebuildConfig{
			Timeout: 10 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    4096,
			TTL:     time.Minute,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Router.DemographicWeight < 0 {
		return fmt.Errorf("router.demographic_weight must be non-negative, got %f", c.Router.DemographicWeight)
	}
	if c.Router.ContextWeight < 0 {
		return fmt.Errorf("router.context_weight must be non-negative, got %f", c.Router.ContextWeight)
	}
	if sum := c.Router.DemographicWeight + c.Router.ContextWeight; sum <= 0 || sum > 1+1e-9 {
		return fmt.Errorf("router cold-start weights must sum to (0, 1], got %f", sum)
	}
	if c.Router.CollaborativeTopN < 0 {
		return fmt.Errorf("router.collaborative_top_n must be non-negative, got %d", c.Router.CollaborativeTopN)
	}
	if c.Router.RecencyTopN < 0 {
		return fmt.Errorf("router.recency_top_n must be non-negative, got %d", c.Router.RecencyTopN)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.RequestTimeout <= 0 {
		return fmt.Errorf("limits.request_timeout must be positive, got %v", c.Limits.RequestTimeout)
	}

	if c.Incremental.Steps < 1 {
		return fmt.Errorf("incremental.steps must be positive, got %d", c.Incremental.Steps)
	}

	if c.Rebuild.Timeout <= 0 {
		return fmt.Errorf("rebuild.timeout must be positive, got %v", c.Rebuild.Timeout)
	}

	if c.Cache.Enabled {
		if c.Cache.Size < 1 {
			return fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size)
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type limits struct {
		DefaultK       int    `json:"default_k"`
		MaxK           int    `json:"max_k"`
		RequestTimeout string `json:"request_timeout"`
	}
	type rebuild struct {
		Timeout string `json:"timeout"`
	}
	type cacheCfg struct {
		Enabled bool   `json:"enabled"`
		Size    int    `json:"size"`
		TTL     string `json:"ttl"`
	}
	return json.Marshal(&struct {
		Seed        int64             `json:"seed"`
		Router      RouterConfig      `json:"router"`
		Limits      limits            `json:"limits"`
		Incremental IncrementalConfig `json:"incremental"`
		Rebuild     rebuild           `json:"rebuild"`
		Cache       cacheCfg          `json:"cache"`
	}{
		Seed:   c.Seed,
		Router: c.Router,
		Limits: limits{
			DefaultK:       c.Limits.DefaultK,
			MaxK:           c.Limits.MaxK,
			RequestTimeout: c.Limits.RequestTimeout.String(),
		},
		Incremental: c.Incremental,
		Rebuild:     rebuild{Timeout: c.Rebuild.Timeout.String()},
		Cache: cacheCfg{
			Enabled: c.Cache.Enabled,
			Size:    c.Cache.Size,
			TTL:     c.Cache.TTL.String(),
		},
	})
}
