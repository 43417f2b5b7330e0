// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package config

import (
	"fmt"

	"github.com/tomtom215/hybridrec/internal/logging"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP read and write timeouts must be positive")
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be 'development' or 'production', got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, disabled; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateStore() error {
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required unless STORE_IN_MEMORY=true")
	}
	if c.Store.GCRatio <= 0 || c.Store.GCRatio >= 1 {
		return fmt.Errorf("STORE_GC_RATIO must be in (0, 1), got %f", c.Store.GCRatio)
	}
	if c.Store.GCInterval < 0 {
		return fmt.Errorf("STORE_GC_INTERVAL must not be negative")
	}
	if c.Store.Seed.Enabled {
		if c.Store.Seed.Users <= 0 || c.Store.Seed.Products <= 0 || c.Store.Seed.Interactions < 0 {
			return fmt.Errorf("seed users and products must be positive and interactions non-negative")
		}
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultK <= 0 || r.MaxK <= 0 || r.DefaultK > r.MaxK {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be in [1, RECOMMEND_MAX_K], got %d (max %d)", r.DefaultK, r.MaxK)
	}
	if r.RequestTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_REQUEST_TIMEOUT must be positive")
	}
	if r.IncrementalSteps <= 0 {
		return fmt.Errorf("RECOMMEND_INCREMENTAL_STEPS must be positive, got %d", r.IncrementalSteps)
	}
	if r.Router.DemographicWeight < 0 || r.Router.ContextWeight < 0 {
		return fmt.Errorf("cold-start blend weights must be non-negative")
	}
	if r.Router.DemographicWeight+r.Router.ContextWeight == 0 {
		return fmt.Errorf("cold-start blend weights must not both be zero")
	}
	if r.Router.CollaborativeTopN < 0 || r.Router.RecencyTopN < 0 {
		return fmt.Errorf("warm path top-N values must be non-negative")
	}
	if r.Rebuild.Interval < 0 || r.Rebuild.MinInterval < 0 {
		return fmt.Errorf("rebuild intervals must not be negative")
	}
	if r.Rebuild.Timeout <= 0 {
		return fmt.Errorf("RECOMMEND_REBUILD_TIMEOUT must be positive")
	}
	if r.Rebuild.FailureThreshold == 0 {
		return fmt.Errorf("RECOMMEND_REBUILD_FAILURES must be positive")
	}
	if r.Cache.Enabled && (r.Cache.Size <= 0 || r.Cache.TTL <= 0) {
		return fmt.Errorf("response cache size and TTL must be positive when enabled")
	}
	if r.Latent.Factors <= 0 || r.Latent.Epochs <= 0 || r.Latent.LearningRate <= 0 {
		return fmt.Errorf("latent factors, epochs and learning rate must be positive")
	}
	if r.Latent.Regularization < 0 || r.Latent.RecencyAlpha < 0 {
		return fmt.Errorf("latent regularization and recency alpha must be non-negative")
	}
	if r.Collaborative.Neighbors <= 0 {
		return fmt.Errorf("RECOMMEND_COLLAB_NEIGHBORS must be positive")
	}
	if r.Recency.Lookback <= 0 || r.Recency.DecayRate <= 0 {
		return fmt.Errorf("recency lookback and decay rate must be positive")
	}
	if r.Recency.DecayUnit <= 0 {
		return fmt.Errorf("RECOMMEND_RECENCY_DECAY_UNIT must be positive, got %v", r.Recency.DecayUnit)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 || c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	if c.IsProduction() {
		for _, o := range c.Security.CORSOrigins {
			if o == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain '*' in production")
			}
		}
	}
	return nil
}
