// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// PopularityConfig contains configuration for the popularity scorer.
type PopularityConfig struct {
	// Weighted sums interaction type weights instead of counting events.
	// Default: true.
	Weighted bool `json:"weighted"`
}

// DefaultPopularityConfig returns the default configuration.
func DefaultPopularityConfig() PopularityConfig {
	return PopularityConfig{Weighted: true}
}

// Popularity scores products by global interaction volume, independent of
// the user. It serves as a baseline probe.
type Popularity struct {
	config PopularityConfig
}

// NewPopularity creates a popularity scorer.
func NewPopularity(cfg PopularityConfig) *Popularity {
	return &Popularity{config: cfg}
}

// Strategy returns the provenance label.
func (p *Popularity) Strategy() recommend.Strategy {
	return recommend.StrategyPopularity
}

// Score returns the global popularity vector. userID is ignored.
func (p *Popularity) Score(ctx context.Context, snap *recommend.Snapshot, _ int) recommend.Result {
	if ContextCancelled(ctx) {
		return recommend.Fail(ctx.Err())
	}
	return finish(popularity(snap, p.config.Weighted, nil))
}

// popularity sums per-product evidence over the interactions accepted by
// keep, or over all interactions when keep is nil.
func popularity(snap *recommend.Snapshot, weighted bool, keep func(*recommend.Interaction) bool) *recommend.ScoreVector {
	v := recommend.NewScoreVector(snap.Universe)
	interactions := snap.Interactions()
	for i := range interactions {
		in := &interactions[i]
		if keep != nil && !keep(in) {
			continue
		}
		if weighted {
			v.Add(in.ProductID, in.Weight())
		} else {
			v.Add(in.ProductID, 1)
		}
	}
	return v
}
