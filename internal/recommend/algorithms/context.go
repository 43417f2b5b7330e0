// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// ContextScorer scores products by how often they were interacted with in
// the same situation as the user's stored context record: identical time of
// day, device and location.
//
// Users without a context record get global interaction-count popularity.
type ContextScorer struct{}

// NewContextScorer creates a context scorer.
func NewContextScorer() *ContextScorer {
	return &ContextScorer{}
}

// Strategy returns the provenance label.
func (c *ContextScorer) Strategy() recommend.Strategy {
	return recommend.StrategyContext
}

// Score counts matching interactions per product. No match yields an
// all-zero vector.
func (c *ContextScorer) Score(ctx context.Context, snap *recommend.Snapshot, userID int) recommend.Result {
	if ContextCancelled(ctx) {
		return recommend.Fail(ctx.Err())
	}

	record, ok := snap.Context(userID)
	if !ok {
		return finish(popularity(snap, false, nil))
	}

	return finish(popularity(snap, false, func(in *recommend.Interaction) bool {
		return record.Matches(in.Context)
	}))
}
