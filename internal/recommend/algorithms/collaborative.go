// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// CollaborativeConfig contains configuration for the neighbor scorer.
type CollaborativeConfig struct {
	// Neighbors is how many most-similar users contribute.
	// Default: 5.
	Neighbors int `json:"neighbors"`

	// ExcludeInteracted drops products the target user already interacted
	// with from the candidate pool.
	// Default: true.
	ExcludeInteracted bool `json:"exclude_interacted"`
}

// DefaultCollaborativeConfig returns the default configuration.
func DefaultCollaborativeConfig() CollaborativeConfig {
	return CollaborativeConfig{
		Neighbors:         5,
		ExcludeInteracted: true,
	}
}

// Collaborative scores products by the weighted interactions of the users
// most similar to the target user.
//
// Similarity is the cosine between interaction matrix rows. The score of a
// product is sum(similarity(n) * weight(n, product)) over the top neighbors,
// normalized by its maximum.
type Collaborative struct {
	config CollaborativeConfig
}

// NewCollaborative creates a neighbor scorer.
func NewCollaborative(cfg CollaborativeConfig) *Collaborative {
	if cfg.Neighbors <= 0 {
		cfg.Neighbors = 5
	}
	return &Collaborative{config: cfg}
}

// Strategy returns the provenance label.
func (c *Collaborative) Strategy() recommend.Strategy {
	return recommend.StrategyCollaborative
}

type neighbor struct {
	userID     int
	similarity float64
}

// Score computes the user's neighbor scores. A user without a matrix row
// fails with ErrUnknownUser.
func (c *Collaborative) Score(ctx context.Context, snap *recommend.Snapshot, userID int) recommend.Result {
	target, ok := snap.Matrix.Row(userID)
	if !ok {
		return recommend.Fail(fmt.Errorf("%w: %d has no interactions", recommend.ErrUnknownUser, userID))
	}

	neighbors := c.neighbors(snap.Matrix, userID, target)
	if ContextCancelled(ctx) {
		return recommend.Fail(ctx.Err())
	}

	v := recommend.NewScoreVector(snap.Universe)
	for _, n := range neighbors {
		row, _ := snap.Matrix.Row(n.userID)
		for productID, w := range row {
			v.Add(productID, n.similarity*w)
		}
	}

	if c.config.ExcludeInteracted {
		for productID := range target {
			v.Set(productID, 0)
		}
	}

	return finish(v)
}

// neighbors returns the most similar other users, by similarity descending
// and user ID ascending. Users with zero similarity are skipped.
func (c *Collaborative) neighbors(m *recommend.InteractionMatrix, userID int, target map[int]float64) []neighbor {
	all := make([]neighbor, 0, m.NumUsers())
	for _, other := range m.Users() {
		if other == userID {
			continue
		}
		row, _ := m.Row(other)
		if sim := sparseCosine(target, row); sim > 0 {
			all = append(all, neighbor{userID: other, similarity: sim})
		}
	}

	slices.SortFunc(all, func(a, b neighbor) int {
		if r := cmp.Compare(b.similarity, a.similarity); r != 0 {
			return r
		}
		return cmp.Compare(a.userID, b.userID)
	})
	if len(all) > c.config.Neighbors {
		all = all[:c.config.Neighbors]
	}
	return all
}
