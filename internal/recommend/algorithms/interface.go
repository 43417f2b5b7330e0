// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package algorithms implements the strategy scorers and the latent factor
// model of the hybrid engine.
//
// # Scorers
//
//   - Collaborative: user-user cosine over the interaction matrix
//   - Demographic: location cohort popularity with category re-boost
//   - Context: popularity among interactions sharing the user's context
//   - Recency: time-decayed category/brand affinity with exploration noise
//   - Content: TF-IDF similarity over product metadata
//   - Popularity: global weighted popularity
//
// Every scorer returns a vector over the whole product universe, normalized
// so its maximum is 1, or a typed failure reason.
//
// # Thread Safety
//
// Scorers are stateless apart from guarded caches and random sources, and
// may be called concurrently. The latent factor model guards its factors
// with an RWMutex; training takes the exclusive lock.
package algorithms

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// RepairHook is notified whenever NaN or Inf values are repaired.
// site names where the repair happened.
type RepairHook func(site string, repaired int)

// baseModel provides common bookkeeping for trainable models.
type baseModel struct {
	name          string
	trained       bool
	version       int
	lastTrainedAt time.Time
	mu            sync.RWMutex
}

func newBaseModel(name string) baseModel {
	return baseModel{name: name}
}

// Name returns the model identifier.
func (b *baseModel) Name() string {
	return b.name
}

// IsTrained returns whether the model has been trained.
func (b *baseModel) IsTrained() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.trained
}

// Version returns how many times the model has been trained.
func (b *baseModel) Version() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// LastTrainedAt returns when the model was last trained.
func (b *baseModel) LastTrainedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastTrainedAt
}

// markTrained must be called while holding the training lock.
func (b *baseModel) markTrained() {
	b.trained = true
	b.version++
	b.lastTrainedAt = time.Now()
}

func (b *baseModel) acquireTrainLock()   { b.mu.Lock() }
func (b *baseModel) releaseTrainLock()   { b.mu.Unlock() }
func (b *baseModel) acquirePredictLock() { b.mu.RLock() }
func (b *baseModel) releasePredictLock() { b.mu.RUnlock() }

// sigmoid is the logistic function with its argument clipped to [-50, 50].
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-clip(x, -50, 50)))
}

func clip(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// repairFactor replaces NaN with 0, +Inf with 0.1 and -Inf with -0.1 in
// place and returns how many values were repaired.
func repairFactor(v []float64) int {
	repaired := 0
	for i, x := range v {
		switch {
		case math.IsNaN(x):
			v[i] = 0
		case math.IsInf(x, 1):
			v[i] = 0.1
		case math.IsInf(x, -1):
			v[i] = -0.1
		default:
			continue
		}
		repaired++
	}
	return repaired
}

// sanitizeScore maps NaN to 0, +Inf to 1 and -Inf to 0.
func sanitizeScore(x float64) (float64, bool) {
	switch {
	case math.IsNaN(x), math.IsInf(x, -1):
		return 0, true
	case math.IsInf(x, 1):
		return 1, true
	default:
		return x, false
	}
}

// sparseCosine computes the cosine similarity of two sparse rows.
func sparseCosine(a, b map[int]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for id, wa := range a {
		if wb, ok := b[id]; ok {
			dot += wa * wb
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (sparseNorm(a) * sparseNorm(b))
}

func sparseNorm(v map[int]float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// finish sanitizes and normalizes a scorer vector and wraps it in a Result.
func finish(v *recommend.ScoreVector) recommend.Result {
	v.Sanitize()
	return recommend.Ok(v.Normalize())
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Ensure every scorer implements the interface.
var (
	_ recommend.Scorer         = (*Collaborative)(nil)
	_ recommend.Scorer         = (*Demographic)(nil)
	_ recommend.LocationScorer = (*Demographic)(nil)
	_ recommend.Scorer         = (*ContextScorer)(nil)
	_ recommend.Scorer         = (*Recency)(nil)
	_ recommend.Scorer         = (*ContentBased)(nil)
	_ recommend.Scorer         = (*Popularity)(nil)
	_ recommend.LatentModel    = (*LatentFactorModel)(nil)
)
