// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"context"
	"time"
)

// Scorer produces a full-universe ScoreVector for a user.
// Implementations must be safe for concurrent use and must never mutate the snapshot.
type Scorer interface {
	// Strategy returns the strategy name, used as the provenance label.
	Strategy() Strategy

	// Score returns the user's vector, or a failure reason.
	Score(ctx context.Context, snap *Snapshot, userID int) Result
}

// LocationScorer is implemented by scorers that can rank products for an
// arbitrary location rather than a known user.
type LocationScorer interface {
	ScoreLocation(ctx context.Context, snap *Snapshot, location string) Result
}

// Result is the typed outcome of a scorer: a vector or the reason there is none.
type Result struct {
	Vector *ScoreVector
	Err    error
}

// Ok wraps a vector in a successful Result.
func Ok(v *ScoreVector) Result {
	return Result{Vector: v}
}

// Fail wraps a failure reason in a Result.
func Fail(err error) Result {
	return Result{Err: err}
}

// OrZero returns the vector, or an all-zero vector over u when the result failed.
func (r Result) OrZero(u *Universe) *ScoreVector {
	if r.Err != nil || r.Vector == nil {
		return NewScoreVector(u)
	}
	return r.Vector
}

// LatentModel is an online-trainable latent factor model over the users and
// products that appear in the interaction matrix.
type LatentModel interface {
	// Fit rebuilds the user/item indices from the snapshot and trains from scratch.
	Fit(ctx context.Context, snap *Snapshot) error

	// UpdateOne applies steps single-sample updates for an existing (user, product)
	// pair and marks it as interacted. It fails with ErrUnknownUser or
	// ErrUnknownProduct when either index does not exist.
	UpdateOne(userID, productID int, ts *time.Time, steps int) error

	// Recommend returns the top-k products for a user, excluding every product
	// the user already interacted with.
	Recommend(userID, k int) ([]ScoredProduct, error)

	// Scores returns the boosted affinity of every indexed product over the
	// snapshot universe. Excluded products score zero.
	Scores(userID int) (*ScoreVector, error)

	// HasUser reports whether the user has a latent row.
	HasUser(userID int) bool

	// HasItem reports whether the product has a latent row.
	HasItem(productID int) bool

	// Dims returns the number of user rows, item rows and factors.
	Dims() (users, items, factors int)
}

// LatentFactory creates an untrained latent model for a new snapshot.
type LatentFactory func() LatentModel
