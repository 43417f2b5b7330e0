// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Scorers is the set of strategy scorers the router blends.
type Scorers struct {
	Demographic   Scorer
	Context       Scorer
	Collaborative Scorer
	Recency       Scorer

	// Probe-only scorers; never part of the ranking.
	Content    Scorer
	Popularity Scorer
}

// byStrategy returns the scorer registered for a strategy.
func (s *Scorers) byStrategy(st Strategy) Scorer {
	switch st {
	case StrategyDemographic:
		return s.Demographic
	case StrategyContext:
		return s.Context
	case StrategyCollaborative:
		return s.Collaborative
	case StrategyRecency:
		return s.Recency
	case StrategyContent:
		return s.Content
	case StrategyPopularity:
		return s.Popularity
	default:
		return nil
	}
}

func (s *Scorers) validate() error {
	required := []struct {
		name   Strategy
		scorer Scorer
	}{
		{StrategyDemographic, s.Demographic},
		{StrategyContext, s.Context},
		{StrategyCollaborative, s.Collaborative},
		{StrategyRecency, s.Recency},
	}
	for _, r := range required {
		if r.scorer == nil {
			return fmt.Errorf("%s scorer is required", r.name)
		}
	}
	return nil
}

// Blend is the merged, labeled score vector produced by one router path.
type Blend struct {
	Path    Path
	Scores  *ScoreVector
	Sources []Strategy

	// Degraded lists strategies whose scorer failed and contributed zeros.
	Degraded []Strategy

	// Failures holds the reason for each degraded strategy.
	Failures map[Strategy]error
}

// Router picks the cold or warm path for a user and blends the scorer outputs.
type Router struct {
	cfg     RouterConfig
	scorers *Scorers
	logger  zerolog.Logger
}

// NewRouter creates a router.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewRouter(cfg RouterConfig, scorers *Scorers, logger zerolog.Logger) (*Router, error) {
	if scorers == nil {
		return nil, fmt.Errorf("scorers are required")
	}
	if err := scorers.validate(); err != nil {
		return nil, err
	}
	return &Router{
		cfg:     cfg,
		scorers: scorers,
		logger:  logger.With().Str("component", "router").Logger(),
	}, nil
}

// Route blends the scorers that apply to the user. A user with at least one
// stored interaction takes the warm path, every other user the cold path.
// Scorer failures degrade to zero vectors. Only context cancellation is
// returned as an error.
func (r *Router) Route(ctx context.Context, snap *Snapshot, userID int) (*Blend, error) {
	if snap.HasInteractions(userID) {
		return r.warm(ctx, snap, userID)
	}
	return r.cold(ctx, snap, userID)
}

// cold blends demographic and context scores. A product is labeled context
// only where the context score strictly exceeds the demographic score.
func (r *Router) cold(ctx context.Context, snap *Snapshot, userID int) (*Blend, error) {
	demo, ctxRes, err := r.scorePair(ctx, snap, userID, r.scorers.Demographic, r.scorers.Context)
	if err != nil {
		return nil, err
	}

	b := newBlend(PathCold, snap.Universe)
	b.collect(StrategyDemographic, demo)
	b.collect(StrategyContext, ctxRes)

	d := demo.OrZero(snap.Universe)
	c := ctxRes.OrZero(snap.Universe)
	for i := 0; i < b.Scores.Len(); i++ {
		b.Scores.SetAt(i, r.cfg.DemographicWeight*d.At(i)+r.cfg.ContextWeight*c.At(i))
		if c.At(i) > d.At(i) {
			b.Sources[i] = StrategyContext
		} else {
			b.Sources[i] = StrategyDemographic
		}
	}
	return b, nil
}

// warm keeps the top collaborative products and fills the rest from recency,
// so no product is attributed to both strategies.
func (r *Router) warm(ctx context.Context, snap *Snapshot, userID int) (*Blend, error) {
	collab, rec, err := r.scorePair(ctx, snap, userID, r.scorers.Collaborative, r.scorers.Recency)
	if err != nil {
		return nil, err
	}

	b := newBlend(PathWarm, snap.Universe)
	b.collect(StrategyCollaborative, collab)
	b.collect(StrategyRecency, rec)

	c := collab.OrZero(snap.Universe)
	recency := rec.OrZero(snap.Universe).Clone()

	for _, sp := range c.TopK(r.cfg.CollaborativeTopN) {
		b.Scores.Set(sp.ProductID, sp.Score)
		b.setSource(sp.ProductID, StrategyCollaborative)
		recency.Set(sp.ProductID, 0)
	}
	for _, sp := range recency.TopK(r.cfg.RecencyTopN) {
		b.Scores.Set(sp.ProductID, sp.Score)
		b.setSource(sp.ProductID, StrategyRecency)
	}
	return b, nil
}

// scorePair runs two scorers concurrently against the same snapshot.
func (r *Router) scorePair(ctx context.Context, snap *Snapshot, userID int, a, b Scorer) (Result, Result, error) {
	var ra, rb Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ra = a.Score(gctx, snap, userID)
		return nil
	})
	g.Go(func() error {
		rb = b.Score(gctx, snap, userID)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, Result{}, fmt.Errorf("score user %d: %w", userID, err)
	}
	return ra, rb, nil
}

func newBlend(path Path, u *Universe) *Blend {
	return &Blend{
		Path:    path,
		Scores:  NewScoreVector(u),
		Sources: make([]Strategy, u.Len()),
	}
}

func (b *Blend) setSource(productID int, st Strategy) {
	if i, ok := b.Scores.Universe().Index(productID); ok {
		b.Sources[i] = st
	}
}

// collect records a failed scorer. Unknown users are expected on both paths
// and are not reported as degraded.
func (b *Blend) collect(st Strategy, res Result) {
	if res.Err == nil || errors.Is(res.Err, ErrUnknownUser) {
		return
	}
	if b.Failures == nil {
		b.Failures = make(map[Strategy]error)
	}
	b.Degraded = append(b.Degraded, st)
	b.Failures[st] = res.Err
}

// Aggregate ranks a blend into at most k recommendations. Only strictly
// positive scores are selected, ordered by score descending and product ID
// ascending. Scores are clamped to [0, 1]. A degenerate blend yields an
// empty, non-nil list.
func Aggregate(b *Blend, k int) []Recommendation {
	if b == nil || b.Scores == nil {
		return []Recommendation{}
	}
	b.Scores.Sanitize()

	top := b.Scores.TopK(k)
	out := make([]Recommendation, 0, len(top))
	for _, sp := range top {
		i, _ := b.Scores.Universe().Index(sp.ProductID)
		out = append(out, Recommendation{
			ProductID: sp.ProductID,
			Score:     min(max(sp.Score, 0), 1),
			Source:    b.Sources[i],
		})
	}
	return out
}
