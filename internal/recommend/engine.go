// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/cache"
)

// Dependencies are the collaborators an Engine is built from.
type Dependencies struct {
	// Gateway supplies datasets and persists interactions. Required.
	Gateway Gateway

	// Scorers are the strategy scorers. Demographic, Context, Collaborative
	// and Recency are required.
	Scorers *Scorers

	// NewLatent creates the latent factor model for each snapshot. Required.
	NewLatent LatentFactory

	// Observer receives instrumentation events. Optional.
	Observer Observer
}

// Engine owns the model state and serves recommendations from it.
// It is safe for concurrent use.
//
// Readers score against the current snapshot under a read lock. A rebuild
// loads and trains a new snapshot without holding the lock and publishes it
// atomically. Interactions recorded while a rebuild runs are replayed onto
// the new snapshot before it is published.
type Engine struct {
	config *Config
	logger zerolog.Logger

	gateway   Gateway
	scorers   *Scorers
	router    *Router
	newLatent LatentFactory
	observer  Observer

	// mu guards snap and every mutation of the published snapshot.
	mu             sync.RWMutex
	snap           *Snapshot
	rebuilding     bool
	pending        []Interaction
	lastRebuildAt  time.Time
	lastRebuildErr string
	closed         bool

	// rebuildMu serializes rebuilds.
	rebuildMu sync.Mutex
	rebuildCh chan struct{}

	version     atomic.Uint64
	requests    atomic.Int64
	rebuilds    atomic.Int64
	incremental atomic.Int64

	responses *cache.LRU[responseKey, *Response]
}

type responseKey struct {
	userID  int
	k       int
	version uint64
	latent  bool
}

// NewEngine creates an engine. It serves empty responses until the first
// successful Rebuild.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if deps.NewLatent == nil {
		return nil, fmt.Errorf("latent model factory is required")
	}

	logger = logger.With().Str("component", "recommend").Logger()

	router, err := NewRouter(cfg.Router, deps.Scorers, logger)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	observer := deps.Observer
	if observer == nil {
		observer = NopObserver{}
	}

	e := &Engine{
		config:    cfg,
		logger:    logger,
		gateway:   deps.Gateway,
		scorers:   deps.Scorers,
		router:    router,
		newLatent: deps.NewLatent,
		observer:  observer,
		rebuildCh: make(chan struct{}, 1),
	}
	if cfg.Cache.Enabled {
		e.responses = cache.NewLRU[responseKey, *Response](cfg.Cache.Size, cfg.Cache.TTL)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// RebuildRequests delivers a signal whenever the engine needs a full rebuild.
// Signals coalesce: at most one is buffered.
func (e *Engine) RebuildRequests() <-chan struct{} {
	return e.rebuildCh
}

func (e *Engine) requestRebuild() {
	select {
	case e.rebuildCh <- struct{}{}:
	default:
	}
}

// clampK applies the default and the maximum to a requested list length.
// A negative k selects the default; k == 0 asks for an empty list.
func (e *Engine) clampK(k int) int {
	if k < 0 {
		return e.config.Limits.DefaultK
	}
	return min(k, e.config.Limits.MaxK)
}

// Recommend returns at most k ranked products for a user. Users with stored
// interactions are served from collaborative and recency scores, every other
// user from demographic and context scores. An unknown user, an empty
// catalog or k == 0 yields an empty list; a negative k selects the default.
func (e *Engine) Recommend(ctx context.Context, userID, k int) (*Response, error) {
	start := time.Now()
	e.requests.Add(1)

	if userID < 0 {
		return nil, fmt.Errorf("%w: user %d", ErrInvalidIdentifier, userID)
	}
	k = e.clampK(k)

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.RequestTimeout)
	defer cancel()

	e.mu.RLock()
	snap := e.snap
	version := e.version.Load()
	if snap == nil {
		e.mu.RUnlock()
		return e.finish(e.emptyResponse(userID, PathCold, version), false, start), nil
	}

	key := responseKey{userID: userID, k: k, version: version}
	if resp, ok := e.cachedResponse(key); ok {
		e.mu.RUnlock()
		return e.finish(resp, true, start), nil
	}

	if snap.Universe.Len() == 0 {
		e.mu.RUnlock()
		e.logger.Debug().Err(ErrEmptyCatalog).Int("user_id", userID).Msg("empty recommendation")
		return e.finish(e.emptyResponse(userID, PathCold, version), false, start), nil
	}

	blend, err := e.router.Route(ctx, snap, userID)
	if err != nil {
		e.mu.RUnlock()
		return nil, fmt.Errorf("route user %d: %w", userID, err)
	}
	items := Aggregate(blend, k)
	attachProducts(snap, items)
	e.mu.RUnlock()

	if len(blend.Degraded) > 0 {
		ev := e.logger.Debug().Int("user_id", userID)
		for st, reason := range blend.Failures {
			ev = ev.AnErr(string(st), reason)
		}
		ev.Msg("strategies degraded to zero vectors")
	}
	if len(items) == 0 {
		e.logger.Debug().Err(ErrDegenerateAggregate).Int("user_id", userID).Str("path", string(blend.Path)).Msg("empty recommendation")
	}

	resp := &Response{
		UserID:       userID,
		Path:         blend.Path,
		Items:        items,
		ModelVersion: version,
		GeneratedAt:  time.Now().UTC(),
		Degraded:     blend.Degraded,
	}
	e.storeResponse(key, resp)

	return e.finish(resp, false, start), nil
}

// RecommendLatent returns the latent model's top-k for a user, boosted by the
// user's recent categories and brands and excluding every product the user
// already interacted with. A user without latent factors yields an empty list.
// A negative k selects the default.
func (e *Engine) RecommendLatent(ctx context.Context, userID, k int) (*Response, error) {
	start := time.Now()
	e.requests.Add(1)

	if userID < 0 {
		return nil, fmt.Errorf("%w: user %d", ErrInvalidIdentifier, userID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k = e.clampK(k)

	e.mu.RLock()
	defer e.mu.RUnlock()

	version := e.version.Load()
	snap := e.snap
	if snap == nil || snap.Latent == nil || !snap.Latent.HasUser(userID) {
		return e.finish(e.emptyResponse(userID, PathLatent, version), false, start), nil
	}

	key := responseKey{userID: userID, k: k, version: version, latent: true}
	if resp, ok := e.cachedResponse(key); ok {
		return e.finish(resp, true, start), nil
	}

	top, err := snap.Latent.Recommend(userID, k)
	if err != nil {
		e.logger.Debug().Err(err).Int("user_id", userID).Msg("latent recommendation failed")
		return e.finish(e.emptyResponse(userID, PathLatent, version), false, start), nil
	}

	items := make([]Recommendation, 0, len(top))
	for _, sp := range top {
		items = append(items, Recommendation{
			ProductID: sp.ProductID,
			Score:     sp.Score,
			Source:    StrategyLatent,
		})
	}
	attachProducts(snap, items)

	resp := &Response{
		UserID:       userID,
		Path:         PathLatent,
		Items:        items,
		ModelVersion: version,
		GeneratedAt:  time.Now().UTC(),
	}
	e.storeResponse(key, resp)

	return e.finish(resp, false, start), nil
}

// Probe returns a single strategy's raw score vector for a user. It is meant
// for diagnostics and is not part of the ranking.
func (e *Engine) Probe(ctx context.Context, strategy Strategy, userID int) (Result, error) {
	if userID < 0 {
		return Result{}, fmt.Errorf("%w: user %d", ErrInvalidIdentifier, userID)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := e.snap
	if snap == nil {
		return Result{}, ErrNotReady
	}

	if strategy == StrategyLatent {
		if snap.Latent == nil {
			return Fail(ErrStrategyUnavailable), nil
		}
		v, err := snap.Latent.Scores(userID)
		if err != nil {
			return Fail(err), nil
		}
		return Ok(v), nil
	}

	scorer := e.scorers.byStrategy(strategy)
	if scorer == nil {
		if _, err := ParseStrategy(string(strategy)); err != nil {
			return Result{}, err
		}
		return Fail(ErrStrategyUnavailable), nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.RequestTimeout)
	defer cancel()
	return scorer.Score(ctx, snap, userID), nil
}

// ProbeLocation ranks products by demographic evidence for an arbitrary
// location.
func (e *Engine) ProbeLocation(ctx context.Context, location string, k int) ([]ScoredProduct, error) {
	ls, ok := e.scorers.Demographic.(LocationScorer)
	if !ok {
		return nil, ErrStrategyUnavailable
	}
	k = e.clampK(k)

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.snap == nil {
		return nil, ErrNotReady
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.RequestTimeout)
	defer cancel()

	res := ls.ScoreLocation(ctx, e.snap, location)
	if res.Err != nil {
		return nil, res.Err
	}
	if k == 0 {
		return []ScoredProduct{}, nil
	}
	return res.Vector.TopK(k), nil
}

// RecordInteraction validates and persists an interaction, then folds it into
// the model. A pair both known to the latent model is updated in place with a
// bounded number of gradient steps; any other interaction is applied to the
// interaction matrix and schedules a background rebuild. A zero timestamp
// means now.
func (e *Engine) RecordInteraction(ctx context.Context, in Interaction) (Interaction, UpdatePath, error) {
	if in.UserID < 0 || in.ProductID < 0 {
		return Interaction{}, "", fmt.Errorf("%w: user %d, product %d", ErrInvalidIdentifier, in.UserID, in.ProductID)
	}
	if !in.Type.Valid() {
		return Interaction{}, "", fmt.Errorf("%w: %q", ErrInvalidInteractionType, in.Type)
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now().UTC()
	}

	if _, err := e.gateway.GetUser(ctx, in.UserID); err != nil {
		return Interaction{}, "", fmt.Errorf("get user %d: %w", in.UserID, err)
	}
	if _, err := e.gateway.GetProduct(ctx, in.ProductID); err != nil {
		return Interaction{}, "", fmt.Errorf("get product %d: %w", in.ProductID, err)
	}

	stored, err := e.gateway.InsertInteraction(ctx, in)
	if err != nil {
		return Interaction{}, "", fmt.Errorf("insert interaction: %w", err)
	}

	path, status := e.applyInteraction(&stored)

	e.observer.ObserveInteraction(path)
	if status != nil {
		e.observer.ObserveSnapshot(*status)
	}

	e.logger.Debug().
		Uint64("interaction_id", stored.ID).
		Int("user_id", stored.UserID).
		Int("product_id", stored.ProductID).
		Str("type", stored.Type.String()).
		Str("update_path", string(path)).
		Msg("interaction recorded")

	return stored, path, nil
}

// applyInteraction folds a persisted interaction into the live snapshot.
func (e *Engine) applyInteraction(in *Interaction) (UpdatePath, *Status) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rebuilding {
		e.pending = append(e.pending, *in)
	}

	snap := e.snap
	if snap == nil {
		return UpdateDeferred, nil
	}
	// A rebuild that loaded after the insert already holds the interaction.
	if snap.hasSequence(in.ID) {
		status := e.statusLocked()
		return UpdateRebuild, &status
	}

	path := UpdateRebuild
	if snap.Latent != nil && snap.Latent.HasUser(in.UserID) && snap.Latent.HasItem(in.ProductID) {
		snap.apply(in)
		if err := snap.Latent.UpdateOne(in.UserID, in.ProductID, &in.Timestamp, e.config.Incremental.Steps); err != nil {
			e.logger.Warn().Err(err).
				Int("user_id", in.UserID).
				Int("product_id", in.ProductID).
				Msg("incremental update failed, scheduling rebuild")
			e.requestRebuild()
		} else {
			path = UpdateIncremental
			e.incremental.Add(1)
		}
	} else {
		snap.apply(in)
		e.requestRebuild()
	}

	snap.Version = e.version.Add(1)
	status := e.statusLocked()
	return path, &status
}

// Rebuild loads a fresh dataset, builds a snapshot, trains a new latent
// model on it and publishes it. Readers keep using the previous snapshot
// until publication. Returns ErrRebuildInProgress when another rebuild runs.
func (e *Engine) Rebuild(ctx context.Context) error {
	if !e.rebuildMu.TryLock() {
		return ErrRebuildInProgress
	}
	defer e.rebuildMu.Unlock()

	start := time.Now()
	e.logger.Info().Msg("starting model rebuild")

	e.mu.Lock()
	e.rebuilding = true
	e.pending = nil
	e.mu.Unlock()

	snap, err := e.buildSnapshot(ctx)

	e.mu.Lock()
	e.rebuilding = false
	if err != nil {
		e.pending = nil
		e.lastRebuildErr = err.Error()
		e.mu.Unlock()

		e.rebuilds.Add(1)
		e.observer.ObserveRebuild(time.Since(start), err)
		e.logger.Error().Err(err).Msg("model rebuild failed")
		return err
	}

	replayed, stale := e.replayLocked(snap)
	snap.Version = e.version.Add(1)
	e.snap = snap
	e.pending = nil
	e.lastRebuildAt = time.Now()
	e.lastRebuildErr = ""
	status := e.statusLocked()
	e.mu.Unlock()

	if stale {
		e.requestRebuild()
	}

	e.rebuilds.Add(1)
	e.observer.ObserveRebuild(time.Since(start), nil)
	e.observer.ObserveSnapshot(status)

	e.logger.Info().
		Uint64("version", status.ModelVersion).
		Int("users", status.Users).
		Int("products", status.Products).
		Int("interactions", status.Interactions).
		Int("latent_users", status.LatentUsers).
		Int("latent_items", status.LatentItems).
		Int("replayed", replayed).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("model rebuild complete")

	return nil
}

func (e *Engine) buildSnapshot(ctx context.Context) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Rebuild.Timeout)
	defer cancel()

	ds, err := LoadDataset(ctx, e.gateway)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	snap := BuildSnapshot(ds)
	if snap.Universe.Len() == 0 {
		e.logger.Warn().Err(ErrEmptyCatalog).Msg("building snapshot over an empty catalog")
	}

	snap.Latent = e.newLatent()
	if err := snap.Latent.Fit(ctx, snap); err != nil {
		return nil, fmt.Errorf("fit latent model: %w", err)
	}
	return snap, nil
}

// replayLocked applies interactions recorded during the rebuild that the
// loaded dataset did not contain. It reports whether any of them needs
// another rebuild because the latent model has no factors for it.
func (e *Engine) replayLocked(snap *Snapshot) (replayed int, stale bool) {
	for i := range e.pending {
		in := &e.pending[i]
		if snap.hasSequence(in.ID) {
			continue
		}
		replayed++
		if !snap.apply(in) || !snap.Latent.HasUser(in.UserID) || !snap.Latent.HasItem(in.ProductID) {
			stale = true
			continue
		}
		if err := snap.Latent.UpdateOne(in.UserID, in.ProductID, &in.Timestamp, e.config.Incremental.Steps); err != nil {
			stale = true
		}
	}
	return replayed, stale
}

// Ready reports whether a snapshot has been published.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap != nil && !e.closed
}

// Status returns the current model state.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.statusLocked()
}

func (e *Engine) statusLocked() Status {
	st := Status{
		Ready:          e.snap != nil && !e.closed,
		ModelVersion:   e.version.Load(),
		Rebuilding:     e.rebuilding,
		LastRebuildAt:  e.lastRebuildAt,
		LastRebuildErr: e.lastRebuildErr,
		Requests:       e.requests.Load(),
		Rebuilds:       e.rebuilds.Load(),
		Incremental:    e.incremental.Load(),
	}
	if snap := e.snap; snap != nil {
		st.Users = snap.NumUsers()
		st.Products = snap.Universe.Len()
		st.Interactions = snap.NumInteractions()
		st.MatrixUsers = snap.Matrix.NumUsers()
		st.MatrixProducts = snap.Matrix.NumProducts()
		if snap.Latent != nil {
			st.LatentUsers, st.LatentItems, _ = snap.Latent.Dims()
		}
	}
	return st
}

// Products returns the catalog of the current snapshot.
func (e *Engine) Products() ([]Product, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.snap == nil {
		return nil, ErrNotReady
	}
	return e.snap.Products(), nil
}

// Product returns a catalog entry of the current snapshot.
func (e *Engine) Product(id int) (*Product, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.snap == nil {
		return nil, ErrNotReady
	}
	p, ok := e.snap.Product(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProduct, id)
	}
	cp := *p
	return &cp, nil
}

// Close releases the engine's state. Subsequent interactions are still
// persisted but no longer applied.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	e.snap = nil
	e.pending = nil
	if e.responses != nil {
		e.responses.Clear()
	}
	e.logger.Info().Msg("recommendation engine closed")
	return nil
}

func (e *Engine) cachedResponse(key responseKey) (*Response, bool) {
	if e.responses == nil {
		return nil, false
	}
	resp, ok := e.responses.Get(key)
	if !ok {
		return nil, false
	}
	return copyResponse(resp), true
}

func (e *Engine) storeResponse(key responseKey, resp *Response) {
	if e.responses == nil {
		return
	}
	e.responses.Add(key, copyResponse(resp))
}

func (e *Engine) emptyResponse(userID int, path Path, version uint64) *Response {
	return &Response{
		UserID:       userID,
		Path:         path,
		Items:        []Recommendation{},
		ModelVersion: version,
		GeneratedAt:  time.Now().UTC(),
	}
}

func (e *Engine) finish(resp *Response, cached bool, start time.Time) *Response {
	elapsed := time.Since(start)
	resp.LatencyMS = elapsed.Milliseconds()
	e.observer.ObserveRecommendation(resp, cached, elapsed)
	return resp
}

func copyResponse(resp *Response) *Response {
	cp := *resp
	cp.Items = append([]Recommendation(nil), resp.Items...)
	cp.Degraded = append([]Strategy(nil), resp.Degraded...)
	if cp.Items == nil {
		cp.Items = []Recommendation{}
	}
	return &cp
}

func attachProducts(snap *Snapshot, items []Recommendation) {
	for i := range items {
		if p, ok := snap.Product(items[i].ProductID); ok {
			cp := *p
			items[i].Product = &cp
		}
	}
}

// IsClientError reports whether err was caused by invalid caller input
// rather than by the engine or its gateway.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier) ||
		errors.Is(err, ErrInvalidInteractionType) ||
		errors.Is(err, ErrUnknownStrategy)
}
