// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// LatentFactorConfig contains configuration for the latent factor model.
type LatentFactorConfig struct {
	// NumFactors is the dimension of the latent vectors.
	// Default: 20.
	NumFactors int `json:"num_factors"`

	// LearningRate is the SGD step size.
	// Default: 0.01.
	LearningRate float64 `json:"learning_rate"`

	// Regularization is the L2 penalty.
	// Default: 0.1.
	Regularization float64 `json:"regularization"`

	// Epochs is the number of shuffled passes over all interactions.
	// Default: 20.
	Epochs int `json:"epochs"`

	// RecencyAlpha is the decay rate per RecencyUnit of elapsed time.
	// A sample's weight is exp(-RecencyAlpha * elapsed / RecencyUnit).
	// Default: 0.101.
	RecencyAlpha float64 `json:"recency_alpha"`

	// RecencyUnit is the time unit RecencyAlpha is expressed in.
	// Default: 24h.
	RecencyUnit time.Duration `json:"recency_unit"`

	// CategoryBoost is added to products sharing a category with the
	// user's recent history.
	// Default: 0.6.
	CategoryBoost float64 `json:"category_boost"`

	// BrandBoost is added to products sharing a brand with the user's
	// recent history.
	// Default: 0.2.
	BrandBoost float64 `json:"brand_boost"`

	// HistorySize bounds the per-user recent category and brand windows.
	// Default: 10.
	HistorySize int `json:"history_size"`

	// InitStdDev is the standard deviation of the normal initialization.
	// Default: 0.1.
	InitStdDev float64 `json:"init_std_dev"`

	// Seed for reproducible initialization and shuffling.
	// If 0, uses 42.
	Seed int64 `json:"seed"`
}

// DefaultLatentFactorConfig returns the default configuration.
func DefaultLatentFactorConfig() LatentFactorConfig {
	return LatentFactorConfig{
		NumFactors:     20,
		LearningRate:   0.01,
		Regularization: 0.1,
		Epochs:         20,
		RecencyAlpha:   0.101,
		RecencyUnit:    24 * time.Hour,
		CategoryBoost:  0.6,
		BrandBoost:     0.2,
		HistorySize:    10,
		InitStdDev:     0.1,
		Seed:           42,
	}
}

// LatentFactorModel is a matrix factorization model for implicit feedback,
// trained with recency-weighted SGD and served with a hybrid category/brand
// boost.
//
// For each sample the prediction is sigmoid(p_u . q_i) and, since only
// observed interactions are sampled, the error is weight * (1 - prediction).
// Gradients are clipped to [-1, 1] and both vectors are repaired if they
// contain NaN or Inf, before and after each step.
//
// Rows exist exactly for the users and products of the interaction matrix.
type LatentFactorModel struct {
	baseModel
	config LatentFactorConfig
	logger zerolog.Logger
	now    func() time.Time

	onRepair RepairHook

	//nolint:gosec // G404: math/rand is acceptable for ML initialization (not security)
	rng *rand.Rand

	// userFactors is numUsers x numFactors, nil when there are no users.
	userFactors *mat.Dense

	// itemFactors is numItems x numFactors, nil when there are no items.
	itemFactors *mat.Dense

	userIndex   map[int]int
	itemIndex   map[int]int
	indexToItem []int

	itemCategories []string
	itemBrands     []string

	// recent category and brand windows by user index
	recentCats   map[int][]string
	recentBrands map[int][]string

	// interacted item indices by user index
	interacted map[int]map[int]struct{}

	universe *recommend.Universe
}

// NewLatentFactorModel creates an untrained model.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewLatentFactorModel(cfg LatentFactorConfig, logger zerolog.Logger) *LatentFactorModel {
	def := DefaultLatentFactorConfig()
	if cfg.NumFactors <= 0 {
		cfg.NumFactors = def.NumFactors
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = def.LearningRate
	}
	if cfg.Regularization < 0 {
		cfg.Regularization = def.Regularization
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = def.Epochs
	}
	if cfg.RecencyUnit <= 0 {
		cfg.RecencyUnit = def.RecencyUnit
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = def.HistorySize
	}
	if cfg.InitStdDev <= 0 {
		cfg.InitStdDev = def.InitStdDev
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}

	return &LatentFactorModel{
		baseModel:    newBaseModel("latent"),
		config:       cfg,
		logger:       logger.With().Str("component", "latent_factors").Logger(),
		now:          time.Now,
		rng:          rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec // G404: not security sensitive
		userIndex:    make(map[int]int),
		itemIndex:    make(map[int]int),
		recentCats:   make(map[int][]string),
		recentBrands: make(map[int][]string),
		interacted:   make(map[int]map[int]struct{}),
	}
}

// SetRepairHook registers a callback for NaN/Inf repairs.
func (m *LatentFactorModel) SetRepairHook(hook RepairHook) {
	m.onRepair = hook
}

type latentSample struct {
	user int
	item int
	ts   time.Time
}

// Fit rebuilds the indices from the snapshot's interaction matrix,
// re-initializes all factors and trains from scratch.
func (m *LatentFactorModel) Fit(ctx context.Context, snap *recommend.Snapshot) error {
	m.acquireTrainLock()
	defer m.releaseTrainLock()

	if ContextCancelled(ctx) {
		return ctx.Err()
	}

	users := snap.Matrix.Users()
	items := snap.Matrix.Products()

	m.universe = snap.Universe
	m.userIndex = make(map[int]int, len(users))
	for i, id := range users {
		m.userIndex[id] = i
	}
	m.itemIndex = make(map[int]int, len(items))
	m.indexToItem = items
	m.itemCategories = make([]string, len(items))
	m.itemBrands = make([]string, len(items))
	for i, id := range items {
		m.itemIndex[id] = i
		m.itemCategories[i] = snap.Category(id)
		m.itemBrands[i] = snap.Brand(id)
	}
	m.recentCats = make(map[int][]string)
	m.recentBrands = make(map[int][]string)
	m.interacted = make(map[int]map[int]struct{})

	m.userFactors = m.initFactors(len(users))
	m.itemFactors = m.initFactors(len(items))
	if m.userFactors == nil || m.itemFactors == nil {
		m.markTrained()
		return nil
	}

	interactions := snap.Interactions()
	samples := make([]latentSample, 0, len(interactions))
	for i := range interactions {
		in := &interactions[i]
		u, okU := m.userIndex[in.UserID]
		it, okI := m.itemIndex[in.ProductID]
		if !okU || !okI {
			continue
		}
		samples = append(samples, latentSample{user: u, item: it, ts: in.Timestamp})
		m.markInteracted(u, it)
	}

	for epoch := 0; epoch < m.config.Epochs; epoch++ {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}

		m.rng.Shuffle(len(samples), func(i, j int) {
			samples[i], samples[j] = samples[j], samples[i]
		})

		for _, s := range samples {
			m.sgdUpdate(s.user, s.item, m.recencyWeight(&s.ts))
			m.pushHistory(s.user, s.item)
		}
	}

	m.markTrained()
	m.logger.Debug().
		Int("users", len(users)).
		Int("items", len(items)).
		Int("samples", len(samples)).
		Int("epochs", m.config.Epochs).
		Msg("latent factors trained")
	return nil
}

// initFactors returns a rows x factors matrix drawn from N(0, InitStdDev^2),
// or nil when rows is zero.
func (m *LatentFactorModel) initFactors(rows int) *mat.Dense {
	if rows == 0 {
		return nil
	}
	data := make([]float64, rows*m.config.NumFactors)
	for i := range data {
		data[i] = m.rng.NormFloat64() * m.config.InitStdDev
	}
	return mat.NewDense(rows, m.config.NumFactors, data)
}

// recencyWeight returns exp(-alpha * elapsed / unit) with the exponent
// clipped to [-50, 50]. A nil or zero timestamp weighs 1. Future timestamps
// count as no elapsed time.
func (m *LatentFactorModel) recencyWeight(ts *time.Time) float64 {
	if ts == nil || ts.IsZero() {
		return 1.0
	}
	elapsed := max(m.now().Sub(*ts), 0)
	arg := -m.config.RecencyAlpha * float64(elapsed) / float64(m.config.RecencyUnit)
	return math.Exp(clip(arg, -50, 50))
}

// sgdUpdate performs a single positive-sample update. Must hold the train lock.
func (m *LatentFactorModel) sgdUpdate(u, i int, weight float64) {
	pu := m.userFactors.RawRowView(u)
	qi := m.itemFactors.RawRowView(i)

	if n := repairFactor(pu) + repairFactor(qi); n > 0 {
		m.reportRepair("factors_before_update", n, u, i)
	}

	pred := sigmoid(floats.Dot(pu, qi))
	e := weight * (1 - pred)
	lr := m.config.LearningRate
	reg := m.config.Regularization

	for f := range pu {
		gradU := clip(e*qi[f]-reg*pu[f], -1, 1)
		gradI := clip(e*pu[f]-reg*qi[f], -1, 1)
		pu[f] += lr * gradU
		qi[f] += lr * gradI
	}

	if n := repairFactor(pu) + repairFactor(qi); n > 0 {
		m.reportRepair("factors_after_update", n, u, i)
	}
}

func (m *LatentFactorModel) reportRepair(site string, n, u, i int) {
	m.logger.Warn().
		Err(recommend.ErrNumericInstability).
		Str("site", site).
		Int("user_idx", u).
		Int("item_idx", i).
		Int("repaired", n).
		Msg("repaired non-finite latent factors")
	if m.onRepair != nil {
		m.onRepair(site, n)
	}
}

// pushHistory appends the item's category and brand to the user's bounded
// recent windows. Must hold the train lock.
func (m *LatentFactorModel) pushHistory(u, i int) {
	if c := m.itemCategories[i]; c != "" {
		m.recentCats[u] = pushBounded(m.recentCats[u], c, m.config.HistorySize)
	}
	if b := m.itemBrands[i]; b != "" {
		m.recentBrands[u] = pushBounded(m.recentBrands[u], b, m.config.HistorySize)
	}
}

func pushBounded(window []string, v string, size int) []string {
	window = append(window, v)
	if len(window) > size {
		window = slices.Delete(window, 0, len(window)-size)
	}
	return window
}

func (m *LatentFactorModel) markInteracted(u, i int) {
	set, ok := m.interacted[u]
	if !ok {
		set = make(map[int]struct{})
		m.interacted[u] = set
	}
	set[i] = struct{}{}
}

// UpdateOne applies steps repeated SGD updates for one observed pair,
// appends it to the user's recent history and marks it as interacted.
func (m *LatentFactorModel) UpdateOne(userID, productID int, ts *time.Time, steps int) error {
	m.acquireTrainLock()
	defer m.releaseTrainLock()

	u, ok := m.userIndex[userID]
	if !ok {
		return fmt.Errorf("%w: %d has no latent factors", recommend.ErrUnknownUser, userID)
	}
	i, ok := m.itemIndex[productID]
	if !ok {
		return fmt.Errorf("%w: %d has no latent factors", recommend.ErrUnknownProduct, productID)
	}

	w := m.recencyWeight(ts)
	for step := 0; step < steps; step++ {
		m.sgdUpdate(u, i, w)
	}
	m.pushHistory(u, i)
	m.markInteracted(u, i)
	return nil
}

// boostedScores returns sigmoid(Q p_u) plus the hybrid boosts, indexed by
// item index. Must hold the predict lock.
func (m *LatentFactorModel) boostedScores(u int) []float64 {
	numItems, _ := m.itemFactors.Dims()
	scores := mat.NewVecDense(numItems, nil)
	scores.MulVec(m.itemFactors, m.userFactors.RowView(u))

	out := scores.RawVector().Data
	repaired := 0
	for i, x := range out {
		s, fixed := sanitizeScore(sigmoid(x))
		if fixed {
			repaired++
		}
		out[i] = s
	}
	if repaired > 0 {
		m.logger.Warn().
			Err(recommend.ErrNumericInstability).
			Int("user_idx", u).
			Int("repaired", repaired).
			Msg("repaired non-finite latent scores")
		if m.onRepair != nil {
			m.onRepair("latent_scores", repaired)
		}
	}

	cats := toSet(m.recentCats[u])
	brands := toSet(m.recentBrands[u])
	for i := range out {
		if _, ok := cats[m.itemCategories[i]]; ok {
			out[i] += m.config.CategoryBoost
		}
		if _, ok := brands[m.itemBrands[i]]; ok {
			out[i] += m.config.BrandBoost
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Recommend returns the user's top-k products by boosted score, excluding
// every product the user interacted with. Ties keep item index order,
// which is ascending product ID.
func (m *LatentFactorModel) Recommend(userID, k int) ([]recommend.ScoredProduct, error) {
	m.acquirePredictLock()
	defer m.releasePredictLock()

	u, ok := m.userIndex[userID]
	if !ok || m.itemFactors == nil {
		return nil, fmt.Errorf("%w: %d has no latent factors", recommend.ErrUnknownUser, userID)
	}
	if k <= 0 {
		return []recommend.ScoredProduct{}, nil
	}

	scores := m.boostedScores(u)
	excluded := m.interacted[u]

	candidates := make([]int, 0, len(scores))
	for i := range scores {
		if _, skip := excluded[i]; !skip {
			candidates = append(candidates, i)
		}
	}

	top := selectTopK(candidates, scores, k)
	out := make([]recommend.ScoredProduct, len(top))
	for n, i := range top {
		out[n] = recommend.ScoredProduct{ProductID: m.indexToItem[i], Score: scores[i]}
	}
	return out, nil
}

// Scores returns the boosted score of every indexed product over the
// snapshot universe. Interacted and unindexed products score zero.
func (m *LatentFactorModel) Scores(userID int) (*recommend.ScoreVector, error) {
	m.acquirePredictLock()
	defer m.releasePredictLock()

	u, ok := m.userIndex[userID]
	if !ok || m.itemFactors == nil {
		return nil, fmt.Errorf("%w: %d has no latent factors", recommend.ErrUnknownUser, userID)
	}

	scores := m.boostedScores(u)
	excluded := m.interacted[u]

	v := recommend.NewScoreVector(m.universe)
	for i, s := range scores {
		if _, skip := excluded[i]; skip {
			continue
		}
		v.Set(m.indexToItem[i], s)
	}
	return v, nil
}

// HasUser reports whether the user has a latent row.
func (m *LatentFactorModel) HasUser(userID int) bool {
	m.acquirePredictLock()
	defer m.releasePredictLock()
	_, ok := m.userIndex[userID]
	return ok
}

// HasItem reports whether the product has a latent row.
func (m *LatentFactorModel) HasItem(productID int) bool {
	m.acquirePredictLock()
	defer m.releasePredictLock()
	_, ok := m.itemIndex[productID]
	return ok
}

// Interacted reports whether the pair is excluded from the user's results.
func (m *LatentFactorModel) Interacted(userID, productID int) bool {
	m.acquirePredictLock()
	defer m.releasePredictLock()
	u, okU := m.userIndex[userID]
	i, okI := m.itemIndex[productID]
	if !okU || !okI {
		return false
	}
	_, ok := m.interacted[u][i]
	return ok
}

// Dims returns the number of user rows, item rows and factors.
func (m *LatentFactorModel) Dims() (users, items, factors int) {
	m.acquirePredictLock()
	defer m.releasePredictLock()
	if m.userFactors != nil {
		users, _ = m.userFactors.Dims()
	}
	if m.itemFactors != nil {
		items, _ = m.itemFactors.Dims()
	}
	return users, items, m.config.NumFactors
}

// UserFactors returns a copy of a user's latent vector (for testing/debugging).
func (m *LatentFactorModel) UserFactors(userID int) []float64 {
	m.acquirePredictLock()
	defer m.releasePredictLock()
	u, ok := m.userIndex[userID]
	if !ok {
		return nil
	}
	return slices.Clone(m.userFactors.RawRowView(u))
}

// ItemFactors returns a copy of a product's latent vector (for testing/debugging).
func (m *LatentFactorModel) ItemFactors(productID int) []float64 {
	m.acquirePredictLock()
	defer m.releasePredictLock()
	i, ok := m.itemIndex[productID]
	if !ok {
		return nil
	}
	return slices.Clone(m.itemFactors.RawRowView(i))
}

// selectTopK returns the k best candidate indices ordered by score
// descending, ties by index ascending. It partitions in O(n) on average and
// only sorts the selected k.
func selectTopK(candidates []int, scores []float64, k int) []int {
	better := func(a, b int) bool {
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		return a < b
	}

	if k < len(candidates) {
		quickselect(candidates, k, better)
		candidates = candidates[:k]
	}
	slices.SortFunc(candidates, func(a, b int) int {
		switch {
		case better(a, b):
			return -1
		case better(b, a):
			return 1
		default:
			return 0
		}
	})
	return candidates
}

// quickselect reorders xs so its first k elements are the k best under less.
func quickselect(xs []int, k int, less func(a, b int) bool) {
	lo, hi := 0, len(xs)-1
	for lo < hi {
		p := partition(xs, lo, hi, lo+(hi-lo)/2, less)
		switch {
		case p == k-1:
			return
		case p < k-1:
			lo = p + 1
		default:
			hi = p - 1
		}
	}
}

func partition(xs []int, lo, hi, pivot int, less func(a, b int) bool) int {
	pv := xs[pivot]
	xs[pivot], xs[hi] = xs[hi], xs[pivot]
	store := lo
	for i := lo; i < hi; i++ {
		if less(xs[i], pv) {
			xs[store], xs[i] = xs[i], xs[store]
			store++
		}
	}
	xs[store], xs[hi] = xs[hi], xs[store]
	return store
}
