// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package metrics

import (
	"strconv"
	"time"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// RecommendObserver exports engine events as Prometheus metrics.
type RecommendObserver struct{}

// NewRecommendObserver returns an observer backed by the package collectors.
func NewRecommendObserver() *RecommendObserver {
	return &RecommendObserver{}
}

// ObserveRecommendation records a served response.
func (o *RecommendObserver) ObserveRecommendation(resp *recommend.Response, cached bool, latency time.Duration) {
	if resp == nil {
		return
	}
	path := string(resp.Path)
	RecommendRequestsTotal.WithLabelValues(path, strconv.FormatBool(cached)).Inc()
	RecommendDuration.WithLabelValues(path).Observe(latency.Seconds())
	RecommendItemsReturned.Observe(float64(len(resp.Items)))
	if len(resp.Degraded) > 0 {
		RecommendDegradedTotal.WithLabelValues(path).Inc()
	}
}

// ObserveInteraction records which update path an interaction took.
func (o *RecommendObserver) ObserveInteraction(path recommend.UpdatePath) {
	InteractionsTotal.WithLabelValues(string(path)).Inc()
}

// ObserveRebuild records a finished rebuild.
func (o *RecommendObserver) ObserveRebuild(duration time.Duration, err error) {
	RecordRebuild(duration, err)
}

// ObserveSnapshot publishes the model size gauges.
func (o *RecommendObserver) ObserveSnapshot(st recommend.Status) {
	ModelVersion.Set(float64(st.ModelVersion))
	ModelEntities.WithLabelValues("users").Set(float64(st.Users))
	ModelEntities.WithLabelValues("products").Set(float64(st.Products))
	ModelEntities.WithLabelValues("interactions").Set(float64(st.Interactions))
	ModelEntities.WithLabelValues("matrix_users").Set(float64(st.MatrixUsers))
	ModelEntities.WithLabelValues("matrix_products").Set(float64(st.MatrixProducts))
	ModelEntities.WithLabelValues("latent_users").Set(float64(st.LatentUsers))
	ModelEntities.WithLabelValues("latent_items").Set(float64(st.LatentItems))
}

var _ recommend.Observer = (*RecommendObserver)(nil)
