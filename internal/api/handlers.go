// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"context"
	"time"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// RecommendationService is the part of *recommend.Engine the handlers use.
type RecommendationService interface {
	Recommend(ctx context.Context, userID, k int) (*recommend.Response, error)
	RecommendLatent(ctx context.Context, userID, k int) (*recommend.Response, error)
	Probe(ctx context.Context, strategy recommend.Strategy, userID int) (recommend.Result, error)
	ProbeLocation(ctx context.Context, location string, k int) ([]recommend.ScoredProduct, error)
	RecordInteraction(ctx context.Context, in recommend.Interaction) (recommend.Interaction, recommend.UpdatePath, error)
	Ready() bool
	Status() recommend.Status
	Products() ([]recommend.Product, error)
	Product(id int) (*recommend.Product, error)
}

// Handler serves the HTTP endpoints.
type Handler struct {
	engine    RecommendationService
	startTime time.Time
}

// NewHandler creates a handler backed by engine.
func NewHandler(engine RecommendationService) *Handler {
	return &Handler{
		engine:    engine,
		startTime: time.Now(),
	}
}
