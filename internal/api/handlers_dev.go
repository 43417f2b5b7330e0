// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/hybridrec/internal/models"
	"github.com/tomtom215/hybridrec/internal/recommend"
)

// ProbeStrategy handles GET /api/v1/dev/strategies/{strategy}/{userID}.
//
// A strategy that fails for this user (for example demographic scoring for
// a user without a location) still answers 200, with the reason in "error"
// and no scores.
func (h *Handler) ProbeStrategy(w http.ResponseWriter, r *http.Request) {
	strategy, err := recommend.ParseStrategy(chi.URLParam(r, "strategy"))
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_USER_ID", "Invalid user ID", err)
		return
	}

	res, err := h.engine.Probe(r.Context(), strategy, userID)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	out := models.ProbeResponse{
		Strategy: string(strategy),
		UserID:   userID,
		Scores:   map[int]float64{},
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	} else if res.Vector != nil {
		out.Scores = res.Vector.Map()
	}

	respondSuccess(w, r, out, models.Metadata{ModelVersion: h.engine.Status().ModelVersion})
}

// ProbeDemographics handles GET /api/v1/dev/demographics?location=NY&k=20.
func (h *Handler) ProbeDemographics(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		respondError(w, r, http.StatusBadRequest, "MISSING_LOCATION", "Missing location parameter", nil)
		return
	}
	k, err := parseK(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	top, err := h.engine.ProbeLocation(r.Context(), location, k)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	items := make([]models.ScoredEntry, len(top))
	for i, sp := range top {
		items[i] = models.ScoredEntry{ProductID: sp.ProductID, Score: sp.Score}
	}
	respondSuccess(w, r, models.LocationProbeResponse{
		Location: location,
		Items:    items,
	}, models.Metadata{})
}
