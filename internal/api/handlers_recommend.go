// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"net/http"

	"github.com/tomtom215/hybridrec/internal/models"
)

// Recommendations handles GET /api/v1/recommendations/{userID}.
// Users with interaction history take the warm path, everyone else the cold
// path. Unknown users get an empty list.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_USER_ID", "Invalid user ID", err)
		return
	}
	k, err := parseK(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	resp, err := h.engine.Recommend(r.Context(), userID, k)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	respondSuccess(w, r, resp, models.Metadata{
		QueryTimeMS:  resp.LatencyMS,
		ModelVersion: resp.ModelVersion,
	})
}

// LatentRecommendations handles GET /api/v1/recommendations/{userID}/latent.
func (h *Handler) LatentRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_USER_ID", "Invalid user ID", err)
		return
	}
	k, err := parseK(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	resp, err := h.engine.RecommendLatent(r.Context(), userID, k)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	respondSuccess(w, r, resp, models.Metadata{
		QueryTimeMS:  resp.LatencyMS,
		ModelVersion: resp.ModelVersion,
	})
}
