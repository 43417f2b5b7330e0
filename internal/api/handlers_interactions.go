// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"net/http"

	"github.com/tomtom215/hybridrec/internal/logging"
	"github.com/tomtom215/hybridrec/internal/models"
	"github.com/tomtom215/hybridrec/internal/recommend"
)

// RecordInteraction handles POST /api/v1/interactions.
//
// It answers 201 with the assigned interaction ID, 400 for a malformed body
// and 404 when the user or product does not exist.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	var req models.InteractionRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Request body must be a JSON interaction", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, r, http.StatusBadRequest, &models.APIResponse{Status: "error", Error: apiErr})
		return
	}

	in := recommend.Interaction{
		UserID:    *req.UserID,
		ProductID: *req.ProductID,
		Type:      recommend.InteractionType(req.InteractionType),
	}
	if req.Timestamp != nil {
		in.Timestamp = req.Timestamp.UTC()
	}
	if req.Context != nil {
		in.Context = &recommend.InteractionContext{
			TimeOfDay: req.Context.TimeOfDay,
			Device:    req.Context.Device,
			Location:  req.Context.Location,
		}
	}

	stored, path, err := h.engine.RecordInteraction(r.Context(), in)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Uint64("interaction_id", stored.ID).
		Str("update_path", string(path)).
		Msg("interaction accepted")

	respondJSON(w, r, http.StatusCreated, &models.APIResponse{
		Status: "success",
		Data: models.InteractionResponse{
			InteractionID:   stored.ID,
			UserID:          stored.UserID,
			ProductID:       stored.ProductID,
			InteractionType: stored.Type.String(),
			Timestamp:       stored.Timestamp,
			UpdatePath:      string(path),
		},
	})
}
