// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/hybridrec/internal/models"
)

// HealthLive handles liveness probes. It answers 200 while the process runs.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, models.Metadata{})
}

// HealthReady handles readiness probes. It answers 503 until the first model
// snapshot is published.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()

	statusCode := http.StatusOK
	status := "ready"
	if !st.Ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, r, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"model_ready":   st.Ready,
			"model_version": st.ModelVersion,
			"rebuilding":    st.Rebuilding,
			"uptime":        time.Since(h.startTime).Seconds(),
		},
	})
}

// ModelStatus handles GET /api/v1/recommendations/status.
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()
	respondSuccess(w, r, st, models.Metadata{ModelVersion: st.ModelVersion})
}
