// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package validation validates HTTP request bodies with go-playground/validator v10.
//
// A single validator instance caches struct metadata and is safe for
// concurrent use. Failures translate into the VALIDATION_ERROR body used by
// the API:
//
//	var req models.InteractionRequest
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
