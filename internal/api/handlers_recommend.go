// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package api

import (
	"net/http"

	"github.com/tomtom215/starsession/internal/logging"
	"github.com/tomtom215/starsession/internal/recommend"
)

// RecommendNext handles POST /api/v1/recommendations/next.
//
//	{"items": [12, 7, 12], "k": 10, "exclude_seen": true}
func (h *Handler) RecommendNext(w http.ResponseWriter, r *http.Request) {
	var req recommend.Request
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RequestID == "" {
		req.RequestID = requestIDOf(r)
	}

	resp, err := h.engine.Recommend(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Int("session_length", resp.Metadata.SessionLength).
		Int("returned", len(resp.Items)).
		Bool("cache_hit", resp.Metadata.CacheHit).
		Msg("recommendation served")

	NewResponseWriter(w, r).SuccessWithMeta(resp, Metadata{
		QueryTimeMS: resp.Metadata.LatencyMS,
		Cached:      resp.Metadata.CacheHit,
	})
}

// GetModel handles GET /api/v1/model.
func (h *Handler) GetModel(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.engine.ModelInfo())
}

// GetEvaluation handles GET /api/v1/model/evaluation.
// Returns 404 until the served model has been evaluated.
func (h *Handler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	result, ok := h.engine.LastEvaluation()
	if !ok {
		NewResponseWriter(w, r).Error(http.StatusNotFound, ErrCodeNotFound, "Model has not been evaluated", nil)
		return
	}
	NewResponseWriter(w, r).Success(result)
}

// TriggerEvaluation handles POST /api/v1/model/evaluate. It evaluates the
// holdout set synchronously and returns the result.
func (h *Handler) TriggerEvaluation(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.EvaluateHoldout(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("sessions", result.Sessions).
		Float64("hit_rate", result.HitRate).
		Float64("mrr", result.MRR).
		Msg("evaluation triggered via API")

	NewResponseWriter(w, r).Success(result)
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.engine.GetMetrics())
}
