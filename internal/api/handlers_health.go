// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/starsession/internal/metrics"
)

// HealthLive handles GET /api/v1/health/live. It reports 200 while the
// process is running.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime).Seconds()
	metrics.AppUptime.Set(uptime)

	NewResponseWriter(w, r).Success(map[string]any{
		"alive":   true,
		"version": h.version,
		"uptime":  uptime,
	})
}

// HealthReady handles GET /api/v1/health/ready. It reports 503 until a model
// is loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.engine.Ready()

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	data := map[string]any{
		"model_loaded":   ready,
		"ready_to_serve": ready,
		"uptime":         time.Since(h.startTime).Seconds(),
	}
	if ready {
		data["model_version"] = h.engine.ModelInfo().Version
	}
	NewResponseWriter(w, r).Status(statusCode, status, data)
}
