// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package api

import (
	"context"
	"time"

	"github.com/tomtom215/starsession/internal/recommend"
	"github.com/tomtom215/starsession/internal/recommend/evaluation"
)

// Engine is the recommendation engine surface the handlers use.
// *recommend.Engine implements it.
type Engine interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	EvaluateHoldout(ctx context.Context) (evaluation.Result, error)
	LastEvaluation() (evaluation.Result, bool)
	ModelInfo() recommend.ModelInfo
	Ready() bool
	GetMetrics() recommend.Metrics
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	engine    Engine
	version   string
	startTime time.Time
}

// NewHandler creates handlers for engine. version is reported by the
// liveness probe.
func NewHandler(engine Engine, version string) *Handler {
	return &Handler{
		engine:    engine,
		version:   version,
		startTime: time.Now(),
	}
}
