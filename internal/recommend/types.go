// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package recommend

import (
	"errors"
	"time"

	"github.com/tomtom215/starsession/internal/recommend/evaluation"
)

// ErrInvalidRequest is returned for requests that cannot be scored.
var ErrInvalidRequest = errors.New("invalid recommendation request")

// ErrNoHoldout is returned by EvaluateHoldout when no holdout set is loaded.
var ErrNoHoldout = errors.New("no holdout dataset loaded")

// Request is a next-item recommendation request for one live session.
type Request struct {
	// Items is the session so far, as dense item ids in click order.
	Items []int `json:"items" validate:"required,min=1,dive,min=1"`

	// K is the number of recommendations to return.
	// Zero uses the configured default; values above MaxK are clamped.
	K int `json:"k,omitempty" validate:"omitempty,min=1"`

	// ExcludeIDs are item ids that must not be recommended.
	ExcludeIDs []int `json:"exclude_ids,omitempty"`

	// ExcludeSeen removes the session's own items from the results.
	ExcludeSeen bool `json:"exclude_seen,omitempty"`

	// RequestID is used for tracing. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// ScoredItem is one recommended item.
type ScoredItem struct {
	// ItemID is the dense item id.
	ItemID int `json:"item_id"`

	// Score is the scaled cosine score of the item against the session.
	Score float64 `json:"score"`

	// Rank is the 1-based position in the result list.
	Rank int `json:"rank"`

	// Popularity is the item's occurrence count in the loaded count table.
	Popularity float64 `json:"popularity"`
}

// Response contains ranked recommendations and request metadata.
type Response struct {
	Items    []ScoredItem     `json:"items"`
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	RequestID     string    `json:"request_id"`
	LatencyMS     int64     `json:"latency_ms"`
	CacheHit      bool      `json:"cache_hit"`
	ModelVersion  int       `json:"model_version"`
	SessionLength int       `json:"session_length"`
	Candidates    int       `json:"candidates"`
	Timestamp     time.Time `json:"timestamp"`
}

// ModelInfo summarizes the loaded model.
type ModelInfo struct {
	Version           int                `json:"version"`
	LoadedAt          time.Time          `json:"loaded_at"`
	NumItems          int                `json:"num_items"`
	HiddenSize        int                `json:"hidden_size"`
	Steps             int                `json:"steps"`
	Heads             int                `json:"heads"`
	Hybrid            bool               `json:"hybrid"`
	NormalizeHidden   bool               `json:"normalize_hidden"`
	MaskStarAttention bool               `json:"mask_star_attention"`
	Parameters        int                `json:"parameters"`
	Seed              uint64             `json:"seed"`
	LastEvaluation    *evaluation.Result `json:"last_evaluation,omitempty"`
}

// Metrics holds engine counters.
type Metrics struct {
	TotalRequests int64 `json:"total_requests"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	Errors        int64 `json:"errors"`
	Evaluations   int64 `json:"evaluations"`
	CacheEntries  int   `json:"cache_entries"`
}
