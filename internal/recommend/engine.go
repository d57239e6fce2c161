// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package recommend

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/starsession/internal/cache"
	"github.com/tomtom215/starsession/internal/metrics"
	"github.com/tomtom215/starsession/internal/recommend/dataset"
	"github.com/tomtom215/starsession/internal/recommend/evaluation"
	"github.com/tomtom215/starsession/internal/recommend/sessiongraph"
)

// cacheName labels the response cache in metrics.
const cacheName = "recommend"

// Engine serves next-item recommendations from a session-graph model.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	// Model state, swapped atomically as a unit by SetModel.
	modelMu  sync.RWMutex
	model    *sessiongraph.Model
	counts   []float64
	loadedAt time.Time
	version  atomic.Int32

	// Evaluation state
	evalMu   sync.RWMutex
	holdout  *dataset.Dataset
	lastEval *evaluation.Result

	cache *cache.LRU[*Response]

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
	evalCount    atomic.Int64
}

// NewEngine creates an engine with a freshly initialized model built from
// cfg.Model.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("invalid config: nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	model, err := sessiongraph.NewRandom(cfg.Model.Graph())
	if err != nil {
		return nil, fmt.Errorf("create model: %w", err)
	}

	e := &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
	}
	if cfg.Cache.Enabled {
		e.cache = cache.NewLRU[*Response](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	if err := e.SetModel(model, nil); err != nil {
		return nil, err
	}
	return e, nil
}

// SetModel swaps the served model and item count table and clears the
// response cache. counts may be nil, in which case popularity reads as 0.
// A nil model is rejected and leaves the served model unchanged.
func (e *Engine) SetModel(model *sessiongraph.Model, counts []float64) error {
	if model == nil {
		return fmt.Errorf("%w: nil model", ErrInvalidRequest)
	}
	e.modelMu.Lock()
	e.model = model
	e.counts = counts
	e.loadedAt = time.Now()
	version := e.version.Add(1)
	e.modelMu.Unlock()

	e.evalMu.Lock()
	e.lastEval = nil
	e.evalMu.Unlock()

	e.clearCache()

	cfg := model.Config()
	metrics.SetModelInfo(model.Params().Count(), cfg.NumItems)
	e.logger.Info().
		Int32("version", version).
		Int("items", cfg.NumItems).
		Int("hidden_size", cfg.HiddenSize).
		Int("parameters", model.Params().Count()).
		Msg("model loaded")
	return nil
}

// SetCounts replaces the item count table used for popularity and phi and
// clears the response cache, whose entries carry popularity values.
func (e *Engine) SetCounts(counts []float64) {
	e.modelMu.Lock()
	e.counts = counts
	e.modelMu.Unlock()

	e.clearCache()
}

func (e *Engine) clearCache() {
	if e.cache != nil {
		e.cache.Clear()
		metrics.SetCacheEntries(cacheName, 0)
	}
}

// SetHoldout sets the dataset used by EvaluateHoldout.
func (e *Engine) SetHoldout(d *dataset.Dataset) {
	e.evalMu.Lock()
	e.holdout = d
	e.evalMu.Unlock()
}

// snapshot returns the current model and count table.
func (e *Engine) snapshot() (*sessiongraph.Model, []float64, int) {
	e.modelMu.RLock()
	defer e.modelMu.RUnlock()
	return e.model, e.counts, int(e.version.Load())
}

// Recommend ranks every item as the next click of req.Items.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)
	logger.Debug().Int("session_length", len(req.Items)).Msg("processing recommendation request")

	resp, err := e.recommend(ctx, req, start, logger)
	status := "ok"
	switch {
	case err != nil:
		e.errorCount.Add(1)
		status = "error"
		logger.Warn().Err(err).Msg("recommendation failed")
	case resp.Metadata.CacheHit:
		status = "cache_hit"
	}
	metrics.RecordRecommendRequest(status, time.Since(start))
	return resp, err
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) recommend(ctx context.Context, req Request, start time.Time, logger zerolog.Logger) (*Response, error) {
	model, counts, version := e.snapshot()
	if err := e.validateRequest(req, model.Config().NumItems); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.RequestTimeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := e.cacheKey(req, version)
	if resp := e.tryGetCachedResponse(key, start, logger); resp != nil {
		return resp, nil
	}

	batch, err := dataset.BuildBatch([][]int{req.Items})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	forwardStart := time.Now()
	scores, err := model.Forward(batch)
	evaluation.ObserveForward("recommend", 1, time.Since(forwardStart), err)
	if err != nil {
		return nil, fmt.Errorf("score session: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	row := slices.Clone(scores.RawRowView(0))
	candidates := e.applyExclusions(row, req)
	items := buildScoredItems(row, evaluation.TopK(row, req.K), counts)

	resp := &Response{
		Items: items,
		Metadata: ResponseMetadata{
			RequestID:     req.RequestID,
			LatencyMS:     time.Since(start).Milliseconds(),
			ModelVersion:  version,
			SessionLength: len(req.Items),
			Candidates:    candidates,
			Timestamp:     time.Now(),
		},
	}
	e.cacheResponse(key, resp)

	logger.Debug().
		Int("candidates", candidates).
		Int("returned", len(items)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")
	return resp, nil
}

// prepareRequest applies defaults, truncates long sessions and generates a
// request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	if req.K == 0 {
		req.K = e.config.Limits.DefaultK
	}
	if req.K > e.config.Limits.MaxK {
		req.K = e.config.Limits.MaxK
	}
	if limit := e.config.Limits.MaxSessionLength; len(req.Items) > limit {
		req.Items = req.Items[len(req.Items)-limit:]
	}
	return req
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) validateRequest(req Request, numItems int) error {
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, sessiongraph.ErrEmptySession)
	}
	if req.K < 1 {
		return fmt.Errorf("%w: k must be positive, got %d", ErrInvalidRequest, req.K)
	}
	for i, id := range req.Items {
		if id < 1 || id >= numItems {
			return fmt.Errorf("%w: items[%d] = %d outside [1, %d): %w",
				ErrInvalidRequest, i, id, numItems, sessiongraph.ErrInvalidItem)
		}
	}
	return nil
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Int("k", req.K).
		Logger()
}

// applyExclusions sets excluded item scores to -Inf and returns the number
// of remaining candidates.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) applyExclusions(row []float64, req Request) int {
	exclude := func(id int) {
		if id >= 1 && id <= len(row) {
			row[id-1] = math.Inf(-1)
		}
	}
	for _, id := range req.ExcludeIDs {
		exclude(id)
	}
	if req.ExcludeSeen {
		for _, id := range req.Items {
			exclude(id)
		}
	}

	candidates := 0
	for _, s := range row {
		if !math.IsInf(s, -1) {
			candidates++
		}
	}
	return candidates
}

// buildScoredItems converts top column indices to items, dropping excluded
// entries.
func buildScoredItems(row []float64, top []int, counts []float64) []ScoredItem {
	items := make([]ScoredItem, 0, len(top))
	for _, idx := range top {
		if math.IsInf(row[idx], -1) {
			break
		}
		id := idx + 1
		item := ScoredItem{ItemID: id, Score: row[idx], Rank: len(items) + 1}
		if id < len(counts) {
			item.Popularity = counts[id]
		}
		items = append(items, item)
	}
	return items
}

// tryGetCachedResponse returns a copy of a cached response, or nil.
func (e *Engine) tryGetCachedResponse(key string, start time.Time, logger zerolog.Logger) *Response {
	if e.cache == nil {
		return nil
	}

	cached, ok := e.cache.Get(key)
	if !ok {
		e.cacheMisses.Add(1)
		metrics.RecordCacheMiss(cacheName)
		return nil
	}

	e.cacheHits.Add(1)
	metrics.RecordCacheHit(cacheName)
	resp := &Response{
		Items:    slices.Clone(cached.Items),
		Metadata: cached.Metadata,
	}
	resp.Metadata.CacheHit = true
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	resp.Metadata.Timestamp = time.Now()
	logger.Debug().Msg("cache hit")
	return resp
}

func (e *Engine) cacheResponse(key string, resp *Response) {
	if e.cache == nil {
		return
	}
	e.cache.Add(key, resp)
	metrics.SetCacheEntries(cacheName, e.cache.Len())
}

// cacheKey generates a cache key for a request. RequestID is not part of it.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) cacheKey(req Request, version int) string {
	var b strings.Builder
	b.WriteString("v")
	b.WriteString(strconv.Itoa(version))
	b.WriteString(":k")
	b.WriteString(strconv.Itoa(req.K))
	b.WriteString(":s")
	for _, id := range req.Items {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(id))
	}
	excluded := slices.Clone(req.ExcludeIDs)
	slices.Sort(excluded)
	b.WriteString(":x")
	for _, id := range slices.Compact(excluded) {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(id))
	}
	if req.ExcludeSeen {
		b.WriteString(":seen")
	}
	return b.String()
}

// Evaluate scores d with the current model and records the result as the
// latest evaluation.
func (e *Engine) Evaluate(ctx context.Context, d *dataset.Dataset) (evaluation.Result, error) {
	model, counts, version := e.snapshot()

	ctx, cancel := context.WithTimeout(ctx, e.config.Evaluation.Timeout)
	defer cancel()

	evaluator := evaluation.NewEvaluator(model, e.config.Evaluation.Evaluator(), counts, e.logger)
	result, err := evaluator.Evaluate(ctx, d)
	if err != nil {
		e.errorCount.Add(1)
		return evaluation.Result{}, fmt.Errorf("evaluate model v%d: %w", version, err)
	}
	e.evalCount.Add(1)

	// Only record the result when the model was not swapped meanwhile.
	if _, _, current := e.snapshot(); current == version {
		e.evalMu.Lock()
		e.lastEval = &result
		e.evalMu.Unlock()
	}
	return result, nil
}

// EvaluateHoldout evaluates the dataset registered with SetHoldout.
func (e *Engine) EvaluateHoldout(ctx context.Context) (evaluation.Result, error) {
	e.evalMu.RLock()
	holdout := e.holdout
	e.evalMu.RUnlock()

	if holdout == nil {
		return evaluation.Result{}, ErrNoHoldout
	}
	return e.Evaluate(ctx, holdout)
}

// LastEvaluation returns the most recent evaluation of the current model.
func (e *Engine) LastEvaluation() (evaluation.Result, bool) {
	e.evalMu.RLock()
	defer e.evalMu.RUnlock()
	if e.lastEval == nil {
		return evaluation.Result{}, false
	}
	return *e.lastEval, true
}

// ModelInfo describes the served model.
func (e *Engine) ModelInfo() ModelInfo {
	e.modelMu.RLock()
	model := e.model
	loadedAt := e.loadedAt
	version := int(e.version.Load())
	e.modelMu.RUnlock()

	cfg := model.Config()
	info := ModelInfo{
		Version:           version,
		LoadedAt:          loadedAt,
		NumItems:          cfg.NumItems,
		HiddenSize:        cfg.HiddenSize,
		Steps:             cfg.Steps,
		Heads:             cfg.Heads,
		Hybrid:            !cfg.NonHybrid,
		NormalizeHidden:   cfg.NormalizeHidden,
		MaskStarAttention: cfg.MaskStarAttention,
		Parameters:        model.Params().Count(),
		Seed:              cfg.Seed,
	}
	if result, ok := e.LastEvaluation(); ok {
		info.LastEvaluation = &result
	}
	return info
}

// Ready reports whether a model is loaded.
func (e *Engine) Ready() bool {
	e.modelMu.RLock()
	defer e.modelMu.RUnlock()
	return e.model != nil
}

// GetMetrics returns current engine counters.
func (e *Engine) GetMetrics() Metrics {
	m := Metrics{
		TotalRequests: e.requestCount.Load(),
		CacheHits:     e.cacheHits.Load(),
		CacheMisses:   e.cacheMisses.Load(),
		Errors:        e.errorCount.Load(),
		Evaluations:   e.evalCount.Load(),
	}
	if e.cache != nil {
		m.CacheEntries = e.cache.Len()
	}
	return m
}

// GetConfig returns a copy of the engine configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}
