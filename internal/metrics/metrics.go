// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Model Metrics
	ModelForwardDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_forward_duration_seconds",
			Help:    "Duration of model forward passes in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"mode"}, // "evaluate", "recommend"
	)

	ModelBatchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_batch_sessions",
			Help:    "Number of sessions per forward pass",
			Buckets: []float64{1, 10, 50, 100, 250, 500, 1000},
		},
		[]string{"mode"},
	)

	ModelErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_errors_total",
			Help: "Total number of failed forward passes",
		},
		[]string{"mode", "error_type"}, // error_type: "non_finite", "shape", "other"
	)

	ModelNonFinite = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_non_finite_total",
			Help: "Total number of non-finite values detected, by checkpoint",
		},
		[]string{"checkpoint"}, // "star", "alpha", "hidden1", "hidden", "beta", "scores"
	)

	ModelParameters = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_parameters",
			Help: "Number of learned scalars in the loaded model",
		},
	)

	ModelItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_items",
			Help: "Number of scorable items in the loaded model",
		},
	)

	// Evaluation Metrics
	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evaluation_duration_seconds",
			Help:    "Duration of full evaluation runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		},
	)

	EvaluationSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evaluation_sessions",
			Help: "Number of sessions scored in the last evaluation",
		},
	)

	EvaluationHitRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evaluation_hit_rate_percent",
			Help: "Hit rate at K (x100) of the last evaluation",
		},
	)

	EvaluationMRR = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evaluation_mrr_percent",
			Help: "Mean reciprocal rank at K (x100) of the last evaluation",
		},
	)

	EvaluationPhi = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evaluation_popularity_bias",
			Help: "Mean item frequency of the top-K lists of the last evaluation",
		},
	)

	EvaluationLoss = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evaluation_loss",
			Help: "Mean cross-entropy of the last evaluation",
		},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of next-item recommendation requests",
		},
		[]string{"status"}, // "ok", "cached", "error"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Duration of next-item recommendation requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordForward records a forward pass over a batch of sessions.
// errorType is empty on success.
func RecordForward(mode string, sessions int, duration time.Duration, errorType string) {
	ModelForwardDuration.WithLabelValues(mode).Observe(duration.Seconds())
	ModelBatchSize.WithLabelValues(mode).Observe(float64(sessions))
	if errorType != "" {
		ModelErrors.WithLabelValues(mode, errorType).Inc()
	}
}

// RecordNonFinite records a divergence detected at the named checkpoint.
func RecordNonFinite(checkpoint string) {
	ModelNonFinite.WithLabelValues(checkpoint).Inc()
}

// SetModelInfo publishes the size of the loaded model.
func SetModelInfo(parameters, items int) {
	ModelParameters.Set(float64(parameters))
	ModelItems.Set(float64(items))
}

// RecordEvaluation publishes the outcome of an evaluation run.
func RecordEvaluation(hitRate, mrr, phi, loss float64, sessions int, duration time.Duration) {
	EvaluationDuration.Observe(duration.Seconds())
	EvaluationSessions.Set(float64(sessions))
	EvaluationHitRate.Set(hitRate)
	EvaluationMRR.Set(mrr)
	EvaluationPhi.Set(phi)
	EvaluationLoss.Set(loss)
}

// RecordRecommendRequest records a recommendation request outcome.
func RecordRecommendRequest(status string, duration time.Duration) {
	RecommendRequests.WithLabelValues(status).Inc()
	RecommendDuration.Observe(duration.Seconds())
}

// RecordCacheHit increments the hit counter of the named cache.
func RecordCacheHit(cache string) {
	CacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss increments the miss counter of the named cache.
func RecordCacheMiss(cache string) {
	CacheMisses.WithLabelValues(cache).Inc()
}

// SetCacheEntries publishes the current size of the named cache.
func SetCacheEntries(cache string, entries int) {
	CacheEntries.WithLabelValues(cache).Set(float64(entries))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
