// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/starsession/internal/recommend/evaluation"
	"github.com/tomtom215/starsession/internal/recommend/sessiongraph"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Model contains the session-graph model hyperparameters.
	Model ModelConfig `json:"model"`

	// Evaluation contains offline evaluation settings.
	Evaluation EvaluationConfig `json:"evaluation"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains response caching parameters.
	Cache CacheConfig `json:"cache"`
}

// ModelConfig contains the model hyperparameters.
type ModelConfig struct {
	// NumItems is the size of the item vocabulary, padding id 0 included.
	NumItems int `json:"num_items"`

	// HiddenSize is the embedding and hidden-state width.
	// Default: 100.
	HiddenSize int `json:"hidden_size"`

	// Steps is the number of star refinement iterations.
	// Default: 1.
	Steps int `json:"steps"`

	// Heads is the number of soft-attention heads in the scoring head.
	// Default: 1.
	Heads int `json:"heads"`

	// NonHybrid scores with the pooled session vector only.
	// Default: false.
	NonHybrid bool `json:"non_hybrid"`

	// ScoreScale multiplies the cosine scores.
	// Default: 12.
	ScoreScale float64 `json:"score_scale"`

	// InitStd is the standard deviation of the parameter initialization.
	// Default: 0.1.
	InitStd float64 `json:"init_std"`

	// NormalizeHidden L2-normalizes node and sequence states.
	// Default: false.
	NormalizeHidden bool `json:"normalize_hidden"`

	// MaskStarAttention excludes padded nodes from the star readout.
	// Default: false.
	MaskStarAttention bool `json:"mask_star_attention"`

	// Seed drives parameter initialization.
	// Default: 42.
	Seed uint64 `json:"seed"`
}

// Graph converts the model settings to the core model configuration.
func (m ModelConfig) Graph() sessiongraph.Config {
	return sessiongraph.Config{
		NumItems:          m.NumItems,
		HiddenSize:        m.HiddenSize,
		Steps:             m.Steps,
		Heads:             m.Heads,
		NonHybrid:         m.NonHybrid,
		ScoreScale:        m.ScoreScale,
		InitStd:           m.InitStd,
		NormalizeHidden:   m.NormalizeHidden,
		MaskStarAttention: m.MaskStarAttention,
		Seed:              m.Seed,
	}
}

// EvaluationConfig contains offline evaluation settings.
type EvaluationConfig struct {
	// K is the ranking cutoff for hit rate, MRR and phi.
	// Default: 20.
	K int `json:"k"`

	// BatchSize is the number of sessions per forward pass.
	// Default: 100.
	BatchSize int `json:"batch_size"`

	// Workers bounds concurrently evaluated batches.
	// Default: 4.
	Workers int `json:"workers"`

	// Timeout bounds a single holdout evaluation.
	// Default: 30m.
	Timeout time.Duration `json:"timeout"`
}

// Evaluator converts the settings to the evaluator configuration.
func (e EvaluationConfig) Evaluator() evaluation.Config {
	return evaluation.Config{K: e.K, BatchSize: e.BatchSize, Workers: e.Workers}
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the default number of recommendations to return.
	// Default: 20.
	DefaultK int `json:"default_k"`

	// MaxK is the maximum allowed K value.
	// Default: 100.
	MaxK int `json:"max_k"`

	// MaxSessionLength keeps only the most recent items of longer sessions.
	// Default: 50.
	MaxSessionLength int `json:"max_session_length"`

	// RequestTimeout is the maximum time for a single recommendation.
	// Default: 5s.
	RequestTimeout time.Duration `json:"request_timeout"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached entries.
	// Default: 10000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with production defaults for a vocabulary
// of numItems ids.
func DefaultConfig(numItems int) *Config {
	graph := sessiongraph.DefaultConfig(numItems)
	return &Config{
		Model: ModelConfig{
			NumItems:          graph.NumItems,
			HiddenSize:        graph.HiddenSize,
			Steps:             graph.Steps,
			Heads:             graph.Heads,
			NonHybrid:         graph.NonHybrid,
			ScoreScale:        graph.ScoreScale,
			InitStd:           graph.InitStd,
			NormalizeHidden:   graph.NormalizeHidden,
			MaskStarAttention: graph.MaskStarAttention,
			Seed:              graph.Seed,
		},
		Evaluation: EvaluationConfig{
			K:         evaluation.DefaultK,
			BatchSize: 100,
			Workers:   4,
			Timeout:   30 * time.Minute,
		},
		Limits: LimitsConfig{
			DefaultK:         20,
			MaxK:             100,
			MaxSessionLength: 50,
			RequestTimeout:   5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if err := c.Model.Graph().Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}

	if c.Evaluation.K < 1 {
		return fmt.Errorf("evaluation.k must be positive, got %d", c.Evaluation.K)
	}
	if c.Evaluation.BatchSize < 1 {
		return fmt.Errorf("evaluation.batch_size must be positive, got %d", c.Evaluation.BatchSize)
	}
	if c.Evaluation.Workers < 1 {
		return fmt.Errorf("evaluation.workers must be positive, got %d", c.Evaluation.Workers)
	}
	if c.Evaluation.Timeout <= 0 {
		return fmt.Errorf("evaluation.timeout must be positive, got %v", c.Evaluation.Timeout)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.MaxSessionLength < 1 {
		return fmt.Errorf("limits.max_session_length must be positive, got %d", c.Limits.MaxSessionLength)
	}
	if c.Limits.RequestTimeout <= 0 {
		return fmt.Errorf("limits.request_timeout must be positive, got %v", c.Limits.RequestTimeout)
	}

	if c.Cache.Enabled {
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}
