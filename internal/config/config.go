// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/starsession/internal/validation"
)

// Config holds all application configuration.
//
// Loading order (koanf v2):
//  1. Defaults from defaultConfig
//  2. Optional YAML file (CONFIG_PATH, --config or config.yaml)
//  3. Environment variables, see envMappings
//
// Config is immutable after loading and safe for concurrent reads.
type Config struct {
	Model      ModelConfig      `koanf:"model"`
	Evaluation EvaluationConfig `koanf:"evaluation"`
	Data       DataConfig       `koanf:"data"`
	Server     ServerConfig     `koanf:"server"`
	Limits     LimitsConfig     `koanf:"limits"`
	Cache      CacheConfig      `koanf:"cache"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ModelConfig holds the session-graph model hyperparameters.
//
// Environment variables:
//   - MODEL_NUM_ITEMS: vocabulary size incl. padding; 0 derives it from the data (default: 0)
//   - MODEL_HIDDEN_SIZE: embedding width (default: 100)
//   - MODEL_STEPS: star refinement iterations (default: 1)
//   - MODEL_HEADS: soft-attention heads (default: 1)
//   - MODEL_NON_HYBRID: score with the pooled vector only (default: false)
//   - MODEL_SCORE_SCALE: cosine score multiplier (default: 12)
//   - MODEL_INIT_STD: initialization standard deviation (default: 0.1)
//   - MODEL_NORMALIZE_HIDDEN: L2-normalize node states (default: false)
//   - MODEL_MASK_STAR_ATTENTION: exclude padding from the star readout (default: false)
//   - MODEL_SEED: initialization seed (default: 42)
type ModelConfig struct {
	NumItems          int     `koanf:"num_items" validate:"gte=0"`
	HiddenSize        int     `koanf:"hidden_size" validate:"min=1,max=4096"`
	Steps             int     `koanf:"steps" validate:"min=1,max=32"`
	Heads             int     `koanf:"heads" validate:"min=1,max=64"`
	NonHybrid         bool    `koanf:"non_hybrid"`
	ScoreScale        float64 `koanf:"score_scale" validate:"gt=0"`
	InitStd           float64 `koanf:"init_std" validate:"gte=0"`
	NormalizeHidden   bool    `koanf:"normalize_hidden"`
	MaskStarAttention bool    `koanf:"mask_star_attention"`
	Seed              uint64  `koanf:"seed"`
}

// EvaluationConfig holds offline and scheduled evaluation settings.
//
// Environment variables:
//   - EVALUATION_K: ranking cutoff (default: 20)
//   - EVALUATION_BATCH_SIZE: sessions per forward pass (default: 100)
//   - EVALUATION_WORKERS: concurrently scored batches (default: 4)
//   - EVALUATION_TIMEOUT: bound on one evaluation (default: 30m)
//   - EVALUATION_INTERVAL: holdout re-evaluation period in serve mode (default: 1h)
//   - EVALUATION_ON_STARTUP: evaluate the holdout set when serving starts (default: false)
type EvaluationConfig struct {
	K         int           `koanf:"k" validate:"min=1,max=1000"`
	BatchSize int           `koanf:"batch_size" validate:"min=1"`
	Workers   int           `koanf:"workers" validate:"min=1,max=256"`
	Timeout   time.Duration `koanf:"timeout" validate:"gt=0"`
	Interval  time.Duration `koanf:"interval" validate:"gt=0"`
	OnStartup bool          `koanf:"on_startup"`
}

// DataConfig locates session files.
//
// Environment variables:
//   - DATA_TRAIN_PATH: JSON-lines training sessions used for the count table
//   - DATA_TEST_PATH: JSON-lines holdout sessions used for evaluation
type DataConfig struct {
	TrainPath string `koanf:"train_path"`
	TestPath  string `koanf:"test_path"`
}

// ServerConfig holds HTTP server settings.
//
// Environment variables:
//   - HTTP_HOST (default: 0.0.0.0)
//   - HTTP_PORT (default: 8080)
//   - HTTP_READ_TIMEOUT (default: 10s)
//   - HTTP_WRITE_TIMEOUT (default: 30s)
//   - HTTP_SHUTDOWN_TIMEOUT (default: 10s)
//   - RATE_LIMIT_REQUESTS per RATE_LIMIT_WINDOW and client IP (default: 100 per 1m)
//   - DISABLE_RATE_LIMIT (default: false)
//   - CORS_ORIGINS: comma-separated (default: *)
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout       time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	RateLimitReqs     int           `koanf:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Address returns the listen address.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LimitsConfig holds per-request limits.
//
// Environment variables:
//   - DEFAULT_K (default: 20)
//   - MAX_K (default: 100)
//   - MAX_SESSION_LENGTH (default: 50)
//   - REQUEST_TIMEOUT (default: 5s)
type LimitsConfig struct {
	DefaultK         int           `koanf:"default_k" validate:"min=1"`
	MaxK             int           `koanf:"max_k" validate:"min=1"`
	MaxSessionLength int           `koanf:"max_session_length" validate:"min=1"`
	RequestTimeout   time.Duration `koanf:"request_timeout" validate:"gt=0"`
}

// CacheConfig holds response cache settings.
//
// Environment variables:
//   - CACHE_ENABLED (default: true)
//   - CACHE_TTL (default: 5m)
//   - CACHE_MAX_ENTRIES (default: 10000)
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	TTL        time.Duration `koanf:"ttl" validate:"gte=0"`
	MaxEntries int           `koanf:"max_entries" validate:"gte=0"`
}

// LoggingConfig holds logging settings.
//
// Environment variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: include file and line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks field rules and cross-field constraints.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	if c.Model.NumItems == 1 {
		return fmt.Errorf("model.num_items must be 0 (derive from data) or >= 2, got 1")
	}
	if c.Model.NonHybrid && c.Model.Heads != 1 {
		return fmt.Errorf("model.heads must be 1 when model.non_hybrid is set, got %d", c.Model.Heads)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Cache.Enabled && (c.Cache.MaxEntries < 1 || c.Cache.TTL <= 0) {
		return fmt.Errorf("cache.max_entries and cache.ttl must be positive when the cache is enabled")
	}
	if c.Evaluation.OnStartup && c.Data.TestPath == "" {
		return fmt.Errorf("evaluation.on_startup requires data.test_path")
	}
	return nil
}

// RequireVocabulary reports an error when no vocabulary size can be
// determined: neither model.num_items nor any data path is set.
func (c *Config) RequireVocabulary() error {
	if c.Model.NumItems == 0 && c.Data.TrainPath == "" && c.Data.TestPath == "" {
		return fmt.Errorf("model.num_items is 0 and no data path is configured; set MODEL_NUM_ITEMS or DATA_TRAIN_PATH")
	}
	return nil
}
