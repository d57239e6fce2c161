// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package sessiongraph

import "fmt"

const (
	// DefaultScoreScale multiplies every session/item dot product.
	DefaultScoreScale = 12.0

	// DefaultInitStd is the standard deviation of the N(0, std²) initializer.
	DefaultInitStd = 0.1

	// NormEpsilon is added to the variance inside every layer normalization.
	NormEpsilon = 1e-5

	// MaskEpsilon keeps the masked mean defined for sessions with no valid node.
	MaskEpsilon = 1e-6
)

// Config holds the model hyperparameters.
type Config struct {
	// NumItems is the embedding table size including padding row 0.
	// Scores cover items 1..NumItems-1.
	NumItems int

	// HiddenSize is the width of every node, star and session vector.
	// Default: 100
	HiddenSize int

	// Steps is the number of star refinement steps.
	// Typical range: 1-3
	// Default: 1
	Steps int

	// Heads is the number of scoring attention heads.
	// Must be 1 when NonHybrid is set.
	// Default: 1
	Heads int

	// NonHybrid skips the [pooled | last] projection in the scoring head.
	NonHybrid bool

	// ScoreScale multiplies session/item similarities.
	// Default: 12
	ScoreScale float64

	// InitStd is the standard deviation used by NewRandom.
	// Default: 0.1
	InitStd float64

	// NormalizeHidden L2-normalizes node and sequence states before scoring.
	NormalizeHidden bool

	// MaskStarAttention excludes padded nodes from the star-to-node softmax.
	// The default (false) attends over every node, padding included.
	MaskStarAttention bool

	// Seed drives parameter initialization in NewRandom.
	Seed uint64
}

// DefaultConfig returns the default hyperparameters for a table of numItems
// rows (padding included).
func DefaultConfig(numItems int) Config {
	return Config{
		NumItems:   numItems,
		HiddenSize: 100,
		Steps:      1,
		Heads:      1,
		ScoreScale: DefaultScoreScale,
		InitStd:    DefaultInitStd,
		Seed:       42,
	}
}

// Validate checks the hyperparameters for internal consistency.
func (c Config) Validate() error {
	if c.NumItems < 2 {
		return fmt.Errorf("%w: num_items must be >= 2, got %d", ErrInvalidConfig, c.NumItems)
	}
	if c.HiddenSize < 1 {
		return fmt.Errorf("%w: hidden_size must be positive, got %d", ErrInvalidConfig, c.HiddenSize)
	}
	if c.Steps < 1 {
		return fmt.Errorf("%w: steps must be >= 1, got %d", ErrInvalidConfig, c.Steps)
	}
	if c.Heads < 1 {
		return fmt.Errorf("%w: heads must be positive, got %d", ErrInvalidConfig, c.Heads)
	}
	if c.NonHybrid && c.Heads != 1 {
		return fmt.Errorf("%w: non-hybrid scoring requires heads == 1, got %d", ErrInvalidConfig, c.Heads)
	}
	if c.ScoreScale <= 0 {
		return fmt.Errorf("%w: score_scale must be positive, got %v", ErrInvalidConfig, c.ScoreScale)
	}
	if c.InitStd < 0 {
		return fmt.Errorf("%w: init_std must be non-negative, got %v", ErrInvalidConfig, c.InitStd)
	}
	return nil
}
