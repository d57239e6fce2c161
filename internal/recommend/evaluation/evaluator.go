// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package evaluation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/starsession/internal/metrics"
	"github.com/tomtom215/starsession/internal/recommend/dataset"
	"github.com/tomtom215/starsession/internal/recommend/sessiongraph"
)

// Forwarder scores a padded batch. *sessiongraph.Model implements it.
type Forwarder interface {
	Forward(batch *sessiongraph.Batch) (*mat.Dense, error)
}

// Config holds evaluator settings.
type Config struct {
	// K is the ranking cutoff.
	// Default: 20
	K int

	// BatchSize is the number of sessions per forward pass.
	// Default: 100
	BatchSize int

	// Workers bounds the number of batches scored concurrently.
	// Default: 4
	Workers int
}

// DefaultConfig returns the default evaluator settings.
func DefaultConfig() Config {
	return Config{K: DefaultK, BatchSize: 100, Workers: 4}
}

// Evaluator scores a dataset batch by batch.
type Evaluator struct {
	model  Forwarder
	cfg    Config
	counts []float64
	logger zerolog.Logger
}

// NewEvaluator creates an evaluator. counts is the per-item frequency table
// used for phi and may be nil. Zero config fields take their defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEvaluator(model Forwarder, cfg Config, counts []float64, logger zerolog.Logger) *Evaluator {
	defaults := DefaultConfig()
	if cfg.K <= 0 {
		cfg.K = defaults.K
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	return &Evaluator{
		model:  model,
		cfg:    cfg,
		counts: counts,
		logger: logger.With().Str("component", "evaluation").Logger(),
	}
}

// Evaluate scores every session in d and returns the aggregated metrics.
// The first failing batch cancels the remaining work and its error is
// returned wrapped with the batch index.
func (e *Evaluator) Evaluate(ctx context.Context, d *dataset.Dataset) (Result, error) {
	start := time.Now()
	batches := d.Batches(e.cfg.BatchSize, nil)
	partial := make([]*Accumulator, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, indices := range batches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			acc, err := e.evaluateBatch(d, indices)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i, err)
			}
			partial[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Error().Err(err).Int("batches", len(batches)).Msg("evaluation failed")
		return Result{}, err
	}

	total := NewAccumulator(e.cfg.K, e.counts)
	for _, acc := range partial {
		total.Merge(acc)
	}
	result := total.Result()
	duration := time.Since(start)

	metrics.RecordEvaluation(result.HitRate, result.MRR, result.Phi, result.Loss, result.Sessions, duration)
	e.logger.Info().
		Int("sessions", result.Sessions).
		Int("k", result.K).
		Float64("hit_rate", result.HitRate).
		Float64("mrr", result.MRR).
		Float64("phi", result.Phi).
		Float64("loss", result.Loss).
		Dur("duration", duration).
		Msg("evaluation complete")
	return result, nil
}

func (e *Evaluator) evaluateBatch(d *dataset.Dataset, indices []int) (*Accumulator, error) {
	slice, err := d.Slice(indices)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scores, err := e.model.Forward(&slice.Batch)
	ObserveForward("evaluate", len(indices), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	acc := NewAccumulator(e.cfg.K, e.counts)
	for b, target := range slice.Targets {
		if err := acc.Add(scores.RawRowView(b), target); err != nil {
			return nil, fmt.Errorf("session %d: %w", indices[b], err)
		}
	}
	return acc, nil
}

// ObserveForward records forward-pass metrics, including the checkpoint of
// a non-finite failure.
func ObserveForward(mode string, sessions int, duration time.Duration, err error) {
	kind := ""
	if err != nil {
		kind = sessiongraph.ErrorKind(err)
		var nf *sessiongraph.NonFiniteError
		if errors.As(err, &nf) {
			metrics.RecordNonFinite(nf.Checkpoint)
		}
	}
	metrics.RecordForward(mode, sessions, duration, kind)
}
