// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/starsession/internal/recommend/evaluation"
)

// HoldoutEvaluator evaluates the served model on its holdout set.
// *recommend.Engine implements it.
type HoldoutEvaluator interface {
	EvaluateHoldout(ctx context.Context) (evaluation.Result, error)
}

// EvaluationServiceConfig holds configuration for the evaluation service.
type EvaluationServiceConfig struct {
	// EvaluateOnStartup runs one evaluation when the service starts.
	EvaluateOnStartup bool

	// Interval is how often to re-evaluate. Default: 1h.
	Interval time.Duration

	// Timeout bounds a single evaluation. Default: 30m.
	Timeout time.Duration
}

// EvaluationService periodically scores the holdout set so the hit rate,
// MRR and phi gauges track the served model.
type EvaluationService struct {
	evaluator HoldoutEvaluator
	config    EvaluationServiceConfig
	logger    zerolog.Logger
	name      string
}

// NewEvaluationService creates a new evaluation service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEvaluationService(evaluator HoldoutEvaluator, cfg EvaluationServiceConfig, logger zerolog.Logger) *EvaluationService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &EvaluationService{
		evaluator: evaluator,
		config:    cfg,
		logger:    logger.With().Str("service", "evaluation").Logger(),
		name:      "evaluation-service",
	}
}

// Serve implements suture.Service. Failed evaluations are logged and
// retried on the next tick rather than restarting the service.
func (s *EvaluationService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("evaluate_on_startup", s.config.EvaluateOnStartup).
		Dur("interval", s.config.Interval).
		Msg("evaluation service starting")

	if s.config.EvaluateOnStartup {
		if err := s.evaluate(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("initial evaluation failed (will retry on schedule)")
		}
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("evaluation service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.evaluate(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled evaluation failed")
			}
		}
	}
}

func (s *EvaluationService) evaluate(ctx context.Context) error {
	evalCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	result, err := s.evaluator.EvaluateHoldout(evalCtx)
	if err != nil {
		return err
	}

	s.logger.Info().
		Int("sessions", result.Sessions).
		Float64("hit_rate", result.HitRate).
		Float64("mrr", result.MRR).
		Dur("duration", time.Since(start)).
		Msg("holdout evaluation complete")
	return nil
}

// String returns the service name for logging.
func (s *EvaluationService) String() string {
	return s.name
}
