// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/starsession/internal/config"
	"github.com/tomtom215/starsession/internal/recommend"
	"github.com/tomtom215/starsession/internal/recommend/dataset"
)

// engineComponents holds the engine and the data it was built from.
type engineComponents struct {
	Engine   *recommend.Engine
	Train    []dataset.Session
	Holdout  *dataset.Dataset
	NumItems int
}

// initEngine loads the configured session files, sizes the vocabulary,
// builds the engine and installs the count table and holdout set.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEngine(cfg *config.Config, logger zerolog.Logger) (*engineComponents, error) {
	if err := cfg.RequireVocabulary(); err != nil {
		return nil, err
	}

	train, err := loadSessions(cfg.Data.TrainPath)
	if err != nil {
		return nil, err
	}
	test, err := loadSessions(cfg.Data.TestPath)
	if err != nil {
		return nil, err
	}

	numItems, err := resolveNumItems(cfg.Model.NumItems, train, test)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("num_items", numItems).
		Int("train_sessions", len(train)).
		Int("test_sessions", len(test)).
		Int("hidden_size", cfg.Model.HiddenSize).
		Int("steps", cfg.Model.Steps).
		Int("heads", cfg.Model.Heads).
		Msg("initializing recommendation engine")

	engine, err := recommend.NewEngine(buildEngineConfig(cfg, numItems), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation engine: %w", err)
	}
	engine.SetCounts(dataset.CountTable(train, numItems))

	comps := &engineComponents{Engine: engine, Train: train, NumItems: numItems}
	if len(test) > 0 {
		holdout, err := dataset.New(test)
		if err != nil {
			return nil, fmt.Errorf("failed to build holdout set: %w", err)
		}
		engine.SetHoldout(holdout)
		comps.Holdout = holdout
	}
	return comps, nil
}

func loadSessions(path string) ([]dataset.Session, error) {
	if path == "" {
		return nil, nil
	}
	sessions, err := dataset.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	return sessions, nil
}

// resolveNumItems returns configured when positive, else one more than the
// largest id in the data. A configured size must cover every id seen.
func resolveNumItems(configured int, sessions ...[]dataset.Session) (int, error) {
	highest := 0
	for _, s := range sessions {
		highest = max(highest, dataset.MaxItemID(s))
	}

	if configured > 0 {
		if highest >= configured {
			return 0, fmt.Errorf("data references item %d but model.num_items is %d", highest, configured)
		}
		return configured, nil
	}
	if highest < 1 {
		return 0, fmt.Errorf("no item ids found in data; set model.num_items")
	}
	return highest + 1, nil
}

// buildEngineConfig creates the engine configuration from app config.
func buildEngineConfig(cfg *config.Config, numItems int) *recommend.Config {
	return &recommend.Config{
		Model: recommend.ModelConfig{
			NumItems:          numItems,
			HiddenSize:        cfg.Model.HiddenSize,
			Steps:             cfg.Model.Steps,
			Heads:             cfg.Model.Heads,
			NonHybrid:         cfg.Model.NonHybrid,
			ScoreScale:        cfg.Model.ScoreScale,
			InitStd:           cfg.Model.InitStd,
			NormalizeHidden:   cfg.Model.NormalizeHidden,
			MaskStarAttention: cfg.Model.MaskStarAttention,
			Seed:              cfg.Model.Seed,
		},
		Evaluation: recommend.EvaluationConfig{
			K:         cfg.Evaluation.K,
			BatchSize: cfg.Evaluation.BatchSize,
			Workers:   cfg.Evaluation.Workers,
			Timeout:   cfg.Evaluation.Timeout,
		},
		Limits: recommend.LimitsConfig{
			DefaultK:         cfg.Limits.DefaultK,
			MaxK:             cfg.Limits.MaxK,
			MaxSessionLength: cfg.Limits.MaxSessionLength,
			RequestTimeout:   cfg.Limits.RequestTimeout,
		},
		Cache: recommend.CacheConfig{
			Enabled:    cfg.Cache.Enabled,
			TTL:        cfg.Cache.TTL,
			MaxEntries: cfg.Cache.MaxEntries,
		},
	}
}
