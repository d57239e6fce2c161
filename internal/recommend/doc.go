// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

// Package recommend serves next-item recommendations for anonymous sessions.
//
// # Architecture
//
// The Engine wraps a star session-graph model (package sessiongraph) and
// turns a live click sequence into a ranked list of items:
//
//   - the session is truncated to the most recent MaxSessionLength clicks
//   - dataset.BuildBatch turns it into a one-session padded graph batch
//   - the model scores every item id
//   - excluded ids are dropped and the top K are returned
//
// Responses are cached in a TTL LRU keyed by the session, K, exclusions and
// model version. Swapping the model with SetModel clears the cache.
//
// # Evaluation
//
// Evaluate and EvaluateHoldout run the offline evaluator (package
// evaluation) against the served model and keep the latest result, which is
// reported through ModelInfo.
//
// # Usage
//
//	cfg := recommend.DefaultConfig(numItems)
//	engine, err := recommend.NewEngine(cfg, logger)
//	if err != nil {
//	    return err
//	}
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    Items: []int{12, 7, 12},
//	    K:     20,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Recommendation and evaluation take
// a shared lock on the model; SetModel takes an exclusive lock.
package recommend
