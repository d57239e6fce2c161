// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

// Package main is the starsession command: a session-based next-item
// recommender built on star graph attention.
//
// # Commands
//
//	starsession serve      run the HTTP API under a supervisor tree
//	starsession evaluate   score a holdout file (hit rate, MRR, phi, loss)
//	starsession recommend  rank next items for one session
//	starsession prepare    turn click events into train/test session files
//
// # Configuration
//
// Configuration is loaded via koanf v2 (highest priority wins):
//   - Environment variables (MODEL_HIDDEN_SIZE, HTTP_PORT, LOG_LEVEL, ...)
//   - Config file (--config, CONFIG_PATH or config.yaml)
//   - Built-in defaults
//
// When model.num_items is 0 the vocabulary size is derived from the largest
// item id in the configured train and test files.
//
// # Signal Handling
//
// serve shuts down gracefully on SIGINT and SIGTERM: the HTTP server stops
// accepting connections, in-flight requests finish within
// server.shutdown_timeout and the evaluation loop is canceled.
//
// # Example Usage
//
//	starsession prepare --events clicks.jsonl --train-out train.jsonl --test-out test.jsonl
//	DATA_TRAIN_PATH=train.jsonl DATA_TEST_PATH=test.jsonl starsession evaluate
//	DATA_TRAIN_PATH=train.jsonl starsession recommend 12 7 12 --k 5
//	DATA_TRAIN_PATH=train.jsonl DATA_TEST_PATH=test.jsonl EVALUATION_ON_STARTUP=true starsession serve
package main

import (
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
