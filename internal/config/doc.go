// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

// Package config loads the server and CLI configuration with koanf v2.
//
// Sources are layered, later ones winning:
//
//  1. built-in defaults
//  2. a YAML file: the --config flag, CONFIG_PATH, or the first of
//     DefaultConfigPaths that exists
//  3. environment variables listed in envMappings
//
// Example config.yaml:
//
//	model:
//	  hidden_size: 100
//	  steps: 1
//	  heads: 2
//	data:
//	  train_path: /data/train.jsonl
//	  test_path: /data/test.jsonl
//	server:
//	  port: 8080
//	  cors_origins: ["https://shop.example.com"]
//
// Field rules are go-playground/validator tags checked through package
// validation; Validate adds the cross-field checks.
package config
