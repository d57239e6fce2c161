// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

// Package validation wraps go-playground/validator v10 with a shared,
// thread-safe validator instance.
//
// It validates both API request bodies and the loaded server configuration:
//
//	type Request struct {
//	    Items []int `json:"items" validate:"required,min=1,dive,min=1"`
//	    K     int   `json:"k" validate:"omitempty,min=1"`
//	}
//
//	if err := validation.Struct(&req); err != nil {
//	    // err is validation.Errors; field paths use json names, e.g. "items[0]"
//	}
//
// Field paths use json tag names, falling back to koanf tag names, so error
// messages match the keys users actually wrote.
package validation
