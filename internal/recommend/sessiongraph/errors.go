// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package sessiongraph

import (
	"errors"
	"fmt"
)

var (
	// ErrNonFinite is returned when a NaN or Inf appears at a checkpoint.
	// It signals numerical divergence and is never recoverable for the batch.
	ErrNonFinite = errors.New("non-finite value in model computation")

	// ErrShapeMismatch is returned when input tensors do not agree in shape.
	ErrShapeMismatch = errors.New("tensor shape mismatch")

	// ErrEmptySession is returned when a session has no valid positions.
	ErrEmptySession = errors.New("session has no valid positions")

	// ErrInvalidItem is returned for item ids outside the embedding table.
	ErrInvalidItem = errors.New("item id out of range")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid model configuration")
)

// NonFiniteError describes where a non-finite value was detected.
type NonFiniteError struct {
	// Checkpoint names the tensor that failed (star, alpha, hidden1, ...).
	Checkpoint string

	// Session is the index of the session within the batch.
	Session int

	// Step is the refinement step, or -1 outside the refinement loop.
	Step int

	// Index is the flat offset of the offending value.
	Index int

	// Value is the offending value.
	Value float64
}

// Error implements error.
func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("%v: %s[%d]=%v (session %d, step %d)",
		ErrNonFinite, e.Checkpoint, e.Index, e.Value, e.Session, e.Step)
}

// Unwrap allows errors.Is(err, ErrNonFinite).
func (e *NonFiniteError) Unwrap() error {
	return ErrNonFinite
}

// ShapeError describes a contract violation between tensor shapes.
type ShapeError struct {
	Op     string
	Detail string
}

// Error implements error.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrShapeMismatch, e.Detail)
}

// Unwrap allows errors.Is(err, ErrShapeMismatch).
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

func shapeErrorf(op, format string, args ...any) error {
	return &ShapeError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

// ErrorKind classifies err for reporting. It returns "non_finite",
// "shape", "invalid_item", "empty_session", "config" or "other".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrNonFinite):
		return "non_finite"
	case errors.Is(err, ErrShapeMismatch):
		return "shape"
	case errors.Is(err, ErrInvalidItem):
		return "invalid_item"
	case errors.Is(err, ErrEmptySession):
		return "empty_session"
	case errors.Is(err, ErrInvalidConfig):
		return "config"
	default:
		return "other"
	}
}
