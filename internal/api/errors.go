// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/starsession/internal/recommend"
	"github.com/tomtom215/starsession/internal/recommend/sessiongraph"
	"github.com/tomtom215/starsession/internal/validation"
)

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInvalidItem        = "INVALID_ITEM"
	ErrCodeEmptySession       = "EMPTY_SESSION"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeModelError         = "MODEL_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeNoHoldout          = "NO_HOLDOUT"
)

// errorMapping is the HTTP view of an engine error.
type errorMapping struct {
	status  int
	code    string
	message string
}

// mapError classifies engine errors. Order matters: contract violations are
// checked before the generic invalid-request wrapper that carries them.
func mapError(err error) errorMapping {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return errorMapping{http.StatusBadRequest, ErrCodeValidationFailed, "Request validation failed"}
	case errors.Is(err, sessiongraph.ErrEmptySession):
		return errorMapping{http.StatusBadRequest, ErrCodeEmptySession, "Session has no items"}
	case errors.Is(err, sessiongraph.ErrInvalidItem):
		return errorMapping{http.StatusBadRequest, ErrCodeInvalidItem, "Item id outside the model vocabulary"}
	case errors.Is(err, recommend.ErrInvalidRequest):
		return errorMapping{http.StatusBadRequest, ErrCodeBadRequest, "Invalid recommendation request"}
	case errors.Is(err, recommend.ErrNoHoldout):
		return errorMapping{http.StatusNotFound, ErrCodeNoHoldout, "No holdout dataset loaded"}
	case errors.Is(err, context.DeadlineExceeded):
		return errorMapping{http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out"}
	case errors.Is(err, context.Canceled):
		return errorMapping{http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Request canceled"}
	case errors.Is(err, sessiongraph.ErrNonFinite), errors.Is(err, sessiongraph.ErrShapeMismatch):
		return errorMapping{http.StatusInternalServerError, ErrCodeModelError, "Model failed to score the session"}
	default:
		return errorMapping{http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"}
	}
}
