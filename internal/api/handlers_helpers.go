// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/starsession/internal/logging"
	"github.com/tomtom215/starsession/internal/middleware"
	"github.com/tomtom215/starsession/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// sanitizeLogValue escapes control characters so request data cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondError logs err, if any, and writes the mapped error response.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	m := mapError(err)
	logger := logging.Ctx(r.Context())
	event := logger.Debug()
	if m.status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", m.code).Str("error", sanitizeLogValue(err.Error())).Msg("API error")

	var details any
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		details = verrs
	} else if m.status < http.StatusInternalServerError {
		details = map[string]string{"reason": err.Error()}
	}
	NewResponseWriter(w, r).Error(m.status, m.code, m.message, details)
}

// decodeJSON decodes a bounded JSON body into v and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		NewResponseWriter(w, r).Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large", nil)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		NewResponseWriter(w, r).Error(http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid JSON body", map[string]string{"reason": err.Error()})
		return false
	}
	if err := validation.Struct(v); err != nil {
		respondError(w, r, err)
		return false
	}
	return true
}

func requestIDOf(r *http.Request) string {
	if r == nil {
		return ""
	}
	return middleware.GetRequestID(r.Context())
}
