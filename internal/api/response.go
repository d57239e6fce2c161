// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package api

import (
	"net/http"
	"time"
)

// APIResponse is the envelope of every JSON response.
//
// Status is "success" or "error". Data is null on error and Error is
// omitted on success.
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata describes how the response was produced.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError carries a machine-readable code and optional details.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ResponseWriter writes enveloped responses for one request.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a new response writer.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, startTime: time.Now()}
}

// Success writes a 200 response with data.
func (rw *ResponseWriter) Success(data any) {
	rw.SuccessWithMeta(data, Metadata{})
}

// SuccessWithMeta writes a 200 response, filling timestamp, request id and,
// when unset, the elapsed handler time.
func (rw *ResponseWriter) SuccessWithMeta(data any, meta Metadata) {
	rw.write(http.StatusOK, "success", data, meta, nil)
}

// Status writes data with an explicit status code and status string, as the
// readiness probe does for "not_ready".
func (rw *ResponseWriter) Status(code int, status string, data any) {
	rw.write(code, status, data, Metadata{}, nil)
}

// Error writes an error response.
func (rw *ResponseWriter) Error(code int, errCode, message string, details any) {
	rw.write(code, "error", nil, Metadata{}, &APIError{
		Code:    errCode,
		Message: message,
		Details: details,
	})
}

func (rw *ResponseWriter) write(code int, status string, data any, meta Metadata, apiErr *APIError) {
	meta.Timestamp = time.Now()
	meta.RequestID = requestIDOf(rw.r)
	if meta.QueryTimeMS == 0 {
		meta.QueryTimeMS = time.Since(rw.startTime).Milliseconds()
	}
	respondJSON(rw.w, code, &APIResponse{
		Status:   status,
		Data:     data,
		Metadata: meta,
		Error:    apiErr,
	})
}
