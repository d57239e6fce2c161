// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/starsession/internal/recommend"
	"github.com/tomtom215/starsession/internal/recommend/dataset"
)

func newEngineRouter(t *testing.T) (http.Handler, *recommend.Engine) {
	t.Helper()
	cfg := recommend.DefaultConfig(6)
	cfg.Model.HiddenSize = 4
	cfg.Model.Seed = 7
	cfg.Limits.DefaultK = 3

	engine, err := recommend.NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return NewRouter(NewHandler(engine, "test"), nil).SetupChi(), engine
}

func TestRouter_RecommendEndToEnd(t *testing.T) {
	h, _ := newEngineRouter(t)

	post := func() (*httptest.ResponseRecorder, recommend.Response) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/next",
			strings.NewReader(`{"items":[1,2,1],"exclude_seen":true}`)))
		var envelope struct {
			Status string             `json:"status"`
			Data   recommend.Response `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return rec, envelope.Data
	}

	rec, first := post()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(first.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(first.Items))
	}
	for _, item := range first.Items {
		if item.ItemID == 1 || item.ItemID == 2 {
			t.Errorf("seen item %d recommended with exclude_seen", item.ItemID)
		}
	}
	if first.Metadata.CacheHit {
		t.Error("first response CacheHit = true, want false")
	}

	_, second := post()
	if !second.Metadata.CacheHit {
		t.Error("second response CacheHit = false, want true")
	}
	for i := range first.Items {
		if first.Items[i].ItemID != second.Items[i].ItemID {
			t.Errorf("Items[%d] = %d, cached %d", i, first.Items[i].ItemID, second.Items[i].ItemID)
		}
	}
}

func TestRouter_UnknownItem(t *testing.T) {
	h, _ := newEngineRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/next",
		strings.NewReader(`{"items":[1,6]}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Error == nil || resp.Error.Code != ErrCodeInvalidItem {
		t.Errorf("Error = %+v, want %s", resp.Error, ErrCodeInvalidItem)
	}
}

func TestRouter_EvaluateHoldout(t *testing.T) {
	h, engine := newEngineRouter(t)

	holdout, err := dataset.New([]dataset.Session{
		{Items: []int{1, 2}, Target: 3},
		{Items: []int{4}, Target: 5},
	})
	if err != nil {
		t.Fatalf("dataset.New() error = %v", err)
	}
	engine.SetHoldout(holdout)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/model/evaluate", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("evaluate status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/model", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("model status = %d, want 200", rec.Code)
	}
	var envelope struct {
		Data recommend.ModelInfo `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.LastEvaluation == nil || envelope.Data.LastEvaluation.Sessions != 2 {
		t.Errorf("LastEvaluation = %+v, want 2 sessions", envelope.Data.LastEvaluation)
	}
	if envelope.Data.NumItems != 6 {
		t.Errorf("NumItems = %d, want 6", envelope.Data.NumItems)
	}
}

func TestRouter_NotFound(t *testing.T) {
	h, _ := newEngineRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("Error = %+v, want %s", resp.Error, ErrCodeNotFound)
	}
}

func TestRouter_Metrics(t *testing.T) {
	h, _ := newEngineRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Error("/metrics missing http_requests_total")
	}
}

func TestRouter_SecurityHeadersAndRequestID(t *testing.T) {
	h, _ := newEngineRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestRateLimit(t *testing.T) {
	mw := NewChiMiddlewareFromServer(nil, 2, time.Minute, false)
	h := NewRouter(NewHandler(&fakeEngine{}, "test"), mw).SetupChi()

	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first codes = %v, want 200s", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third code = %d, want 429", codes[2])
	}

	disabled := NewChiMiddlewareFromServer(nil, 1, time.Minute, true)
	h = NewRouter(NewHandler(&fakeEngine{}, "test"), disabled).SetupChi()
	for i := range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("request %d with rate limit disabled = %d, want 200", i, rec.Code)
		}
	}
}
