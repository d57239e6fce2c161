// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package sessiongraph

import (
	"errors"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"too few items", func(c *Config) { c.NumItems = 1 }, true},
		{"zero hidden", func(c *Config) { c.HiddenSize = 0 }, true},
		{"zero steps", func(c *Config) { c.Steps = 0 }, true},
		{"zero heads", func(c *Config) { c.Heads = 0 }, true},
		{"non-hybrid multi head", func(c *Config) { c.NonHybrid = true; c.Heads = 2 }, true},
		{"non-hybrid single head", func(c *Config) { c.NonHybrid = true }, false},
		{"zero scale", func(c *Config) { c.ScoreScale = 0 }, true},
		{"negative std", func(c *Config) { c.InitStd = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(10)
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestForwardDeterministic(t *testing.T) {
	cfg := smallConfig()
	batch := randomBatch(rand.New(rand.NewPCG(3, 4)), 2, 3, cfg.NumItems)

	first, err := newTestModel(t, cfg).Forward(batch)
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	second, err := newTestModel(t, cfg).Forward(batch)
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if !mat.Equal(first, second) {
		t.Errorf("Forward() not reproducible:\n%v\n%v", mat.Formatted(first), mat.Formatted(second))
	}

	cfg.Seed++
	other, err := newTestModel(t, cfg).Forward(batch)
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if mat.Equal(first, other) {
		t.Error("Forward() identical for different seeds")
	}
}

func TestForwardGoldenSeeded(t *testing.T) {
	// n_node = 5, H = 4, B = 2, L = 3, seed 7, N(0, 0.1²) init from the PCG
	// stream. Values come from an independent reference of the full forward.
	m := newTestModel(t, smallConfig())

	assertVecApprox(t, "embedding[0]", m.Params().Embedding.RawRowView(0), []float64{
		0.10559851816863955, -0.036838883298943026, 0.019439714692876666, 0.013589146817252118,
	})

	scores, err := m.Forward(goldenBatch())
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	want := [][]float64{
		{-0.5267332454026513, -0.3624572315499327, -0.26766585816599764, -0.20800666638217025},
		{-0.47148910542114175, -0.401197110510214, -0.29960370152522986, -0.1772779701237665},
	}
	rows, cols := scores.Dims()
	if rows != 2 || cols != 4 {
		t.Fatalf("Forward() dims = %dx%d, want 2x4", rows, cols)
	}
	for b := range want {
		assertVecApprox(t, "scores", scores.RawRowView(b), want[b])
	}
}

func TestForwardRandomizedFinite(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		cfg := DefaultConfig(12)
		cfg.HiddenSize = 8
		cfg.Steps = 1 + int(seed%3)
		cfg.Heads = 1 + int(seed%2)
		cfg.NormalizeHidden = seed%4 == 0
		cfg.MaskStarAttention = seed%5 == 0
		cfg.Seed = seed
		m := newTestModel(t, cfg)

		batch := randomBatch(rand.New(rand.NewPCG(seed, 99)), 4, 6, cfg.NumItems)
		hidden, star, err := m.Encode(batch.Items, batch.Adjacency, batch.Mask)
		if err != nil {
			t.Fatalf("seed %d: Encode() error = %v", seed, err)
		}
		for b := range hidden {
			assertAllFinite(t, "hidden", hidden[b])
			assertAllFinite(t, "star", mat.NewDense(1, len(star[b]), star[b]))
		}

		scores, err := m.Forward(batch)
		if err != nil {
			t.Fatalf("seed %d: Forward() error = %v", seed, err)
		}
		if rows, cols := scores.Dims(); rows != 4 || cols != cfg.NumItems-1 {
			t.Fatalf("seed %d: Forward() dims = %dx%d", seed, rows, cols)
		}
		assertAllFinite(t, "scores", scores)
	}
}

func TestGather(t *testing.T) {
	hidden := []*mat.Dense{mat.NewDense(2, 2, []float64{1, 2, 3, 4})}

	got, err := Gather(hidden, [][]int{{1, 1, 0}})
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	want := mat.NewDense(3, 2, []float64{3, 4, 3, 4, 1, 2})
	if !mat.Equal(got[0], want) {
		t.Errorf("Gather() = %v, want %v", mat.Formatted(got[0]), mat.Formatted(want))
	}

	if _, err := Gather(hidden, [][]int{{2}}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Gather(out of range) error = %v, want ErrShapeMismatch", err)
	}
	if _, err := Gather(hidden, nil); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Gather(batch mismatch) error = %v, want ErrShapeMismatch", err)
	}
}

func TestEmbedInvalidItem(t *testing.T) {
	m := newTestModel(t, smallConfig())
	tests := []struct {
		name    string
		items   [][]int
		wantErr error
	}{
		{"negative id", [][]int{{-1}}, ErrInvalidItem},
		{"id past table", [][]int{{5}}, ErrInvalidItem},
		{"empty session", [][]int{{}}, ErrEmptySession},
		{"empty batch", nil, ErrShapeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Embed(tt.items)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Embed() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEmbedNormalizes(t *testing.T) {
	m := newTestModel(t, smallConfig())
	got, err := m.Embed([][]int{{1, 2}})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	want := m.Params().EmbeddingNorm.Vec(m.Params().Embedding.RawRowView(2))
	assertVecApprox(t, "row1", got[0].RawRowView(1), want)
}

func TestParamsCount(t *testing.T) {
	p := NewParams(smallConfig())
	if got := p.Count(); got != 476 {
		t.Errorf("Count() = %d, want 476", got)
	}
}

func TestNewRejectsMismatchedParams(t *testing.T) {
	cfg := smallConfig()
	params := NewParams(cfg)
	params.Star.Gate = NewLinear(4, 4, true)

	if _, err := New(cfg, params); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("New() error = %v, want ErrShapeMismatch", err)
	}
	if _, err := New(cfg, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New(nil) error = %v, want ErrInvalidConfig", err)
	}
}

func TestInitNormalSeeded(t *testing.T) {
	a, b := NewParams(smallConfig()), NewParams(smallConfig())
	a.InitNormal(0.1, 1)
	b.InitNormal(0.1, 1)
	if !mat.Equal(a.Embedding, b.Embedding) {
		t.Error("InitNormal() with equal seeds produced different embeddings")
	}
	if a.EmbeddingNorm.Gain[0] == 1 {
		t.Error("InitNormal() left the norm gain at its identity value")
	}
}
