// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package sessiongraph

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// goldenBatch is two sessions over n_node = 5 with L = 3: [1 2 3] and [4 4].
func goldenBatch() *Batch {
	return &Batch{
		Items: [][]int{{1, 2, 3}, {0, 4}},
		Adjacency: []*mat.Dense{
			mat.NewDense(3, 6, []float64{
				0, 0, 0, 0, 1, 0,
				1, 0, 0, 0, 0, 1,
				0, 1, 0, 0, 0, 0,
			}),
			mat.NewDense(2, 4, []float64{
				0, 0, 0, 0,
				0, 1, 0, 1,
			}),
		},
		Alias: [][]int{{0, 1, 2}, {1, 1, 0}},
		Mask:  [][]int{{1, 1, 1}, {1, 1, 0}},
	}
}

func TestScoreConstantParameters(t *testing.T) {
	// Zero weights everywhere except the hybrid projection bias make the
	// session vector LN(v) for every session, so each score is
	// 12·LN(v)·LN(e_j) and can be computed by hand.
	cfg := smallConfig()
	params := NewParams(cfg)
	params.Score.Transform.Bias = []float64{1, 2, 3, 4}
	params.Embedding = mat.NewDense(5, 4, []float64{
		9, 9, 9, 9,
		1, 2, 3, 4,
		4, 3, 2, 1,
		1, 1, 1, 1,
		2, 1, 2, 1,
	})
	m, err := New(cfg, params)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	scores, err := m.Forward(goldenBatch())
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}

	sv := math.Sqrt(1.25 + NormEpsilon)
	same := 12 * 5 / (1.25 + NormEpsilon)
	want := []float64{
		same,
		-same,
		0,
		12 * -1 / (sv * math.Sqrt(0.25+NormEpsilon)),
	}
	rows, cols := scores.Dims()
	if rows != 2 || cols != 4 {
		t.Fatalf("Forward() dims = %dx%d, want 2x4", rows, cols)
	}
	for b := 0; b < rows; b++ {
		assertVecApprox(t, "scores", scores.RawRowView(b), want)
	}
}

func TestScoreIgnoresPaddingRow(t *testing.T) {
	m := newTestModel(t, smallConfig())
	rng := rand.New(rand.NewPCG(5, 9))

	hidden := []*mat.Dense{mat.NewDense(3, 4, nil), mat.NewDense(3, 4, nil)}
	star := [][]float64{make([]float64, 4), make([]float64, 4)}
	for b := range hidden {
		for i := 0; i < 3; i++ {
			for j := 0; j < 4; j++ {
				hidden[b].Set(i, j, rng.NormFloat64())
			}
		}
		for j := range star[b] {
			star[b][j] = rng.NormFloat64()
		}
	}
	mask := [][]int{{1, 1, 1}, {1, 0, 0}}

	before, err := m.Score(hidden, star, mask)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if _, cols := before.Dims(); cols != 4 {
		t.Errorf("Score() width = %d, want %d", cols, 4)
	}

	m.Params().Embedding.SetRow(0, []float64{1e3, -1e3, 42, 0})
	after, err := m.Score(hidden, star, mask)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if !mat.Equal(before, after) {
		t.Errorf("Score() changed after perturbing row 0:\nbefore %v\nafter  %v",
			mat.Formatted(before), mat.Formatted(after))
	}
}

func TestScoreVariants(t *testing.T) {
	tests := []struct {
		name      string
		heads     int
		nonHybrid bool
	}{
		{"hybrid single head", 1, false},
		{"hybrid multi head", 3, false},
		{"non-hybrid", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(9)
			cfg.HiddenSize = 6
			cfg.Heads = tt.heads
			cfg.NonHybrid = tt.nonHybrid
			m := newTestModel(t, cfg)

			batch := randomBatch(rand.New(rand.NewPCG(1, 2)), 3, 5, cfg.NumItems)
			scores, err := m.Forward(batch)
			if err != nil {
				t.Fatalf("Forward() error = %v", err)
			}
			rows, cols := scores.Dims()
			if rows != 3 || cols != cfg.NumItems-1 {
				t.Errorf("Forward() dims = %dx%d, want 3x%d", rows, cols, cfg.NumItems-1)
			}
			assertAllFinite(t, "scores", scores)
		})
	}
}

func TestScoreContractErrors(t *testing.T) {
	m := newTestModel(t, smallConfig())
	hidden := []*mat.Dense{mat.NewDense(2, 4, nil)}
	star := [][]float64{make([]float64, 4)}

	tests := []struct {
		name    string
		hidden  []*mat.Dense
		star    [][]float64
		mask    [][]int
		wantErr error
	}{
		{"empty session", hidden, star, [][]int{{0, 0}}, ErrEmptySession},
		{"mask length", hidden, star, [][]int{{1}}, ErrShapeMismatch},
		{"star width", hidden, [][]float64{{1, 2}}, [][]int{{1, 1}}, ErrShapeMismatch},
		{"non-binary mask", hidden, star, [][]int{{1, 2}}, ErrShapeMismatch},
		{"batch mismatch", hidden, nil, [][]int{{1, 1}}, ErrShapeMismatch},
		{"empty batch", nil, nil, nil, ErrShapeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Score(tt.hidden, tt.star, tt.mask)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Score() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
