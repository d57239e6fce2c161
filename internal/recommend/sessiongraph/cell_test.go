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

func TestPropagateShapePreserving(t *testing.T) {
	tests := []struct {
		name  string
		nodes int
		width int
	}{
		{"single node", 1, 1},
		{"small graph", 3, 4},
		{"wide", 5, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(6)
			cfg.HiddenSize = tt.width
			p := NewParams(cfg)
			p.InitNormal(0.1, 3)

			rng := rand.New(rand.NewPCG(11, 13))
			A := mat.NewDense(tt.nodes, 2*tt.nodes, nil)
			hidden := mat.NewDense(tt.nodes, tt.width, nil)
			for i := 0; i < tt.nodes; i++ {
				for j := 0; j < 2*tt.nodes; j++ {
					A.Set(i, j, rng.Float64())
				}
				for j := 0; j < tt.width; j++ {
					hidden.Set(i, j, rng.NormFloat64())
				}
			}
			before := mat.DenseCopyOf(hidden)

			got, err := p.Star.Cell.Propagate(A, hidden)
			if err != nil {
				t.Fatalf("Propagate() error = %v", err)
			}
			r, c := got.Dims()
			if r != tt.nodes || c != tt.width {
				t.Errorf("Propagate() dims = %dx%d, want %dx%d", r, c, tt.nodes, tt.width)
			}
			if !mat.Equal(hidden, before) {
				t.Error("Propagate() modified its input")
			}
			assertAllFinite(t, "Propagate()", got)
		})
	}
}

func TestPropagateZeroParamsHalvesState(t *testing.T) {
	// With every parameter zero both gates are sigmoid(0) = 0.5 and the
	// candidate is tanh(0) = 0, so h' = 0.5·h.
	cfg := DefaultConfig(4)
	cfg.HiddenSize = 3
	p := NewParams(cfg)

	A := mat.NewDense(2, 4, []float64{0, 1, 1, 0, 1, 0, 0, 1})
	hidden := mat.NewDense(2, 3, []float64{2, -4, 6, 1, 0, -1})

	got, err := p.Star.Cell.Propagate(A, hidden)
	if err != nil {
		t.Fatalf("Propagate() error = %v", err)
	}
	assertVecApprox(t, "row0", got.RawRowView(0), []float64{1, -2, 3})
	assertVecApprox(t, "row1", got.RawRowView(1), []float64{0.5, 0, -0.5})
}

func TestPropagateSineParameters(t *testing.T) {
	// Reference values from an independent scalar implementation of
	// r = σ(i_r+h_r), z = σ(i_i+h_i), n = tanh(i_n + r·h_n), h' = n + z·(h-n).
	cfg := DefaultConfig(4)
	cfg.HiddenSize = 2
	p := sineParams(cfg, 0.5)
	A, hidden := sineGraph()

	got, err := p.Star.Cell.Propagate(A, hidden)
	if err != nil {
		t.Fatalf("Propagate() error = %v", err)
	}
	assertVecApprox(t, "row0", got.RawRowView(0), []float64{0.33373956238998775, -0.02711183164705755})
	assertVecApprox(t, "row1", got.RawRowView(1), []float64{0.24837115682877614, 0.614601405070844})
}

func TestPropagateShapeMismatch(t *testing.T) {
	cfg := DefaultConfig(4)
	cfg.HiddenSize = 2
	p := NewParams(cfg)

	hidden := mat.NewDense(3, 2, nil)
	A := mat.NewDense(3, 3, nil)

	_, err := p.Star.Cell.Propagate(A, hidden)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("Propagate() error = %v, want ErrShapeMismatch", err)
	}
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) || shapeErr.Op != "propagate" {
		t.Errorf("Propagate() error = %#v, want *ShapeError with Op propagate", err)
	}
}

func TestModelPropagateBatchMismatch(t *testing.T) {
	m := newTestModel(t, smallConfig())
	_, err := m.Propagate([]*mat.Dense{mat.NewDense(1, 2, nil)}, nil)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Propagate() error = %v, want ErrShapeMismatch", err)
	}
}
