// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package sessiongraph

import (
	"math"
	"math/rand/v2"
	"sort"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const tolerance = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Abs(b))
}

func assertVecApprox(t *testing.T, name string, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: len = %d, want %d", name, len(got), len(want))
	}
	for i := range want {
		if !approxEqual(got[i], want[i]) {
			t.Errorf("%s[%d] = %v, want %v", name, i, got[i], want[i])
		}
	}
}

func assertAllFinite(t *testing.T, name string, m *mat.Dense) {
	t.Helper()
	rows, _ := m.Dims()
	for i := 0; i < rows; i++ {
		for j, v := range m.RawRowView(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("%s[%d,%d] = %v, want finite", name, i, j, v)
			}
		}
	}
}

func newTestModel(t *testing.T, cfg Config) *Model {
	t.Helper()
	m, err := NewRandom(cfg)
	if err != nil {
		t.Fatalf("NewRandom() error = %v", err)
	}
	return m
}

func smallConfig() Config {
	cfg := DefaultConfig(5)
	cfg.HiddenSize = 4
	cfg.Seed = 7
	return cfg
}

// randomBatch builds a padded batch of random sessions with the graph layout
// Forward expects: sorted unique node ids (0 included when padded),
// row-normalized in/out adjacency, alias and mask.
func randomBatch(rng *rand.Rand, size, maxLen, numItems int) *Batch {
	batch := &Batch{}
	for b := 0; b < size; b++ {
		length := 1 + rng.IntN(maxLen)
		seq := make([]int, maxLen)
		mask := make([]int, maxLen)
		for l := 0; l < length; l++ {
			seq[l] = 1 + rng.IntN(numItems-1)
			mask[l] = 1
		}

		seen := map[int]bool{}
		var nodes []int
		for _, id := range seq {
			if !seen[id] {
				seen[id] = true
				nodes = append(nodes, id)
			}
		}
		sort.Ints(nodes)
		index := map[int]int{}
		for i, id := range nodes {
			index[id] = i
		}

		n := len(nodes)
		A := mat.NewDense(n, 2*n, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < 2*n; j++ {
				A.Set(i, j, rng.Float64())
			}
			in := A.RawRowView(i)[:n]
			out := A.RawRowView(i)[n:]
			normalize(in)
			normalize(out)
		}

		alias := make([]int, maxLen)
		for l, id := range seq {
			alias[l] = index[id]
		}

		batch.Items = append(batch.Items, nodes)
		batch.Adjacency = append(batch.Adjacency, A)
		batch.Alias = append(batch.Alias, alias)
		batch.Mask = append(batch.Mask, mask)
	}
	return batch
}

func normalize(row []float64) {
	var sum float64
	for _, v := range row {
		sum += v
	}
	if sum == 0 {
		return
	}
	for i := range row {
		row[i] /= sum
	}
}

// sineParams fills every tensor, in Visit order, with amp·sin(k) for a
// running index k starting at 1. Unlike zero parameters it breaks the
// symmetry between gates and attention weights.
func sineParams(cfg Config, amp float64) *Params {
	p := NewParams(cfg)
	k := 0
	p.Visit(func(_ string, data []float64) {
		for i := range data {
			k++
			data[i] = amp * math.Sin(float64(k))
		}
	})
	return p
}

// sineGraph is a two-node session graph shared by the cell and refiner tests.
func sineGraph() (A, hidden *mat.Dense) {
	A = mat.NewDense(2, 4, []float64{
		0, 1, 1, 0,
		0.5, 0.5, 0, 1,
	})
	hidden = mat.NewDense(2, 2, []float64{
		0.3, -0.7,
		1.1, 0.4,
	})
	return A, hidden
}
