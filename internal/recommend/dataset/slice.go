// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package dataset

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/starsession/internal/recommend/sessiongraph"
)

// Slice is a padded batch together with its targets.
type Slice struct {
	sessiongraph.Batch

	// Targets holds the next item id of every session.
	Targets []int
}

// BuildSlice validates sessions and builds their padded batch and targets.
func BuildSlice(sessions []Session) (*Slice, error) {
	if len(sessions) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalidSession)
	}
	sequences := make([][]int, len(sessions))
	targets := make([]int, len(sessions))
	for i, s := range sessions {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("session %d: %w", i, err)
		}
		sequences[i] = s.Items
		targets[i] = s.Target
	}
	return &Slice{Batch: *buildBatch(sequences), Targets: targets}, nil
}

// BuildBatch builds the padded batch for raw item sequences, such as a
// live session awaiting a recommendation.
//
// Sequences are padded to the longest one in the batch. Node lists are the
// sorted distinct ids of each padded sequence (0 is included when the
// sequence was padded) and are themselves padded with 0 to the largest node
// count in the batch. Consecutive clicks a→b set edge u[a][b] = 1; the walk
// stops at the first padding position. The in-block is u transposed with
// rows divided by in-degree and the out-block is u with rows divided by
// out-degree. Zero degrees divide by 1.
func BuildBatch(sequences [][]int) (*sessiongraph.Batch, error) {
	if len(sequences) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalidSession)
	}
	for i, seq := range sequences {
		if err := (Session{Items: seq, Target: 1}).Validate(); err != nil {
			return nil, fmt.Errorf("session %d: %w", i, err)
		}
	}
	return buildBatch(sequences), nil
}

func buildBatch(sequences [][]int) *sessiongraph.Batch {
	maxLen := 0
	for _, seq := range sequences {
		maxLen = max(maxLen, len(seq))
	}

	padded := make([][]int, len(sequences))
	nodes := make([][]int, len(sequences))
	maxNodes := 0
	for i, seq := range sequences {
		p := make([]int, maxLen)
		copy(p, seq)
		padded[i] = p
		nodes[i] = uniqueSorted(p)
		maxNodes = max(maxNodes, len(nodes[i]))
	}

	batch := &sessiongraph.Batch{}
	for i, seq := range padded {
		index := make(map[int]int, len(nodes[i]))
		for n, id := range nodes[i] {
			index[id] = n
		}

		items := make([]int, maxNodes)
		copy(items, nodes[i])

		mask := make([]int, maxLen)
		alias := make([]int, maxLen)
		for l, id := range seq {
			alias[l] = index[id]
			if l < len(sequences[i]) {
				mask[l] = 1
			}
		}

		batch.Items = append(batch.Items, items)
		batch.Adjacency = append(batch.Adjacency, adjacency(seq, index, maxNodes))
		batch.Alias = append(batch.Alias, alias)
		batch.Mask = append(batch.Mask, mask)
	}
	return batch
}

// adjacency returns the N×2N [in | out] matrix of a padded sequence.
func adjacency(seq []int, index map[int]int, n int) *mat.Dense {
	edges := mat.NewDense(n, n, nil)
	for l := 0; l+1 < len(seq); l++ {
		if seq[l+1] == 0 {
			break
		}
		edges.Set(index[seq[l]], index[seq[l+1]], 1)
	}

	inDeg := make([]float64, n)
	outDeg := make([]float64, n)
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			w := edges.At(u, v)
			outDeg[u] += w
			inDeg[v] += w
		}
	}
	for i := range inDeg {
		if inDeg[i] == 0 {
			inDeg[i] = 1
		}
		if outDeg[i] == 0 {
			outDeg[i] = 1
		}
	}

	A := mat.NewDense(n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			A.Set(i, j, edges.At(j, i)/inDeg[i])
			A.Set(i, n+j, edges.At(i, j)/outDeg[i])
		}
	}
	return A
}

func uniqueSorted(seq []int) []int {
	seen := make(map[int]struct{}, len(seq))
	out := make([]int, 0, len(seq))
	for _, id := range seq {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
