// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package evaluation

import (
	"container/heap"
	"sort"
)

// candidate is a scored column index.
type candidate struct {
	index int
	score float64
}

// better reports whether a ranks ahead of b. Equal scores rank the lower
// index first.
func better(a, b candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.index < b.index
}

// worstFirst is a heap whose root is the weakest of the kept candidates.
type worstFirst []candidate

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return better(h[j], h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *worstFirst) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopK returns the indices of the k highest scores in descending order.
// Fewer than k indices are returned when scores is shorter.
func TopK(scores []float64, k int) []int {
	if k <= 0 || len(scores) == 0 {
		return nil
	}
	k = min(k, len(scores))

	h := make(worstFirst, 0, k)
	for i, s := range scores {
		c := candidate{index: i, score: s}
		if h.Len() < k {
			heap.Push(&h, c)
			continue
		}
		if better(c, h[0]) {
			h[0] = c
			heap.Fix(&h, 0)
		}
	}

	sort.Slice(h, func(i, j int) bool { return better(h[i], h[j]) })
	out := make([]int, len(h))
	for i, c := range h {
		out[i] = c.index
	}
	return out
}

// Rank returns the zero-based position of target within top, or -1.
func Rank(top []int, target int) int {
	for i, idx := range top {
		if idx == target {
			return i
		}
	}
	return -1
}
