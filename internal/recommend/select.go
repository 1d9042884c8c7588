// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package recommend

import (
	"container/heap"
	"fmt"
	"math"
	"sort"
)

type candidate struct {
	index int
	score float64
}

// better orders candidates by score descending, then index ascending.
func better(a, b candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.index < b.index
}

// worstFirst is a min-heap holding the current top-k with the weakest on top.
type worstFirst []candidate

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return better(h[j], h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *worstFirst) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *worstFirst) Pop() any {
	old := *h
	c := old[len(old)-1]
	*h = old[:len(old)-1]
	return c
}

// topCandidates returns the indices of the k best scores, best first,
// skipping excluded indices. scores is not modified. A NaN score is an error.
func topCandidates(scores []float64, k int, excluded map[int]struct{}) ([]int, error) {
	if k <= 0 {
		return nil, nil
	}

	h := make(worstFirst, 0, k)
	for i, s := range scores {
		if math.IsNaN(s) {
			return nil, fmt.Errorf("score for movie index %d is NaN", i)
		}
		if _, skip := excluded[i]; skip {
			continue
		}
		c := candidate{index: i, score: s}
		switch {
		case len(h) < k:
			heap.Push(&h, c)
		case better(c, h[0]):
			h[0] = c
			heap.Fix(&h, 0)
		}
	}

	sort.Slice(h, func(i, j int) bool { return better(h[i], h[j]) })
	out := make([]int, len(h))
	for i, c := range h {
		out[i] = c.index
	}
	return out, nil
}
