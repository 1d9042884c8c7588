// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

// Package popularity ranks movies by historical rating quality and volume.
// It is the fallback for every request that cannot be personalized.
package popularity

import (
	"math"
	"sort"
)

// DefaultMinSupport is the minimum number of ratings an item needs to enter
// the ranked pool.
const DefaultMinSupport = 50

// ItemStats is the aggregated rating history of one item.
type ItemStats struct {
	ItemID     int
	MeanRating float64
	Count      int
}

// Config contains configuration for the popularity ranker.
type Config struct {
	// MinSupport excludes items with fewer ratings from the pool.
	MinSupport int

	// MaxItems limits the size of the ranked pool. Zero means unlimited.
	MaxItems int
}

// Ranker implements popularity-based ranking over aggregated ratings.
//
// The popularity score is computed as:
//
//	score(item) = meanRating * log(1 + count)
//
// Items below the support threshold never enter the pool. Ties keep
// ascending item id order. A Ranker is immutable after construction and
// safe for concurrent use.
type Ranker struct {
	scores    map[int]float64
	sortedIDs []int // item IDs sorted by popularity descending
}

// NewRanker builds the ranked pool from aggregated stats.
//
//nolint:gocritic // hugeParam: Config passed by value for immutable semantics
func NewRanker(stats []ItemStats, cfg Config) *Ranker {
	if cfg.MinSupport <= 0 {
		cfg.MinSupport = DefaultMinSupport
	}

	type scoredItem struct {
		id    int
		score float64
	}

	scored := make([]scoredItem, 0, len(stats))
	for _, s := range stats {
		if s.Count < cfg.MinSupport {
			continue
		}
		scored = append(scored, scoredItem{s.ItemID, s.MeanRating * math.Log1p(float64(s.Count))})
	}

	// Fix the base order so ties resolve the same way whatever order the
	// aggregation produced.
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].id < scored[j].id
	})
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if cfg.MaxItems > 0 && len(scored) > cfg.MaxItems {
		scored = scored[:cfg.MaxItems]
	}

	r := &Ranker{
		scores:    make(map[int]float64, len(scored)),
		sortedIDs: make([]int, len(scored)),
	}
	for i, s := range scored {
		r.sortedIDs[i] = s.id
		r.scores[s.id] = s.score
	}
	return r
}

// TopN returns up to n item ids in popularity order, skipping excluded ids.
// Exclusions are applied while walking the pool, so the result only falls
// short of n when the pool runs out.
func (r *Ranker) TopN(n int, exclude map[int]struct{}) []int {
	return r.Select(n, func(id int) bool {
		_, skip := exclude[id]
		return !skip
	})
}

// Select returns up to n item ids in popularity order for which keep
// returns true.
func (r *Ranker) Select(n int, keep func(id int) bool) []int {
	if n <= 0 || len(r.sortedIDs) == 0 {
		return nil
	}

	result := make([]int, 0, min(n, len(r.sortedIDs)))
	for _, id := range r.sortedIDs {
		if keep != nil && !keep(id) {
			continue
		}
		result = append(result, id)
		if len(result) == n {
			break
		}
	}
	return result
}

// Score returns the popularity score of an item in the pool.
func (r *Ranker) Score(itemID int) (float64, bool) {
	s, ok := r.scores[itemID]
	return s, ok
}

// PoolSize returns the number of items eligible for ranking.
func (r *Ranker) PoolSize() int { return len(r.sortedIDs) }
