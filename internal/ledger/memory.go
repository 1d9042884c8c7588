// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package ledger

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryLedger is an in-process Ledger for tests and single-node demos.
type MemoryLedger struct {
	mu      sync.RWMutex
	ratings map[int]map[int]Rating // user -> item -> rating
	closed  bool
	now     func() time.Time
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		ratings: make(map[int]map[int]Rating),
		now:     time.Now,
	}
}

// RatedItemIDs returns the set of movies the user has rated.
func (m *MemoryLedger) RatedItemIDs(ctx context.Context, userID int) (map[int]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	byItem := m.ratings[userID]
	out := make(map[int]struct{}, len(byItem))
	for id := range byItem {
		out[id] = struct{}{}
	}
	return out, nil
}

// RecordRatings applies the batch under the write lock.
func (m *MemoryLedger) RecordRatings(ctx context.Context, userID int, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	byItem, ok := m.ratings[userID]
	if !ok {
		byItem = make(map[int]Rating)
		m.ratings[userID] = byItem
	}

	now := m.now()
	for _, e := range entries {
		byItem[e.ItemID] = Rating{UserID: userID, ItemID: e.ItemID, Value: e.Value, UpdatedAt: now}
	}
	return nil
}

// UserRatings returns the user's ratings ordered by movie id.
func (m *MemoryLedger) UserRatings(ctx context.Context, userID int) ([]Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	byItem := m.ratings[userID]
	out := make([]Rating, 0, len(byItem))
	for _, r := range byItem {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

// Ping fails once the ledger is closed.
func (m *MemoryLedger) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return ctx.Err()
}

// Close marks the ledger closed.
func (m *MemoryLedger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
