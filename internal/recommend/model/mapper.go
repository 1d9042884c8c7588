// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package model

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotBijective is returned when an id table has duplicate ids or gaps.
var ErrNotBijective = errors.New("identifier mapping is not bijective")

// idTable maps external ids to dense indices and back.
//
// byIndex[idx] is the external id of dense index idx. sortedIDs and
// sortedIdx hold the same pairs ordered by external id for binary search.
type idTable struct {
	byIndex   []int
	sortedIDs []int
	sortedIdx []int
}

func newIDTable(side string, byIndex []int) (idTable, error) {
	n := len(byIndex)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return byIndex[order[a]] < byIndex[order[b]]
	})

	t := idTable{
		byIndex:   make([]int, n),
		sortedIDs: make([]int, n),
		sortedIdx: make([]int, n),
	}
	copy(t.byIndex, byIndex)
	for pos, idx := range order {
		id := byIndex[idx]
		if pos > 0 && t.sortedIDs[pos-1] == id {
			return idTable{}, fmt.Errorf("%w: duplicate %s id %d", ErrNotBijective, side, id)
		}
		t.sortedIDs[pos] = id
		t.sortedIdx[pos] = idx
	}
	return t, nil
}

func (t *idTable) index(id int) (int, bool) {
	pos := sort.SearchInts(t.sortedIDs, id)
	if pos < len(t.sortedIDs) && t.sortedIDs[pos] == id {
		return t.sortedIdx[pos], true
	}
	return -1, false
}

func (t *idTable) id(index int) (int, bool) {
	if index < 0 || index >= len(t.byIndex) {
		return 0, false
	}
	return t.byIndex[index], true
}

// IdentifierMapper translates between external user/item ids and the dense
// indices of a FactorModel. It is immutable and safe for concurrent use.
//
// An external id missing from the forward direction is not an error; it
// means the id was never part of training.
type IdentifierMapper struct {
	users idTable
	items idTable
}

// NewIdentifierMapper builds a mapper from index-ordered id slices:
// userIDs[i] is the external id of dense user i, likewise for items.
// Duplicate external ids are rejected.
func NewIdentifierMapper(userIDs, itemIDs []int) (*IdentifierMapper, error) {
	users, err := newIDTable("user", userIDs)
	if err != nil {
		return nil, err
	}
	items, err := newIDTable("item", itemIDs)
	if err != nil {
		return nil, err
	}
	return &IdentifierMapper{users: users, items: items}, nil
}

// UserIndex returns the dense index of an external user id.
func (m *IdentifierMapper) UserIndex(userID int) (int, bool) { return m.users.index(userID) }

// ItemIndex returns the dense index of an external item id.
func (m *IdentifierMapper) ItemIndex(itemID int) (int, bool) { return m.items.index(itemID) }

// UserID returns the external id of a dense user index.
func (m *IdentifierMapper) UserID(index int) (int, bool) { return m.users.id(index) }

// ItemID returns the external id of a dense item index.
func (m *IdentifierMapper) ItemID(index int) (int, bool) { return m.items.id(index) }

// NumUsers returns the number of mapped users.
func (m *IdentifierMapper) NumUsers() int { return len(m.users.byIndex) }

// NumItems returns the number of mapped items.
func (m *IdentifierMapper) NumItems() int { return len(m.items.byIndex) }
