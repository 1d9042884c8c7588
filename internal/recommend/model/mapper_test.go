// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package model

import (
	"errors"
	"testing"
)

func TestIdentifierMapper_RoundTrip(t *testing.T) {
	m, err := NewIdentifierMapper([]int{42, 7, 1000}, []int{318, 1, 296, 50})
	if err != nil {
		t.Fatalf("NewIdentifierMapper() error = %v", err)
	}

	if m.NumUsers() != 3 || m.NumItems() != 4 {
		t.Fatalf("sizes = (%d, %d), want (3, 4)", m.NumUsers(), m.NumItems())
	}

	for idx := 0; idx < m.NumUsers(); idx++ {
		id, ok := m.UserID(idx)
		if !ok {
			t.Fatalf("UserID(%d) not found", idx)
		}
		back, ok := m.UserIndex(id)
		if !ok || back != idx {
			t.Errorf("UserIndex(%d) = (%d, %v), want (%d, true)", id, back, ok, idx)
		}
	}
	for idx := 0; idx < m.NumItems(); idx++ {
		id, ok := m.ItemID(idx)
		if !ok {
			t.Fatalf("ItemID(%d) not found", idx)
		}
		back, ok := m.ItemIndex(id)
		if !ok || back != idx {
			t.Errorf("ItemIndex(%d) = (%d, %v), want (%d, true)", id, back, ok, idx)
		}
	}
}

func TestIdentifierMapper_Absent(t *testing.T) {
	m, err := NewIdentifierMapper([]int{1, 2}, []int{10})
	if err != nil {
		t.Fatalf("NewIdentifierMapper() error = %v", err)
	}

	if _, ok := m.UserIndex(3); ok {
		t.Error("UserIndex(3) found, want absent")
	}
	if _, ok := m.ItemIndex(11); ok {
		t.Error("ItemIndex(11) found, want absent")
	}
	if _, ok := m.UserID(2); ok {
		t.Error("UserID(2) found, want out of range")
	}
	if _, ok := m.ItemID(-1); ok {
		t.Error("ItemID(-1) found, want out of range")
	}
}

func TestNewIdentifierMapper_RejectsDuplicates(t *testing.T) {
	_, err := NewIdentifierMapper([]int{1, 2, 1}, []int{10})
	if !errors.Is(err, ErrNotBijective) {
		t.Errorf("duplicate user id: error = %v, want ErrNotBijective", err)
	}
	_, err = NewIdentifierMapper([]int{1}, []int{10, 10})
	if !errors.Is(err, ErrNotBijective) {
		t.Errorf("duplicate item id: error = %v, want ErrNotBijective", err)
	}
}
