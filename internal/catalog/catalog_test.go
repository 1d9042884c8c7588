// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package catalog

import (
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	c, err := New([]Item{
		{ID: 1, Title: "Toy Story (1995)", Genres: []string{"Animation"}},
		{ID: 2, Title: "Jumanji (1995)"},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if it, ok := c.Get(1); !ok || it.Title != "Toy Story (1995)" {
		t.Errorf("Get(1) = (%+v, %v)", it, ok)
	}
	if c.Contains(3) {
		t.Error("Contains(3) = true, want false")
	}

	if _, err := New([]Item{{ID: 1}, {ID: 1}}); err == nil {
		t.Error("New() with duplicate ids: error = nil")
	}
}

func TestSplitGenres(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Adventure|Animation|Children", []string{"Adventure", "Animation", "Children"}},
		{"Drama", []string{"Drama"}},
		{"(no genres listed)", []string{}},
		{"", []string{}},
		{"Comedy||Romance ", []string{"Comedy", "Romance"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SplitGenres(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitGenres(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
