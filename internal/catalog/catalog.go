// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

// Package catalog holds the immutable movie metadata used to render
// recommendations and to validate submitted ratings.
package catalog

import (
	"fmt"
	"strings"
)

// Item is a single movie's display metadata.
type Item struct {
	ID     int      `json:"movie_id"`
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
}

// Catalog maps movie ids to metadata. It is read-only after construction
// and safe for concurrent use.
type Catalog struct {
	items map[int]Item
}

// New builds a catalog. Duplicate ids are rejected.
func New(items []Item) (*Catalog, error) {
	c := &Catalog{items: make(map[int]Item, len(items))}
	for _, it := range items {
		if _, dup := c.items[it.ID]; dup {
			return nil, fmt.Errorf("duplicate movie id %d in catalog", it.ID)
		}
		c.items[it.ID] = it
	}
	return c, nil
}

// Get returns the metadata for id.
func (c *Catalog) Get(id int) (Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// Contains reports whether id is in the catalog.
func (c *Catalog) Contains(id int) bool {
	_, ok := c.items[id]
	return ok
}

// Len returns the number of movies.
func (c *Catalog) Len() int { return len(c.items) }

// SplitGenres parses a MovieLens pipe-separated genre field.
// "(no genres listed)" yields an empty slice.
func SplitGenres(field string) []string {
	field = strings.TrimSpace(field)
	if field == "" || field == "(no genres listed)" {
		return []string{}
	}
	parts := strings.Split(field, "|")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
