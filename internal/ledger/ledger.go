// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

// Package ledger records user ratings submitted through the API.
//
// Each (user, movie) pair holds at most one rating: resubmitting overwrites
// the previous value. A batch of ratings is written atomically, so a failed
// batch leaves no partial writes behind.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrClosed is returned by operations on a closed ledger.
var ErrClosed = errors.New("ledger is closed")

// Rating is one stored rating.
type Rating struct {
	UserID    int       `json:"user_id"`
	ItemID    int       `json:"movie_id"`
	Value     float64   `json:"rating"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entry is one rating in a submitted batch.
type Entry struct {
	ItemID int
	Value  float64
}

// Ledger is the rating store contract consumed by the recommendation engine.
type Ledger interface {
	// RatedItemIDs returns the set of movies the user has rated.
	RatedItemIDs(ctx context.Context, userID int) (map[int]struct{}, error)

	// RecordRatings upserts a batch of ratings for one user in a single
	// transaction. Either every entry is stored or none is.
	RecordRatings(ctx context.Context, userID int, entries []Entry) error

	// UserRatings returns the user's ratings ordered by movie id.
	UserRatings(ctx context.Context, userID int) ([]Rating, error)

	// Ping reports whether the ledger can serve requests.
	Ping(ctx context.Context) error

	// Close releases the underlying storage.
	Close() error
}

// StoreType selects a ledger backend.
type StoreType string

const (
	// StoreMemory keeps ratings in process memory (lost on restart).
	StoreMemory StoreType = "memory"

	// StoreBadger persists ratings in an embedded BadgerDB.
	StoreBadger StoreType = "badger"
)

// Config contains ledger backend settings.
type Config struct {
	Backend    StoreType
	Path       string
	SyncWrites bool
	// MaxRetries bounds transaction retries on write conflicts.
	MaxRetries int
}

// Open creates the configured ledger backend.
//
//nolint:gocritic // hugeParam: Config passed by value for immutable semantics
func Open(cfg Config) (Ledger, error) {
	switch cfg.Backend {
	case StoreMemory, "":
		return NewMemoryLedger(), nil
	case StoreBadger:
		return OpenBadgerLedger(cfg)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}

// Rating scale: half-star steps from MinValue to MaxValue.
const (
	MinValue  = 0.5
	MaxValue  = 5.0
	ValueStep = 0.5
)

// ValidValue reports whether v lies on the rating scale.
func ValidValue(v float64) bool {
	if math.IsNaN(v) || v < MinValue || v > MaxValue {
		return false
	}
	steps := v / ValueStep
	return steps == math.Trunc(steps)
}
