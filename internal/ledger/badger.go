// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key layout: rating:<userID>:<itemID> -> storedRating (JSON)
const ratingKeyPrefix = "rating:"

const defaultMaxRetries = 5

// storedRating is the persisted value of a rating key.
type storedRating struct {
	Value     float64   `json:"v"`
	UpdatedAt time.Time `json:"t"`
}

// BadgerLedger implements Ledger using BadgerDB for durable storage.
type BadgerLedger struct {
	db         *badger.DB
	ownsDB     bool
	maxRetries int
	now        func() time.Time
}

// OpenBadgerLedger opens (or creates) a BadgerDB at cfg.Path.
// An empty path opens an in-memory database.
//
//nolint:gocritic // hugeParam: Config passed by value for immutable semantics
func OpenBadgerLedger(cfg Config) (*BadgerLedger, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.Path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for ratings: %w", err)
	}

	l := NewBadgerLedgerFromDB(db, cfg.MaxRetries)
	l.ownsDB = true
	return l, nil
}

// NewBadgerLedgerFromDB wraps an existing DB. The caller keeps ownership
// and Close does not close db.
func NewBadgerLedgerFromDB(db *badger.DB, maxRetries int) *BadgerLedger {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &BadgerLedger{db: db, maxRetries: maxRetries, now: time.Now}
}

func userPrefix(userID int) []byte {
	return []byte(ratingKeyPrefix + strconv.Itoa(userID) + ":")
}

func ratingKey(userID, itemID int) []byte {
	return []byte(ratingKeyPrefix + strconv.Itoa(userID) + ":" + strconv.Itoa(itemID))
}

// RecordRatings writes the batch in one transaction, retrying on conflicts.
func (l *BadgerLedger) RecordRatings(ctx context.Context, userID int, entries []Entry) error {
	now := l.now()
	values := make([][]byte, len(entries))
	for i, e := range entries {
		data, err := json.Marshal(storedRating{Value: e.Value, UpdatedAt: now})
		if err != nil {
			return fmt.Errorf("marshal rating: %w", err)
		}
		values[i] = data
	}

	var err error
	for attempt := 0; attempt < l.maxRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = l.db.Update(func(txn *badger.Txn) error {
			for i, e := range entries {
				if err := txn.Set(ratingKey(userID, e.ItemID), values[i]); err != nil {
					return fmt.Errorf("set rating %d/%d: %w", userID, e.ItemID, err)
				}
			}
			return nil
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return l.wrap("record ratings", err)
	}
	return nil
}

// RatedItemIDs returns the set of movies the user has rated.
func (l *BadgerLedger) RatedItemIDs(ctx context.Context, userID int) (map[int]struct{}, error) {
	out := make(map[int]struct{})
	prefix := userPrefix(userID)

	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			itemID, err := strconv.Atoi(string(it.Item().Key()[len(prefix):]))
			if err != nil {
				return fmt.Errorf("parse rating key %q: %w", it.Item().Key(), err)
			}
			out[itemID] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, l.wrap("list rated items", err)
	}
	return out, nil
}

// UserRatings returns the user's ratings ordered by movie id.
func (l *BadgerLedger) UserRatings(ctx context.Context, userID int) ([]Rating, error) {
	var out []Rating
	prefix := userPrefix(userID)

	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			itemID, err := strconv.Atoi(string(item.Key()[len(prefix):]))
			if err != nil {
				return fmt.Errorf("parse rating key %q: %w", item.Key(), err)
			}
			var sr storedRating
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &sr)
			}); err != nil {
				return fmt.Errorf("decode rating %d/%d: %w", userID, itemID, err)
			}
			out = append(out, Rating{UserID: userID, ItemID: itemID, Value: sr.Value, UpdatedAt: sr.UpdatedAt})
		}
		return nil
	})
	if err != nil {
		return nil, l.wrap("list user ratings", err)
	}

	// Keys sort lexically, not numerically.
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

// Ping fails once the underlying database is closed.
func (l *BadgerLedger) Ping(ctx context.Context) error {
	if l.db.IsClosed() {
		return ErrClosed
	}
	return ctx.Err()
}

// RunGC reclaims value-log space, repeating until badger reports nothing
// left to rewrite. In-memory databases have no value log and return nil.
func (l *BadgerLedger) RunGC(discardRatio float64) error {
	if l.db.IsClosed() {
		return ErrClosed
	}
	for {
		err := l.db.RunValueLogGC(discardRatio)
		switch {
		case err == nil:
			continue
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		default:
			return l.wrap("run value log gc", err)
		}
	}
}

// Close closes the database if the ledger opened it.
func (l *BadgerLedger) Close() error {
	if l.ownsDB {
		return l.db.Close()
	}
	return nil
}

func (l *BadgerLedger) wrap(op string, err error) error {
	if errors.Is(err, badger.ErrDBClosed) {
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}
	return fmt.Errorf("%s: %w", op, err)
}
