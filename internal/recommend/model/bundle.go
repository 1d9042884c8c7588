// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// BundleVersion is the artifact format version this package reads and writes.
const BundleVersion = 1

// ErrInvalidBundle is returned when a trained artifact bundle fails validation.
var ErrInvalidBundle = errors.New("invalid model bundle")

// Bundle is the on-disk form of a trained FunkSVD model.
//
// Factor matrices are stored row-major. UserIDs[i] is the external id of
// dense user i; ItemIDs likewise.
type Bundle struct {
	Version     int       `msgpack:"version"`
	Algorithm   string    `msgpack:"algorithm"`
	Dim         int       `msgpack:"dim"`
	GlobalMean  float64   `msgpack:"global_mean"`
	UserFactors []float64 `msgpack:"user_factors"`
	ItemFactors []float64 `msgpack:"item_factors"`
	UserBias    []float64 `msgpack:"user_bias"`
	ItemBias    []float64 `msgpack:"item_bias"`
	UserIDs     []int     `msgpack:"user_ids"`
	ItemIDs     []int     `msgpack:"item_ids"`
}

// Validate checks the bundle's version and that the id tables match the
// factor matrices in size.
func (b *Bundle) Validate() error {
	if b.Version != BundleVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidBundle, b.Version)
	}
	if b.Dim < 1 {
		return fmt.Errorf("%w: dim must be at least 1, got %d", ErrInvalidBundle, b.Dim)
	}
	if len(b.UserIDs) != len(b.UserBias) {
		return fmt.Errorf("%w: %d user ids for %d trained users", ErrInvalidBundle, len(b.UserIDs), len(b.UserBias))
	}
	if len(b.ItemIDs) != len(b.ItemBias) {
		return fmt.Errorf("%w: %d item ids for %d trained items", ErrInvalidBundle, len(b.ItemIDs), len(b.ItemBias))
	}
	return nil
}

// Build validates the bundle and constructs the model and its mapper.
func (b *Bundle) Build() (*FactorModel, *IdentifierMapper, error) {
	if err := b.Validate(); err != nil {
		return nil, nil, err
	}
	fm, err := NewFactorModel(b.UserFactors, b.ItemFactors, b.UserBias, b.ItemBias, b.GlobalMean, b.Dim)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidBundle, err)
	}
	mapper, err := NewIdentifierMapper(b.UserIDs, b.ItemIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidBundle, err)
	}
	return fm, mapper, nil
}

// LoadBundle reads a msgpack-encoded bundle from path.
func LoadBundle(path string) (*Bundle, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open model bundle: %w", err)
	}
	defer f.Close()

	var b Bundle
	if err := msgpack.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode model bundle %s: %w", path, err)
	}
	return &b, nil
}

// WriteBundle encodes b to path, replacing any existing file.
func WriteBundle(path string, b *Bundle) error {
	data, err := msgpack.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode model bundle: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write model bundle: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("install model bundle: %w", err)
	}
	return nil
}
