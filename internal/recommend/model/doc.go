// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

/*
Package model holds the trained FunkSVD factor model and the identifier
mapper that connects external MovieLens ids to the model's dense indices.

Both types are built once at startup from a msgpack artifact bundle and are
read-only afterwards, so they can be shared across request goroutines
without locking.

# Scoring

FactorModel.ScoreAllItems computes every item's predicted rating for one
user with a single gonum matrix-vector product:

	scores = Q · P[u] + itemBias + (globalMean + userBias[u])

# Identifier Mapping

IdentifierMapper keeps one index-ordered id slice per side for the inverse
direction and a sorted copy for binary-search forward lookups. Construction
rejects duplicate ids and index gaps, so every in-range index has exactly
one external id.
*/
package model
