// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

// Package recommend decides, per request, how a user's movie list is built.
//
// # Paths
//
// Every call to Engine.Recommend takes exactly one primary path:
//
//   - Unknown user: the user has no row in the factor model. Served from the
//     popularity ranking, source "popularity (user not in training data)".
//   - Cold start: fewer than ColdStartThreshold ledger ratings. Served from
//     the popularity ranking, source "popularity (cold start: k ratings)".
//   - Personalized: FunkSVD scores for every trained movie, already-rated
//     movies skipped, top n*OverFetchFactor candidates resolved through the
//     catalog. Source "FunkSVD (personalized)".
//
// Two handlers sit on top. A scoring fault (an error, a panic, or an open
// circuit breaker) turns a personalized request into a popularity list with
// source "popularity (error: <reason>)". Any path that ends with an empty
// list gets one more popularity attempt, source "popularity (fallback)".
//
// Rated movies are excluded on every path, and the list is truncated (never
// padded) to n.
//
// # Dependencies
//
// The engine is built from an explicit Dependencies value. The factor model,
// identifier mapper, catalog and popularity ranker are immutable and shared
// without locks. The rating ledger is the only mutable collaborator.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), recommend.Dependencies{
//	    Model:      factorModel,
//	    Mapper:     mapper,
//	    Catalog:    cat,
//	    Popularity: ranker,
//	    Ledger:     store,
//	}, logger)
//
//	res, err := engine.Recommend(ctx, userID, 10)
//
// Subpackages model and popularity hold the FunkSVD model with its
// identifier mapper and the popularity ranker.
package recommend
