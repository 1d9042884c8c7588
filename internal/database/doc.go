// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

// Package database reads the MovieLens CSV artifacts through DuckDB.
//
// DuckDB scans the files in place with read_csv, so the catalog load and the
// per-movie rating aggregation that feeds the popularity ranker are single
// SQL statements. The connection is only used during startup; nothing is
// written back.
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	items, err := db.LoadCatalog(ctx, cfg.Artifacts.MoviesPath)
//	summary, err := db.AggregateRatings(ctx, cfg.Artifacts.RatingsPath)
//
// Aggregates are returned in ascending movie id order, which the popularity
// ranker relies on for deterministic tie-breaking.
package database
