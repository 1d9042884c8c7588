// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmfactor/internal/catalog"
	"github.com/tomtom215/filmfactor/internal/config"
	"github.com/tomtom215/filmfactor/internal/database"
	"github.com/tomtom215/filmfactor/internal/ledger"
	"github.com/tomtom215/filmfactor/internal/logging"
	"github.com/tomtom215/filmfactor/internal/metrics"
	"github.com/tomtom215/filmfactor/internal/recommend"
	"github.com/tomtom215/filmfactor/internal/recommend/model"
	"github.com/tomtom215/filmfactor/internal/recommend/popularity"
)

// application holds the long-lived components built at startup.
type application struct {
	Engine       *recommend.Engine
	Ledger       ledger.Ledger
	TotalRatings int64
	TotalUsers   int64
}

// Close releases the ledger.
func (a *application) Close() {
	if err := a.Ledger.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing rating ledger")
	}
}

// bootstrap loads every artifact and assembles the engine. DuckDB is only
// needed while the CSVs are read and is closed before returning.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func bootstrap(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*application, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing DuckDB")
		}
	}()

	items, err := db.LoadCatalog(ctx, cfg.Artifacts.MoviesPath)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.New(items)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	summary, err := db.AggregateRatings(ctx, cfg.Artifacts.RatingsPath)
	if err != nil {
		return nil, err
	}
	ranker := popularity.NewRanker(summary.Items, popularity.Config{MinSupport: cfg.Recommend.MinSupport})

	bundle, err := model.LoadBundle(cfg.Artifacts.ModelPath)
	if err != nil {
		return nil, err
	}
	factors, mapper, err := bundle.Build()
	if err != nil {
		return nil, err
	}
	logging.Debug().
		Int("users", factors.NumUsers()).
		Int("movies", factors.NumItems()).
		Int("dim", factors.Dim()).
		Float64("global_mean", factors.GlobalMean()).
		Msg("Factor model decoded")

	led, err := ledger.Open(ledger.Config{
		Backend:    ledger.StoreType(cfg.Ledger.Backend),
		Path:       cfg.Ledger.Path,
		SyncWrites: cfg.Ledger.SyncWrites,
		MaxRetries: cfg.Ledger.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("open rating ledger: %w", err)
	}

	engine, err := recommend.NewEngine(engineConfig(&cfg.Recommend), recommend.Dependencies{
		Model:      factors,
		Mapper:     mapper,
		Catalog:    cat,
		Popularity: ranker,
		Ledger:     led,
	}, logger)
	if err != nil {
		_ = led.Close()
		return nil, err
	}

	metrics.RecordArtifacts(mapper.NumUsers(), mapper.NumItems(), cat.Len(), ranker.PoolSize())

	return &application{
		Engine:       engine,
		Ledger:       led,
		TotalRatings: summary.TotalRatings,
		TotalUsers:   summary.TotalUsers,
	}, nil
}

func engineConfig(rc *config.RecommendConfig) *recommend.Config {
	return &recommend.Config{
		ColdStartThreshold: rc.ColdStartThreshold,
		OverFetchFactor:    rc.OverFetchFactor,
		DefaultN:           rc.DefaultN,
		MaxN:               rc.MaxN,
		Breaker: recommend.BreakerConfig{
			MaxFailures: rc.BreakerMaxFailures,
			Timeout:     rc.BreakerTimeout,
			Interval:    rc.BreakerInterval,
		},
	}
}
