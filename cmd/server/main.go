// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/filmfactor/internal/api"
	"github.com/tomtom215/filmfactor/internal/config"
	"github.com/tomtom215/filmfactor/internal/logging"
	"github.com/tomtom215/filmfactor/internal/metrics"
	"github.com/tomtom215/filmfactor/internal/supervisor"
	"github.com/tomtom215/filmfactor/internal/supervisor/services"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title Movie Recommender API
// @version 1.0
// @description FunkSVD movie recommendations with a popularity fallback for cold-start and unknown users.
// @description Ratings submitted through the API are excluded from later recommendations and count toward the cold-start threshold.
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Core
// @tag.description Health and readiness endpoints
//
// @tag.name Recommendations
// @tag.description Personalized and popularity-based movie recommendations
//
// @tag.name Ratings
// @tag.description Rating submission and per-user statistics
func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("model_path", cfg.Artifacts.ModelPath).
		Str("ledger_backend", cfg.Ledger.Backend).
		Msg("Starting movie recommender")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap(ctx, cfg, logging.Component("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load recommendation artifacts")
	}
	defer app.Close()

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	stats := app.Engine.Stats()
	logging.Info().
		Int("users_in_training", stats.TrainedUsers).
		Int("movies_in_model", stats.TrainedItems).
		Int("movies_in_catalog", stats.CatalogSize).
		Int64("total_ratings", app.TotalRatings).
		Int("popularity_pool", stats.PopularityPool).
		Msg("Recommendation engine ready")

	handler := api.NewHandler(app.Engine, version, api.HealthCheck{Name: "ledger", Check: app.Ledger.Ping})
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), treeConfig)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if gc, ok := app.Ledger.(services.GarbageCollector); ok && cfg.Ledger.GCInterval > 0 {
		tree.AddStorageService(services.NewLedgerGCService(gc, cfg.Ledger.GCInterval, cfg.Ledger.GCDiscardRatio, logging.Component("ledger")))
		logging.Info().Dur("interval", cfg.Ledger.GCInterval).Msg("Ledger GC service added")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Component("http")))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	if err := waitForSupervisor(ctx, errCh); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// waitForSupervisor blocks until the tree behind errCh has stopped and
// returns its exit error. ServeBackground sends exactly one value and never
// closes the channel, so it is received once.
func waitForSupervisor(ctx context.Context, errCh <-chan error) error {
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		return <-errCh
	case err := <-errCh:
		return err
	}
}
