// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmfactor/internal/ledger"
	"github.com/tomtom215/filmfactor/internal/logging"
	"github.com/tomtom215/filmfactor/internal/metrics"
)

// ModelName identifies the personalized model in health output.
const ModelName = "FunkSVD"

// errScoringPanic marks a fault recovered from a panic during scoring.
var errScoringPanic = errors.New("panic during scoring")

// Engine decides, per request, between personalized scoring and the
// popularity ranking, and records rating batches. It is safe for
// concurrent use.
type Engine struct {
	config  *Config
	deps    Dependencies
	breaker *scoringBreaker
	logger  zerolog.Logger
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}

	logger = logger.With().Str("component", "recommend").Logger()
	return &Engine{
		config:  cfg,
		deps:    deps,
		breaker: newScoringBreaker(cfg.Breaker, logger),
		logger:  logger,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return *e.config
}

func (e *Engine) requestLogger(ctx context.Context, userID int) zerolog.Logger {
	lc := e.logger.With().Int("user_id", userID)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	return lc.Logger()
}

// Recommend returns up to n movies for userID. The ledger rating count is
// consulted before model membership: a user with some ratings but fewer than
// the cold-start threshold gets the cold-start ranking, a user the model never
// saw gets the unknown-user ranking, a known user with no ratings is a cold
// start at zero, and everyone else is scored by the factor model. A scoring
// fault and an empty list both fall back to popularity. Movies the user has
// rated are never returned.
//
// Only an out-of-range n and ledger read failures are returned as errors.
func (e *Engine) Recommend(ctx context.Context, userID, n int) (*Result, error) {
	if n < 1 || n > e.config.MaxN {
		return nil, fmt.Errorf("%w: n must be between 1 and %d, got %d", ErrInvalidCount, e.config.MaxN, n)
	}

	start := time.Now()
	logger := e.requestLogger(ctx, userID)

	rated, err := e.deps.Ledger.RatedItemIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read rated movies: %w", err)
	}

	var (
		items  []Recommendation
		source string
	)

	userIndex, known := e.deps.Mapper.UserIndex(userID)
	switch {
	case len(rated) > 0 && len(rated) < e.config.ColdStartThreshold:
		items, source = e.popular(n, rated), ColdStartSource(len(rated))
	case !known:
		items, source = e.popular(n, rated), SourceUnknownUser
	case len(rated) < e.config.ColdStartThreshold:
		items, source = e.popular(n, rated), ColdStartSource(len(rated))
	default:
		outcome := e.personalize(userIndex, rated, n)
		if outcome.Fault != nil {
			metrics.RecommendScoringFaults.Inc()
			logger.Warn().Err(outcome.Fault.Err).Str("reason", outcome.Fault.Reason).
				Msg("personalized scoring failed, serving popularity")
			items, source = e.popular(n, rated), ErrorSource(outcome.Fault.Reason)
		} else {
			items, source = outcome.Items, SourcePersonalized
		}
	}

	if len(items) == 0 {
		items, source = e.popular(n, rated), SourceFallback
	}
	if len(items) > n {
		items = items[:n]
	}

	elapsed := time.Since(start)
	metrics.RecordRecommendation(source, elapsed)
	logger.Debug().
		Str("source", source).
		Int("rated", len(rated)).
		Int("returned", len(items)).
		Dur("latency", elapsed).
		Msg("recommendation complete")

	return &Result{
		UserID:          userID,
		Recommendations: items,
		Source:          source,
		Count:           len(items),
	}, nil
}

// personalize runs scoring through the circuit breaker and folds every
// failure, including a rejected call, into a ScoringFault.
func (e *Engine) personalize(userIndex int, exclude map[int]struct{}, n int) scoreOutcome {
	items, err := e.breaker.execute(func() ([]Recommendation, error) {
		items, fault := e.scorePersonalized(userIndex, exclude, n)
		if fault != nil {
			return nil, fault
		}
		return items, nil
	})
	if err == nil {
		return scoreOutcome{Items: items}
	}

	var fault *ScoringFault
	if errors.As(err, &fault) {
		return scoreOutcome{Fault: fault}
	}
	return scoreOutcome{Fault: &ScoringFault{Reason: err.Error(), Err: err}}
}

// scorePersonalized scores every trained movie for the user, selects the top
// n*OverFetchFactor unrated candidates and resolves them through the catalog.
func (e *Engine) scorePersonalized(userIndex int, exclude map[int]struct{}, n int) (items []Recommendation, fault *ScoringFault) {
	defer func() {
		if r := recover(); r != nil {
			items = nil
			fault = &ScoringFault{Reason: fmt.Sprint(r), Err: fmt.Errorf("%w: %v", errScoringPanic, r)}
		}
	}()

	scores, err := e.deps.Model.ScoreAllItems(userIndex)
	if err != nil {
		return nil, &ScoringFault{Reason: err.Error(), Err: err}
	}
	if len(scores) != e.deps.Mapper.NumItems() {
		err := fmt.Errorf("score vector has %d entries, mapper has %d movies", len(scores), e.deps.Mapper.NumItems())
		return nil, &ScoringFault{Reason: err.Error(), Err: err}
	}

	excludedIdx := make(map[int]struct{}, len(exclude))
	for id := range exclude {
		if idx, ok := e.deps.Mapper.ItemIndex(id); ok {
			excludedIdx[idx] = struct{}{}
		}
	}

	candidates, err := topCandidates(scores, n*e.config.OverFetchFactor, excludedIdx)
	if err != nil {
		return nil, &ScoringFault{Reason: err.Error(), Err: err}
	}

	items = make([]Recommendation, 0, n)
	for _, idx := range candidates {
		itemID, ok := e.deps.Mapper.ItemID(idx)
		if !ok {
			err := fmt.Errorf("movie index %d has no external id", idx)
			return nil, &ScoringFault{Reason: err.Error(), Err: err}
		}
		meta, ok := e.deps.Catalog.Get(itemID)
		if !ok {
			continue
		}
		predicted := round2(scores[idx])
		items = append(items, Recommendation{
			MovieID:         itemID,
			Title:           meta.Title,
			Genres:          meta.Genres,
			PredictedRating: &predicted,
		})
		if len(items) == n {
			break
		}
	}
	return items, nil
}

// popular returns up to n catalog-resolvable movies from the popularity
// ranking, skipping excluded ids before truncation.
func (e *Engine) popular(n int, exclude map[int]struct{}) []Recommendation {
	ids := e.deps.Popularity.Select(n, func(id int) bool {
		if _, skip := exclude[id]; skip {
			return false
		}
		return e.deps.Catalog.Contains(id)
	})

	items := make([]Recommendation, 0, len(ids))
	for _, id := range ids {
		meta, ok := e.deps.Catalog.Get(id)
		if !ok {
			continue
		}
		items = append(items, Recommendation{
			MovieID: id,
			Title:   meta.Title,
			Genres:  meta.Genres,
		})
	}
	return items
}

// SubmitRatings validates a batch against the rating scale and the catalog
// and stores it in one ledger transaction. Any invalid entry rejects the
// whole batch with a *ValidationError naming every offender.
func (e *Engine) SubmitRatings(ctx context.Context, userID int, ratings []RatingInput) (*SubmitResult, error) {
	if len(ratings) == 0 {
		metrics.RatingsRejected.WithLabelValues("empty").Inc()
		return nil, &ValidationError{Message: "no ratings submitted"}
	}

	badIDs := make(map[int]struct{})
	badValues := make(map[float64]struct{})
	entries := make([]ledger.Entry, 0, len(ratings))
	for _, r := range ratings {
		if !e.deps.Catalog.Contains(r.MovieID) {
			badIDs[r.MovieID] = struct{}{}
		}
		if !ledger.ValidValue(r.Rating) {
			badValues[r.Rating] = struct{}{}
		}
		entries = append(entries, ledger.Entry{ItemID: r.MovieID, Value: r.Rating})
	}

	if len(badIDs) > 0 || len(badValues) > 0 {
		verr := &ValidationError{InvalidItemIDs: sortedKeys(badIDs), InvalidValues: sortedKeys(badValues)}
		reason := "invalid_value"
		if verr.HasUnknownMovies() {
			reason = "unknown_movie"
		}
		metrics.RatingsRejected.WithLabelValues(reason).Inc()
		return nil, verr
	}

	logger := e.requestLogger(ctx, userID)
	if err := e.deps.Ledger.RecordRatings(ctx, userID, entries); err != nil {
		metrics.RatingsRejected.WithLabelValues("storage").Inc()
		return nil, fmt.Errorf("record ratings: %w", err)
	}
	metrics.RatingsSubmitted.Add(float64(len(entries)))

	rated, err := e.deps.Ledger.RatedItemIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}

	logger.Info().Int("submitted", len(entries)).Int("total", len(rated)).Msg("ratings recorded")

	return &SubmitResult{
		Status:           "success",
		Message:          fmt.Sprintf("Successfully submitted %d rating(s)", len(entries)),
		UserID:           userID,
		TotalUserRatings: len(rated),
	}, nil
}

// UserStats summarizes the user's ledger ratings and which recommendation
// path they currently qualify for.
func (e *Engine) UserStats(ctx context.Context, userID int) (*UserStats, error) {
	ratings, err := e.deps.Ledger.UserRatings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read user ratings: %w", err)
	}

	_, known := e.deps.Mapper.UserIndex(userID)
	stats := &UserStats{
		UserID:             userID,
		TotalRatings:       len(ratings),
		InTrainingData:     known,
		RecommendationType: RecommendationTypeColdStart,
	}
	if known && len(ratings) >= e.config.ColdStartThreshold {
		stats.RecommendationType = RecommendationTypePersonalized
	}
	if len(ratings) > 0 {
		var sum float64
		for _, r := range ratings {
			sum += r.Value
		}
		avg := round2(sum / float64(len(ratings)))
		stats.AverageRating = &avg
	}
	return stats, nil
}

// Stats describes the loaded artifacts.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Model:          ModelName,
		TrainedUsers:   e.deps.Mapper.NumUsers(),
		TrainedItems:   e.deps.Mapper.NumItems(),
		CatalogSize:    e.deps.Catalog.Len(),
		PopularityPool: e.deps.Popularity.PoolSize(),
		BreakerState:   e.breaker.state(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
