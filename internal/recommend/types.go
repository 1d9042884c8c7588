// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package recommend

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/filmfactor/internal/catalog"
	"github.com/tomtom215/filmfactor/internal/ledger"
)

// Source labels name the path that produced a recommendation list.
const (
	SourcePersonalized = "FunkSVD (personalized)"
	SourceUnknownUser  = "popularity (user not in training data)"
	SourceFallback     = "popularity (fallback)"
)

// ColdStartSource labels a popularity list served to a user with k ratings.
func ColdStartSource(k int) string {
	return fmt.Sprintf("popularity (cold start: %d ratings)", k)
}

// ErrorSource labels a popularity list served after a scoring fault.
func ErrorSource(reason string) string {
	return "popularity (error: " + reason + ")"
}

// ErrInvalidCount is returned when the requested list size is outside [1, MaxN].
var ErrInvalidCount = errors.New("invalid recommendation count")

// ErrMissingDependency is returned by NewEngine when a collaborator is nil.
var ErrMissingDependency = errors.New("missing engine dependency")

// ErrInconsistentArtifacts is returned by NewEngine when the model and the
// identifier mapper disagree on population sizes.
var ErrInconsistentArtifacts = errors.New("model and mapper sizes disagree")

// Scorer predicts a rating for every trained item.
type Scorer interface {
	ScoreAllItems(userIndex int) ([]float64, error)
	NumUsers() int
	NumItems() int
}

// IdentityMapper translates between external ids and dense model indices.
type IdentityMapper interface {
	UserIndex(userID int) (int, bool)
	ItemIndex(itemID int) (int, bool)
	ItemID(index int) (int, bool)
	NumUsers() int
	NumItems() int
}

// ItemCatalog resolves movie metadata.
type ItemCatalog interface {
	Get(itemID int) (catalog.Item, bool)
	Contains(itemID int) bool
	Len() int
}

// PopularityRanker serves the non-personalized ranking.
type PopularityRanker interface {
	Select(n int, keep func(itemID int) bool) []int
	PoolSize() int
}

// Dependencies are the collaborators an Engine is built from. Model, Mapper,
// Catalog and Popularity are read-only after startup; Ledger is the only
// mutable collaborator.
type Dependencies struct {
	Model      Scorer
	Mapper     IdentityMapper
	Catalog    ItemCatalog
	Popularity PopularityRanker
	Ledger     ledger.Ledger
}

// validate checks that every collaborator is present and that the model and
// mapper describe the same populations.
func (d *Dependencies) validate() error {
	switch {
	case d.Model == nil:
		return fmt.Errorf("%w: model", ErrMissingDependency)
	case d.Mapper == nil:
		return fmt.Errorf("%w: mapper", ErrMissingDependency)
	case d.Catalog == nil:
		return fmt.Errorf("%w: catalog", ErrMissingDependency)
	case d.Popularity == nil:
		return fmt.Errorf("%w: popularity ranker", ErrMissingDependency)
	case d.Ledger == nil:
		return fmt.Errorf("%w: ledger", ErrMissingDependency)
	}
	if d.Model.NumUsers() != d.Mapper.NumUsers() || d.Model.NumItems() != d.Mapper.NumItems() {
		return fmt.Errorf("%w: model %dx%d, mapper %dx%d", ErrInconsistentArtifacts,
			d.Model.NumUsers(), d.Model.NumItems(), d.Mapper.NumUsers(), d.Mapper.NumItems())
	}
	return nil
}

// Recommendation is one recommended movie.
type Recommendation struct {
	MovieID         int      `json:"movie_id"`
	Title           string   `json:"title"`
	Genres          []string `json:"genres"`
	PredictedRating *float64 `json:"predicted_rating,omitempty"`
}

// Result is a recommendation list and the path that produced it.
type Result struct {
	UserID          int              `json:"user_id"`
	Recommendations []Recommendation `json:"recommendations"`
	Source          string           `json:"source"`
	Count           int              `json:"count"`
}

// ScoringFault describes a failure on the personalized path. It never
// reaches callers of Recommend; the engine answers with a popularity list
// labeled with Reason instead.
type ScoringFault struct {
	Reason string
	Err    error
}

func (f *ScoringFault) Error() string { return f.Reason }

func (f *ScoringFault) Unwrap() error { return f.Err }

// scoreOutcome is the result of the personalized path: either Items or a
// Fault, never both.
type scoreOutcome struct {
	Items []Recommendation
	Fault *ScoringFault
}

// RatingInput is one rating in a submitted batch.
type RatingInput struct {
	MovieID int     `json:"movie_id"`
	Rating  float64 `json:"rating"`
}

// SubmitResult acknowledges a stored rating batch.
type SubmitResult struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	UserID           int    `json:"user_id"`
	TotalUserRatings int    `json:"total_user_ratings"`
}

// ValidationError rejects a rating batch. It lists every offending movie id
// and rating value; nothing from the batch is stored.
type ValidationError struct {
	InvalidItemIDs []int     `json:"invalid_movie_ids,omitempty"`
	InvalidValues  []float64 `json:"invalid_ratings,omitempty"`
	Message        string    `json:"message,omitempty"`
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if len(e.InvalidItemIDs) > 0 {
		ids := make([]string, len(e.InvalidItemIDs))
		for i, id := range e.InvalidItemIDs {
			ids[i] = strconv.Itoa(id)
		}
		parts = append(parts, fmt.Sprintf("invalid movie IDs: [%s]", strings.Join(ids, ", ")))
	}
	if len(e.InvalidValues) > 0 {
		vals := make([]string, len(e.InvalidValues))
		for i, v := range e.InvalidValues {
			vals[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		parts = append(parts, fmt.Sprintf("ratings must be %.1f-%.1f in steps of %.1f, got [%s]",
			ledger.MinValue, ledger.MaxValue, ledger.ValueStep, strings.Join(vals, ", ")))
	}
	if len(parts) == 0 {
		return "invalid rating batch"
	}
	return strings.Join(parts, "; ")
}

// HasUnknownMovies reports whether the batch named movies outside the catalog.
func (e *ValidationError) HasUnknownMovies() bool { return len(e.InvalidItemIDs) > 0 }

// UserStats summarizes a user's ledger history.
type UserStats struct {
	UserID             int      `json:"user_id"`
	TotalRatings       int      `json:"total_ratings"`
	AverageRating      *float64 `json:"average_rating,omitempty"`
	InTrainingData     bool     `json:"in_training_data"`
	RecommendationType string   `json:"recommendation_type"`
}

// Recommendation types reported by UserStats.
const (
	RecommendationTypePersonalized = "personalized"
	RecommendationTypeColdStart    = "cold_start"
)

// EngineStats describes the loaded artifacts for health reporting.
type EngineStats struct {
	Model          string `json:"model"`
	TrainedUsers   int    `json:"trained_users"`
	TrainedItems   int    `json:"trained_movies"`
	CatalogSize    int    `json:"catalog_movies"`
	PopularityPool int    `json:"popularity_pool"`
	BreakerState   string `json:"breaker_state"`
}

// sortedKeys returns a set's members in ascending order, or nil for an
// empty set.
func sortedKeys[K int | float64](set map[K]struct{}) []K {
	if len(set) == 0 {
		return nil
	}
	out := make([]K, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
