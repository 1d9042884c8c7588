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
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmfactor/internal/catalog"
	"github.com/tomtom215/filmfactor/internal/ledger"
	"github.com/tomtom215/filmfactor/internal/recommend/model"
	"github.com/tomtom215/filmfactor/internal/recommend/popularity"
)

// Fixture layout:
//   - trained users 100 and 200
//   - trained movies 1..20, predicted score rises with movie id
//   - catalog holds 1..18, 20 and untrained 21..30 (19 is missing)
//   - popularity prefers low ids; 31 is below min support
const (
	trainedUser = 100
	otherUser   = 200
	unknownUser = 999
)

type fixture struct {
	model   *model.FactorModel
	mapper  *model.IdentifierMapper
	catalog *catalog.Catalog
	ranker  *popularity.Ranker
	ledger  *ledger.MemoryLedger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	const numItems = 20
	itemIDs := make([]int, numItems)
	itemFactors := make([]float64, numItems)
	for i := range itemIDs {
		itemIDs[i] = i + 1
		itemFactors[i] = 0.1 * float64(i)
	}

	fm, err := model.NewFactorModel([]float64{1, 1}, itemFactors, []float64{0, 0}, make([]float64, numItems), 3.0, 1)
	if err != nil {
		t.Fatalf("NewFactorModel() error = %v", err)
	}
	mapper, err := model.NewIdentifierMapper([]int{trainedUser, otherUser}, itemIDs)
	if err != nil {
		t.Fatalf("NewIdentifierMapper() error = %v", err)
	}

	var items []catalog.Item
	for id := 1; id <= 30; id++ {
		if id == 19 {
			continue
		}
		items = append(items, catalog.Item{ID: id, Title: fmt.Sprintf("Movie %d", id), Genres: []string{"Drama"}})
	}
	cat, err := catalog.New(items)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}

	stats := make([]popularity.ItemStats, 0, 31)
	for id := 1; id <= 30; id++ {
		stats = append(stats, popularity.ItemStats{ItemID: id, MeanRating: 5 - 0.1*float64(id), Count: 100})
	}
	stats = append(stats, popularity.ItemStats{ItemID: 31, MeanRating: 5, Count: 10})

	return &fixture{
		model:   fm,
		mapper:  mapper,
		catalog: cat,
		ranker:  popularity.NewRanker(stats, popularity.Config{MinSupport: 50}),
		ledger:  ledger.NewMemoryLedger(),
	}
}

func (f *fixture) deps() Dependencies {
	return Dependencies{
		Model:      f.model,
		Mapper:     f.mapper,
		Catalog:    f.catalog,
		Popularity: f.ranker,
		Ledger:     f.ledger,
	}
}

func (f *fixture) rate(t *testing.T, userID int, itemIDs ...int) {
	t.Helper()
	entries := make([]ledger.Entry, len(itemIDs))
	for i, id := range itemIDs {
		entries[i] = ledger.Entry{ItemID: id, Value: 4.0}
	}
	if err := f.ledger.RecordRatings(context.Background(), userID, entries); err != nil {
		t.Fatalf("RecordRatings() error = %v", err)
	}
}

func newTestEngine(t *testing.T, cfg *Config, deps Dependencies) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, deps, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func movieIDs(recs []Recommendation) []int {
	ids := make([]int, len(recs))
	for i, r := range recs {
		ids[i] = r.MovieID
	}
	return ids
}

func checkDisjoint(t *testing.T, recs []Recommendation, rated ...int) {
	t.Helper()
	for _, r := range recs {
		for _, id := range rated {
			if r.MovieID == id {
				t.Errorf("recommendations include rated movie %d", id)
			}
		}
	}
}

// failingScorer wraps a real model and fails or panics on demand.
type failingScorer struct {
	Scorer
	err   error
	panic bool
	calls atomic.Int32
}

func (s *failingScorer) ScoreAllItems(userIndex int) ([]float64, error) {
	s.calls.Add(1)
	if s.panic {
		panic("scoring exploded")
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.Scorer.ScoreAllItems(userIndex)
}

// skewedMapper maps one external user to an index outside the model.
type skewedMapper struct {
	IdentityMapper
	userID, index int
}

func (m *skewedMapper) UserIndex(userID int) (int, bool) {
	if userID == m.userID {
		return m.index, true
	}
	return m.IdentityMapper.UserIndex(userID)
}

// brokenLedger fails every read.
type brokenLedger struct {
	ledger.Ledger
}

func (brokenLedger) RatedItemIDs(context.Context, int) (map[int]struct{}, error) {
	return nil, errors.New("disk on fire")
}

func (brokenLedger) UserRatings(context.Context, int) ([]ledger.Rating, error) {
	return nil, errors.New("disk on fire")
}

func TestRecommend_UnknownUser(t *testing.T) {
	f := newFixture(t)
	e := newTestEngine(t, nil, f.deps())

	res, err := e.Recommend(context.Background(), unknownUser, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if res.Source != SourceUnknownUser {
		t.Errorf("Source = %q, want %q", res.Source, SourceUnknownUser)
	}
	want := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := movieIDs(res.Recommendations); !reflect.DeepEqual(got, want) {
		t.Errorf("movies = %v, want %v", got, want)
	}
	if res.Count != 10 || res.UserID != unknownUser {
		t.Errorf("Count = %d, UserID = %d", res.Count, res.UserID)
	}
	for _, r := range res.Recommendations {
		if r.PredictedRating != nil {
			t.Errorf("popularity result for %d carries a predicted rating", r.MovieID)
		}
	}
}

func TestRecommend_UnknownUserWithManyRatings(t *testing.T) {
	f := newFixture(t)
	f.rate(t, unknownUser, 1, 2, 3, 4, 5, 6)
	e := newTestEngine(t, nil, f.deps())

	res, err := e.Recommend(context.Background(), unknownUser, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Source != SourceUnknownUser {
		t.Errorf("Source = %q, want %q", res.Source, SourceUnknownUser)
	}
	if got := movieIDs(res.Recommendations); !reflect.DeepEqual(got, []int{7, 8, 9}) {
		t.Errorf("movies = %v, want [7 8 9]", got)
	}
}

func TestRecommend_UnknownUserBelowThreshold(t *testing.T) {
	f := newFixture(t)
	f.rate(t, unknownUser, 1, 2, 3)
	e := newTestEngine(t, nil, f.deps())

	res, err := e.Recommend(context.Background(), unknownUser, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Source != "popularity (cold start: 3 ratings)" {
		t.Errorf("Source = %q, want %q", res.Source, "popularity (cold start: 3 ratings)")
	}
	if got := movieIDs(res.Recommendations); !reflect.DeepEqual(got, []int{4, 5, 6}) {
		t.Errorf("movies = %v, want [4 5 6]", got)
	}
}

func TestRecommend_ColdStart(t *testing.T) {
	f := newFixture(t)
	f.rate(t, trainedUser, 1, 2, 3)
	e := newTestEngine(t, nil, f.deps())

	res, err := e.Recommend(context.Background(), trainedUser, 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if !strings.HasPrefix(res.Source, "popularity (cold start: 3") {
		t.Errorf("Source = %q, want cold start with 3 ratings", res.Source)
	}
	if res.Source != "popularity (cold start: 3 ratings)" {
		t.Errorf("Source = %q", res.Source)
	}
	if got := movieIDs(res.Recommendations); !reflect.DeepEqual(got, []int{4, 5, 6, 7, 8}) {
		t.Errorf("movies = %v, want [4 5 6 7 8]", got)
	}
}

func TestRecommend_ColdStartZeroRatings(t *testing.T) {
	f := newFixture(t)
	e := newTestEngine(t, nil, f.deps())

	res, err := e.Recommend(context.Background(), otherUser, 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Source != "popularity (cold start: 0 ratings)" {
		t.Errorf("Source = %q", res.Source)
	}
}

func TestRecommend_Personalized(t *testing.T) {
	f := newFixture(t)
	rated := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 20}
	f.rate(t, trainedUser, rated...)
	e := newTestEngine(t, nil, f.deps())

	res, err := e.Recommend(context.Background(), trainedUser, 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if res.Source != SourcePersonalized {
		t.Fatalf("Source = %q, want %q", res.Source, SourcePersonalized)
	}
	// 20 is rated and 19 is missing from the catalog.
	want := []int{18, 17, 16, 15, 14}
	if got := movieIDs(res.Recommendations); !reflect.DeepEqual(got, want) {
		t.Errorf("movies = %v, want %v", got, want)
	}
	checkDisjoint(t, res.Recommendations, rated...)

	first := res.Recommendations[0]
	if first.PredictedRating == nil || *first.PredictedRating != 4.7 {
		t.Errorf("PredictedRating(18) = %v, want 4.7", first.PredictedRating)
	}
	if first.Title != "Movie 18" || !reflect.DeepEqual(first.Genres, []string{"Drama"}) {
		t.Errorf("metadata = %q %v", first.Title, first.Genres)
	}
	if res.Count != len(res.Recommendations) {
		t.Errorf("Count = %d, len = %d", res.Count, len(res.Recommendations))
	}
}

func TestRecommend_PersonalizedIgnoresUntrainedRatedMovies(t *testing.T) {
	f := newFixture(t)
	f.rate(t, trainedUser, 21, 22, 23, 24, 25, 18)
	e := newTestEngine(t, nil, f.deps())

	res, err := e.Recommend(context.Background(), trainedUser, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Source != SourcePersonalized {
		t.Fatalf("Source = %q", res.Source)
	}
	if got := movieIDs(res.Recommendations); !reflect.DeepEqual(got, []int{20, 17, 16}) {
		t.Errorf("movies = %v, want [20 17 16]", got)
	}
}

func TestRecommend_OverFetchLimitsCatalogMisses(t *testing.T) {
	f := newFixture(t)
	f.rate(t, trainedUser, 1, 2, 3, 4, 5)

	var items []catalog.Item
	for _, id := range []int{20, 2, 3} {
		items = append(items, catalog.Item{ID: id, Title: "x"})
	}
	cat, err := catalog.New(items)
	if err != nil {
		t.Fatal(err)
	}
	deps := f.deps()
	deps.Catalog = cat
	e := newTestEngine(t, nil, deps)

	// n=2 over-fetches 4 candidates (20, 19, 18, 17); only 20 resolves.
	res, err := e.Recommend(context.Background(), trainedUser, 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Source != SourcePersonalized {
		t.Fatalf("Source = %q", res.Source)
	}
	if got := movieIDs(res.Recommendations); !reflect.DeepEqual(got, []int{20}) {
		t.Errorf("movies = %v, want [20]", got)
	}
}

func TestRecommend_ScoringError(t *testing.T) {
	f := newFixture(t)
	f.rate(t, trainedUser, 1, 2, 3, 4, 5)
	deps := f.deps()
	deps.Model = &failingScorer{Scorer: f.model, err: errors.New("boom")}
	e := newTestEngine(t, nil, deps)

	res, err := e.Recommend(context.Background(), trainedUser, 4)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Source != "popularity (error: boom)" {
		t.Errorf("Source = %q", res.Source)
	}
	if got := movieIDs(res.Recommendations); !reflect.DeepEqual(got, []int{6, 7, 8, 9}) {
		t.Errorf("movies = %v, want [6 7 8 9]", got)
	}
}

func TestRecommend_ScoringPanic(t *testing.T) {
	f := newFixture(t)
	f.rate(t, trainedUser, 1, 2, 3, 4, 5)
	deps := f.deps()
	deps.Model = &failingScorer{Scorer: f.model, panic: true}
	e := newTestEngine(t, nil, deps)

	res, err := e.Recommend(context.Background(), trainedUser, 4)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Source != "popularity (error: scoring exploded)" {
		t.Errorf("Source = %q", res.Source)
	}
	if res.Count == 0 {
		t.Error("expected a non-empty fallback list")
	}
}

func TestRecommend_IndexOutOfRange(t *testing.T) {
	f := newFixture(t)
	f.rate(t, 300, 1, 2, 3, 4, 5)
	deps := f.deps()
	deps.Mapper = &skewedMapper{IdentityMapper: f.mapper, userID: 300, index: 7}
	e := newTestEngine(t, nil, deps)

	res, err := e.Recommend(context.Background(), 300, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !strings.HasPrefix(res.Source, "popularity (error: user index out of range") {
		t.Errorf("Source = %q", res.Source)
	}
	if got := movieIDs(res.Recommendations); !reflect.DeepEqual(got, []int{6, 7, 8}) {
		t.Errorf("movies = %v, want [6 7 8]", got)
	}
}

func TestRecommend_BreakerOpens(t *testing.T) {
	f := newFixture(t)
	f.rate(t, trainedUser, 1, 2, 3, 4, 5)
	scorer := &failingScorer{Scorer: f.model, panic: true}
	deps := f.deps()
	deps.Model = scorer

	cfg := DefaultConfig()
	cfg.Breaker.MaxFailures = 1
	e := newTestEngine(t, cfg, deps)

	first, err := e.Recommend(context.Background(), trainedUser, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if first.Source != "popularity (error: scoring exploded)" {
		t.Errorf("first Source = %q", first.Source)
	}

	second, err := e.Recommend(context.Background(), trainedUser, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if second.Source != "popularity (error: circuit breaker is open)" {
		t.Errorf("second Source = %q", second.Source)
	}
	if calls := scorer.calls.Load(); calls != 1 {
		t.Errorf("scorer called %d times, want 1", calls)
	}
	if got := e.Stats().BreakerState; got != "open" {
		t.Errorf("BreakerState = %q, want open", got)
	}
}

func TestRecommend_DataFaultDoesNotTripBreaker(t *testing.T) {
	f := newFixture(t)

	const numItems = 20
	itemFactors := make([]float64, numItems)
	for i := range itemFactors {
		itemFactors[i] = 0.1 * float64(i)
	}
	// otherUser's factor row is NaN, so every score for that user is NaN.
	fm, err := model.NewFactorModel([]float64{1, math.NaN()}, itemFactors, []float64{0, 0}, make([]float64, numItems), 3.0, 1)
	if err != nil {
		t.Fatalf("NewFactorModel() error = %v", err)
	}
	f.model = fm
	f.rate(t, trainedUser, 21, 22, 23, 24, 25, 26)
	f.rate(t, otherUser, 21, 22, 23, 24, 25, 26)
	e := newTestEngine(t, nil, f.deps())

	ctx := context.Background()
	healthy, err := e.Recommend(ctx, trainedUser, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if healthy.Source != SourcePersonalized {
		t.Fatalf("healthy Source = %q, want %q", healthy.Source, SourcePersonalized)
	}

	for i := 0; i < 6; i++ {
		res, err := e.Recommend(ctx, otherUser, 3)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if !strings.HasPrefix(res.Source, "popularity (error: ") || strings.Contains(res.Source, "circuit breaker") {
			t.Fatalf("faulty user request %d Source = %q, want a scoring error", i, res.Source)
		}
	}

	after, err := e.Recommend(ctx, trainedUser, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if after.Source != SourcePersonalized {
		t.Errorf("healthy Source after faults = %q, want %q", after.Source, SourcePersonalized)
	}
	if got := e.Stats().BreakerState; got != "closed" {
		t.Errorf("BreakerState = %q, want closed", got)
	}
}

func TestRecommend_EmptyResultFallback(t *testing.T) {
	f := newFixture(t)
	f.rate(t, trainedUser, 1, 2, 3, 4, 5)

	// Only untrained movies are in the catalog, so personalized output is empty.
	var items []catalog.Item
	for id := 21; id <= 25; id++ {
		items = append(items, catalog.Item{ID: id, Title: "x"})
	}
	cat, err := catalog.New(items)
	if err != nil {
		t.Fatal(err)
	}
	deps := f.deps()
	deps.Catalog = cat
	e := newTestEngine(t, nil, deps)

	res, err := e.Recommend(context.Background(), trainedUser, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Source != SourceFallback {
		t.Errorf("Source = %q, want %q", res.Source, SourceFallback)
	}
	if got := movieIDs(res.Recommendations); !reflect.DeepEqual(got, []int{21, 22, 23}) {
		t.Errorf("movies = %v, want [21 22 23]", got)
	}
}

func TestRecommend_EverythingRated(t *testing.T) {
	f := newFixture(t)
	all := make([]int, 0, 30)
	for id := 1; id <= 30; id++ {
		all = append(all, id)
	}
	f.rate(t, unknownUser, all...)
	e := newTestEngine(t, nil, f.deps())

	res, err := e.Recommend(context.Background(), unknownUser, 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Source != SourceFallback || res.Count != 0 || len(res.Recommendations) != 0 {
		t.Errorf("got Source=%q Count=%d, want empty fallback", res.Source, res.Count)
	}
}

func TestRecommend_TruncatesToAvailable(t *testing.T) {
	f := newFixture(t)
	e := newTestEngine(t, nil, f.deps())

	res, err := e.Recommend(context.Background(), unknownUser, 50)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	// Pool holds 30 movies; 19 is not in the catalog.
	if res.Count != 29 || len(res.Recommendations) != 29 {
		t.Errorf("Count = %d, len = %d, want 29", res.Count, len(res.Recommendations))
	}
}

func TestRecommend_InvalidCount(t *testing.T) {
	f := newFixture(t)
	e := newTestEngine(t, nil, f.deps())

	for _, n := range []int{0, -1, 51} {
		if _, err := e.Recommend(context.Background(), unknownUser, n); !errors.Is(err, ErrInvalidCount) {
			t.Errorf("Recommend(n=%d) error = %v, want ErrInvalidCount", n, err)
		}
	}
}

func TestRecommend_Deterministic(t *testing.T) {
	f := newFixture(t)
	f.rate(t, trainedUser, 1, 2, 3, 4, 5, 6)
	e := newTestEngine(t, nil, f.deps())

	for _, user := range []int{unknownUser, otherUser, trainedUser} {
		a, err := e.Recommend(context.Background(), user, 10)
		if err != nil {
			t.Fatal(err)
		}
		b, err := e.Recommend(context.Background(), user, 10)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("user %d: results differ between identical calls", user)
		}
	}
}

func TestRecommend_LedgerFailure(t *testing.T) {
	f := newFixture(t)
	deps := f.deps()
	deps.Ledger = brokenLedger{}
	e := newTestEngine(t, nil, deps)

	if _, err := e.Recommend(context.Background(), trainedUser, 5); err == nil {
		t.Fatal("expected ledger error to surface")
	}
}

func TestSubmitRatings(t *testing.T) {
	f := newFixture(t)
	e := newTestEngine(t, nil, f.deps())
	ctx := context.Background()

	res, err := e.SubmitRatings(ctx, 42, []RatingInput{{MovieID: 1, Rating: 4.5}, {MovieID: 25, Rating: 3}})
	if err != nil {
		t.Fatalf("SubmitRatings() error = %v", err)
	}
	want := &SubmitResult{
		Status:           "success",
		Message:          "Successfully submitted 2 rating(s)",
		UserID:           42,
		TotalUserRatings: 2,
	}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("SubmitRatings() = %+v, want %+v", res, want)
	}

	// Resubmitting overwrites rather than appends.
	res, err = e.SubmitRatings(ctx, 42, []RatingInput{{MovieID: 1, Rating: 2}})
	if err != nil {
		t.Fatalf("SubmitRatings() error = %v", err)
	}
	if res.TotalUserRatings != 2 {
		t.Errorf("TotalUserRatings = %d, want 2", res.TotalUserRatings)
	}
	ratings, err := f.ledger.UserRatings(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	if ratings[0].ItemID != 1 || ratings[0].Value != 2 {
		t.Errorf("stored rating = %+v, want movie 1 rated 2", ratings[0])
	}
}

func TestSubmitRatings_RejectsWholeBatch(t *testing.T) {
	tests := []struct {
		name       string
		ratings    []RatingInput
		wantIDs    []int
		wantValues []float64
	}{
		{
			name:    "unknown movies",
			ratings: []RatingInput{{MovieID: 1, Rating: 4}, {MovieID: 999, Rating: 4}, {MovieID: 19, Rating: 3}, {MovieID: 999, Rating: 2}},
			wantIDs: []int{19, 999},
		},
		{
			name:       "off-scale values",
			ratings:    []RatingInput{{MovieID: 1, Rating: 4.3}, {MovieID: 2, Rating: 0}, {MovieID: 3, Rating: 5.5}},
			wantValues: []float64{0, 4.3, 5.5},
		},
		{
			name:       "both",
			ratings:    []RatingInput{{MovieID: 1000, Rating: 6}, {MovieID: 2, Rating: 4}},
			wantIDs:    []int{1000},
			wantValues: []float64{6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			e := newTestEngine(t, nil, f.deps())
			ctx := context.Background()

			_, err := e.SubmitRatings(ctx, 7, tt.ratings)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("SubmitRatings() error = %v, want *ValidationError", err)
			}
			if !reflect.DeepEqual(verr.InvalidItemIDs, tt.wantIDs) {
				t.Errorf("InvalidItemIDs = %v, want %v", verr.InvalidItemIDs, tt.wantIDs)
			}
			if !reflect.DeepEqual(verr.InvalidValues, tt.wantValues) {
				t.Errorf("InvalidValues = %v, want %v", verr.InvalidValues, tt.wantValues)
			}

			rated, err := f.ledger.RatedItemIDs(ctx, 7)
			if err != nil {
				t.Fatal(err)
			}
			if len(rated) != 0 {
				t.Errorf("ledger holds %v after rejected batch, want nothing", rated)
			}
		})
	}
}

func TestSubmitRatings_Empty(t *testing.T) {
	f := newFixture(t)
	e := newTestEngine(t, nil, f.deps())

	_, err := e.SubmitRatings(context.Background(), 7, nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("SubmitRatings() error = %v, want *ValidationError", err)
	}
}

func TestSubmitRatings_EnablesPersonalization(t *testing.T) {
	f := newFixture(t)
	e := newTestEngine(t, nil, f.deps())
	ctx := context.Background()

	batch := []RatingInput{{1, 4}, {2, 4}, {3, 4}, {4, 4}}
	if _, err := e.SubmitRatings(ctx, otherUser, batch); err != nil {
		t.Fatal(err)
	}
	res, err := e.Recommend(ctx, otherUser, 3)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != "popularity (cold start: 4 ratings)" {
		t.Errorf("Source = %q", res.Source)
	}

	if _, err := e.SubmitRatings(ctx, otherUser, []RatingInput{{5, 3.5}}); err != nil {
		t.Fatal(err)
	}
	res, err = e.Recommend(ctx, otherUser, 3)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != SourcePersonalized {
		t.Errorf("Source = %q, want %q", res.Source, SourcePersonalized)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{InvalidItemIDs: []int{3, 99}, InvalidValues: []float64{4.3}}
	msg := err.Error()
	for _, want := range []string{"invalid movie IDs: [3, 99]", "4.3"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestUserStats(t *testing.T) {
	f := newFixture(t)
	e := newTestEngine(t, nil, f.deps())
	ctx := context.Background()

	stats, err := e.UserStats(ctx, trainedUser)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRatings != 0 || stats.AverageRating != nil || !stats.InTrainingData ||
		stats.RecommendationType != RecommendationTypeColdStart {
		t.Errorf("empty stats = %+v", stats)
	}

	if _, err := e.SubmitRatings(ctx, trainedUser, []RatingInput{{1, 4}, {2, 3.5}, {3, 5}, {4, 4}, {5, 2}}); err != nil {
		t.Fatal(err)
	}
	stats, err = e.UserStats(ctx, trainedUser)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRatings != 5 || stats.AverageRating == nil || *stats.AverageRating != 3.7 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.RecommendationType != RecommendationTypePersonalized {
		t.Errorf("RecommendationType = %q", stats.RecommendationType)
	}

	if _, err := e.SubmitRatings(ctx, unknownUser, []RatingInput{{1, 4}, {2, 4}, {3, 4}, {4, 4}, {5, 4}}); err != nil {
		t.Fatal(err)
	}
	stats, err = e.UserStats(ctx, unknownUser)
	if err != nil {
		t.Fatal(err)
	}
	if stats.InTrainingData || stats.RecommendationType != RecommendationTypeColdStart {
		t.Errorf("untrained stats = %+v", stats)
	}
}

func TestUserStats_LedgerFailure(t *testing.T) {
	f := newFixture(t)
	deps := f.deps()
	deps.Ledger = brokenLedger{}
	e := newTestEngine(t, nil, deps)

	if _, err := e.UserStats(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	e := newTestEngine(t, nil, f.deps())

	want := EngineStats{
		Model:          ModelName,
		TrainedUsers:   2,
		TrainedItems:   20,
		CatalogSize:    29,
		PopularityPool: 30,
		BreakerState:   "closed",
	}
	if got := e.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestNewEngine_Errors(t *testing.T) {
	f := newFixture(t)

	missing := f.deps()
	missing.Ledger = nil
	if _, err := NewEngine(nil, missing, zerolog.Nop()); !errors.Is(err, ErrMissingDependency) {
		t.Errorf("missing ledger error = %v", err)
	}

	skewed := f.deps()
	small, err := model.NewIdentifierMapper([]int{1}, []int{1})
	if err != nil {
		t.Fatal(err)
	}
	skewed.Mapper = small
	if _, err := NewEngine(nil, skewed, zerolog.Nop()); !errors.Is(err, ErrInconsistentArtifacts) {
		t.Errorf("inconsistent artifacts error = %v", err)
	}

	cfg := DefaultConfig()
	cfg.OverFetchFactor = 0
	if _, err := NewEngine(cfg, f.deps(), zerolog.Nop()); err == nil {
		t.Error("expected invalid config error")
	}
}
