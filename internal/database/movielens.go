// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/filmfactor/internal/catalog"
	"github.com/tomtom215/filmfactor/internal/metrics"
	"github.com/tomtom215/filmfactor/internal/recommend/popularity"
)

// RatingsSummary is the aggregated MovieLens rating history.
type RatingsSummary struct {
	Items        []popularity.ItemStats // ascending movie id
	TotalRatings int64
	TotalUsers   int64
}

// csvLiteral quotes a file path for use inside a read_csv() call.
func csvLiteral(path string) string {
	return "'" + strings.ReplaceAll(path, "'", "''") + "'"
}

// LoadCatalog reads movies.csv (movieId,title,genres) into catalog items
// ordered by movie id.
func (db *DB) LoadCatalog(ctx context.Context, moviesCSV string) (items []catalog.Item, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("load_catalog", time.Since(start), err) }()

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT movieId, title, COALESCE(genres, '')
		FROM read_csv(%s, header = true, quote = '"', escape = '"',
			columns = {'movieId': 'INTEGER', 'title': 'VARCHAR', 'genres': 'VARCHAR'})
		WHERE movieId IS NOT NULL
		ORDER BY movieId`, csvLiteral(moviesCSV))

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var (
			id     int
			title  string
			genres string
		)
		if err := rows.Scan(&id, &title, &genres); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		items = append(items, catalog.Item{
			ID:     id,
			Title:  title,
			Genres: catalog.SplitGenres(genres),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", moviesCSV, ErrEmptyArtifact)
	}
	return items, nil
}

// AggregateRatings reads ratings.csv (userId,movieId,rating,timestamp) and
// returns per-movie mean rating and count in ascending movie id order,
// along with the totals reported at startup.
func (db *DB) AggregateRatings(ctx context.Context, ratingsCSV string) (summary *RatingsSummary, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("aggregate_ratings", time.Since(start), err) }()

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	source := fmt.Sprintf(`read_csv(%s, header = true,
			columns = {'userId': 'INTEGER', 'movieId': 'INTEGER', 'rating': 'DOUBLE', 'timestamp': 'BIGINT'})`,
		csvLiteral(ratingsCSV))

	query := fmt.Sprintf(`
		SELECT movieId, AVG(rating), COUNT(*)
		FROM %s
		WHERE movieId IS NOT NULL AND rating IS NOT NULL
		GROUP BY movieId
		ORDER BY movieId`, source)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}
	defer closeWithLog(rows, "rows")

	summary = &RatingsSummary{}
	for rows.Next() {
		var s popularity.ItemStats
		var count int64
		if err := rows.Scan(&s.ItemID, &s.MeanRating, &count); err != nil {
			return nil, fmt.Errorf("scan rating aggregate: %w", err)
		}
		s.Count = int(count)
		summary.TotalRatings += count
		summary.Items = append(summary.Items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating aggregates: %w", err)
	}
	if len(summary.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", ratingsCSV, ErrEmptyArtifact)
	}

	usersQuery := fmt.Sprintf(`SELECT COUNT(DISTINCT userId) FROM %s`, source)
	if err := db.conn.QueryRowContext(ctx, usersQuery).Scan(&summary.TotalUsers); err != nil {
		return nil, fmt.Errorf("count rating users: %w", err)
	}

	return summary, nil
}
