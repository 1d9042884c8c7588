// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

/*
Package metrics defines the Prometheus instruments exported on /metrics.

All metrics are registered with promauto at package load.

# API

  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

# Recommendations

  - recommend_requests_total{source}: source is one of personalized,
    unknown_user, cold_start, error, fallback
  - recommend_duration_seconds
  - recommend_scoring_faults_total
  - ratings_submitted_total, ratings_rejected_total{reason}

# Artifacts and storage

  - model_trained_users, model_trained_items, catalog_movies, popularity_pool_size
  - duckdb_query_duration_seconds{operation}, duckdb_query_errors_total{operation}
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name, result},
    circuit_breaker_state_transitions_total{name, from_state, to_state}

Example alert:

	- alert: PersonalizationDegraded
	  expr: rate(recommend_scoring_faults_total[5m]) > 0
	  for: 10m
*/
package metrics
