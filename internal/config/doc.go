// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

/*
Package config provides centralized configuration management for Filmfactor.

Configuration is loaded by LoadWithKoanf in three layers, later layers
overriding earlier ones:
  - Built-in defaults (defaultConfig)
  - An optional YAML file (CONFIG_PATH, or config.yaml in the working directory)
  - Environment variables with explicit names (see envMappings)

# Environment Variables

HTTP Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8000), HTTP_TIMEOUT, SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging or production

Security:
  - CORS_ORIGINS: comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Artifacts:
  - MODEL_PATH, MOVIES_CSV, RATINGS_CSV

Rating ledger:
  - LEDGER_BACKEND (badger or memory), LEDGER_PATH, LEDGER_SYNC_WRITES

Recommendation engine:
  - RECOMMEND_COLD_START_THRESHOLD, RECOMMEND_MIN_SUPPORT, RECOMMEND_OVER_FETCH
  - RECOMMEND_DEFAULT_N, RECOMMEND_MAX_N
  - RECOMMEND_BREAKER_MAX_FAILURES, RECOMMEND_BREAKER_TIMEOUT, RECOMMEND_BREAKER_INTERVAL

DuckDB:
  - DUCKDB_PATH (empty for in-memory), DUCKDB_MAX_MEMORY, DUCKDB_THREADS, DUCKDB_QUERY_TIMEOUT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
