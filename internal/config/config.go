// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package config

import "time"

// Config holds all application configuration.
// Values are layered: struct defaults, then an optional YAML file, then
// environment variables (see LoadWithKoanf).
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Ledger    LedgerConfig    `koanf:"ledger"`
	Recommend RecommendConfig `koanf:"recommend"`
	Database  DatabaseConfig  `koanf:"database"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ArtifactsConfig locates the trained model and the MovieLens files it was
// trained on.
//
// Environment Variables:
//   - MODEL_PATH: msgpack model bundle (default: /data/model/funksvd.msgpack)
//   - MOVIES_CSV: movies.csv with movieId,title,genres
//   - RATINGS_CSV: ratings.csv with userId,movieId,rating,timestamp
type ArtifactsConfig struct {
	ModelPath   string `koanf:"model_path"`
	MoviesPath  string `koanf:"movies_path"`
	RatingsPath string `koanf:"ratings_path"`
}

// LedgerConfig selects the storage for user-submitted ratings.
type LedgerConfig struct {
	// Backend is "badger" (durable, default) or "memory".
	Backend    string `koanf:"backend"`
	Path       string `koanf:"path"`
	SyncWrites bool   `koanf:"sync_writes"`
	MaxRetries int    `koanf:"max_retries"`

	// Value-log garbage collection for the badger backend.
	// A zero interval disables it.
	GCInterval     time.Duration `koanf:"gc_interval"`
	GCDiscardRatio float64       `koanf:"gc_discard_ratio"`
}

// RecommendConfig tunes the recommendation decision engine.
//
// Environment Variables:
//   - RECOMMEND_COLD_START_THRESHOLD: ratings needed before personalizing (default: 5)
//   - RECOMMEND_MIN_SUPPORT: ratings an item needs for the popularity pool (default: 50)
//   - RECOMMEND_OVER_FETCH: candidate multiple fetched from the model (default: 2)
//   - RECOMMEND_DEFAULT_N / RECOMMEND_MAX_N: request size bounds (default: 10 / 50)
type RecommendConfig struct {
	ColdStartThreshold int `koanf:"cold_start_threshold"`
	MinSupport         int `koanf:"min_support"`
	OverFetchFactor    int `koanf:"over_fetch_factor"`
	DefaultN           int `koanf:"default_n"`
	MaxN               int `koanf:"max_n"`

	// Circuit breaker around personalized scoring.
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
	BreakerInterval    time.Duration `koanf:"breaker_interval"`
}

// DatabaseConfig holds DuckDB settings used to read the MovieLens CSVs.
type DatabaseConfig struct {
	Path         string        `koanf:"path"` // empty or ":memory:" for in-memory
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"` // 0 = use NumCPU
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
