// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
		c.validateArtifacts,
		c.validateLedger,
		c.validateRecommend,
		c.validateDatabase,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateSecurity validates rate limiting bounds.
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether any CORS origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateArtifacts() error {
	if c.Artifacts.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if c.Artifacts.MoviesPath == "" {
		return fmt.Errorf("MOVIES_CSV is required")
	}
	if c.Artifacts.RatingsPath == "" {
		return fmt.Errorf("RATINGS_CSV is required")
	}
	return nil
}

func (c *Config) validateLedger() error {
	switch c.Ledger.Backend {
	case "memory":
	case "badger":
		if c.Ledger.Path == "" {
			return fmt.Errorf("LEDGER_PATH is required when LEDGER_BACKEND=badger")
		}
	default:
		return fmt.Errorf("LEDGER_BACKEND must be badger or memory, got %q", c.Ledger.Backend)
	}
	if c.Ledger.MaxRetries < 1 {
		return fmt.Errorf("LEDGER_MAX_RETRIES must be at least 1, got %d", c.Ledger.MaxRetries)
	}
	if c.Ledger.GCInterval < 0 {
		return fmt.Errorf("LEDGER_GC_INTERVAL must not be negative, got %v", c.Ledger.GCInterval)
	}
	if c.Ledger.GCInterval > 0 && (c.Ledger.GCDiscardRatio <= 0 || c.Ledger.GCDiscardRatio >= 1) {
		return fmt.Errorf("LEDGER_GC_RATIO must be in (0, 1), got %g", c.Ledger.GCDiscardRatio)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.ColdStartThreshold < 0 {
		return fmt.Errorf("recommend.cold_start_threshold must be non-negative, got %d", r.ColdStartThreshold)
	}
	if r.MinSupport < 1 {
		return fmt.Errorf("recommend.min_support must be at least 1, got %d", r.MinSupport)
	}
	if r.OverFetchFactor < 1 {
		return fmt.Errorf("recommend.over_fetch_factor must be at least 1, got %d", r.OverFetchFactor)
	}
	if r.MaxN < 1 {
		return fmt.Errorf("recommend.max_n must be at least 1, got %d", r.MaxN)
	}
	if r.DefaultN < 1 || r.DefaultN > r.MaxN {
		return fmt.Errorf("recommend.default_n must be between 1 and max_n (%d), got %d", r.MaxN, r.DefaultN)
	}
	if r.BreakerMaxFailures < 1 {
		return fmt.Errorf("recommend.breaker_max_failures must be at least 1, got %d", r.BreakerMaxFailures)
	}
	if r.BreakerTimeout <= 0 {
		return fmt.Errorf("recommend.breaker_timeout must be positive, got %v", r.BreakerTimeout)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative, got %d", c.Database.Threads)
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("DUCKDB_QUERY_TIMEOUT must be positive, got %v", c.Database.QueryTimeout)
	}
	return nil
}
