// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// ColdStartThreshold is the number of ledger ratings a trained user needs
	// before personalized scoring is attempted.
	ColdStartThreshold int `json:"cold_start_threshold"`

	// OverFetchFactor multiplies n to size the personalized candidate pool,
	// absorbing catalog misses without rescoring.
	OverFetchFactor int `json:"over_fetch_factor"`

	// DefaultN is used when a caller does not ask for a specific count.
	DefaultN int `json:"default_n"`

	// MaxN is the largest accepted list size.
	MaxN int `json:"max_n"`

	// Breaker configures the circuit breaker around personalized scoring.
	Breaker BreakerConfig `json:"breaker"`
}

// BreakerConfig contains circuit breaker parameters.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive scoring faults that opens the breaker.
	MaxFailures uint32 `json:"max_failures"`

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration `json:"timeout"`

	// Interval is the cyclic period for clearing counts while closed.
	Interval time.Duration `json:"interval"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ColdStartThreshold: 5,
		OverFetchFactor:    2,
		DefaultN:           10,
		MaxN:               50,
		Breaker: BreakerConfig{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
			Interval:    time.Minute,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ColdStartThreshold < 0 {
		return fmt.Errorf("cold_start_threshold must be non-negative, got %d", c.ColdStartThreshold)
	}
	if c.OverFetchFactor < 1 {
		return fmt.Errorf("over_fetch_factor must be at least 1, got %d", c.OverFetchFactor)
	}
	if c.MaxN < 1 {
		return fmt.Errorf("max_n must be at least 1, got %d", c.MaxN)
	}
	if c.DefaultN < 1 || c.DefaultN > c.MaxN {
		return fmt.Errorf("default_n must be in [1, %d], got %d", c.MaxN, c.DefaultN)
	}
	if c.Breaker.MaxFailures < 1 {
		return fmt.Errorf("breaker.max_failures must be at least 1, got %d", c.Breaker.MaxFailures)
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("breaker.timeout must be positive, got %s", c.Breaker.Timeout)
	}
	if c.Breaker.Interval < 0 {
		return fmt.Errorf("breaker.interval must be non-negative, got %s", c.Breaker.Interval)
	}
	return nil
}
