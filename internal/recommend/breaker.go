// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package recommend

import (
	"errors"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/filmfactor/internal/metrics"
)

// breakerName labels the personalized-scoring breaker in metrics and logs.
const breakerName = "personalized-scoring"

// scoringBreaker guards the personalized path. While open, requests skip
// scoring and go straight to the popularity fallback.
type scoringBreaker struct {
	cb     *gobreaker.CircuitBreaker[[]Recommendation]
	logger zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newScoringBreaker(cfg BreakerConfig, logger zerolog.Logger) *scoringBreaker {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	b := &scoringBreaker{logger: logger}
	b.cb = gobreaker.NewCircuitBreaker[[]Recommendation](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1, // single probe in half-open state
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= cfg.MaxFailures
			if shouldTrip {
				b.logger.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// Scoring is deterministic per user, so a bad factor row faults the
		// same user every time. Only recovered panics count against the
		// breaker; per-user data faults fall back without tripping it.
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, errScoringPanic)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			b.logger.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
	return b
}

// execute runs fn under the breaker. A rejected call surfaces as an error
// wrapping gobreaker.ErrOpenState or gobreaker.ErrTooManyRequests.
func (b *scoringBreaker) execute(fn func() ([]Recommendation, error)) ([]Recommendation, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if isRejection(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
			counts := b.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)
	return result, nil
}

// state returns the breaker state for health reporting.
func (b *scoringBreaker) state() string {
	return stateToString(b.cb.State())
}

func isRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
