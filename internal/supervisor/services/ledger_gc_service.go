// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GarbageCollector is satisfied by *ledger.BadgerLedger.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// LedgerGCService periodically reclaims value-log space in the rating ledger.
// GC failures are logged and retried on the next tick; they never stop the
// service.
type LedgerGCService struct {
	gc           GarbageCollector
	interval     time.Duration
	discardRatio float64
	logger       zerolog.Logger
	name         string
}

// NewLedgerGCService creates the GC loop. interval must be positive.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLedgerGCService(gc GarbageCollector, interval time.Duration, discardRatio float64, logger zerolog.Logger) *LedgerGCService {
	return &LedgerGCService{
		gc:           gc,
		interval:     interval,
		discardRatio: discardRatio,
		logger:       logger.With().Str("service", "ledger-gc").Logger(),
		name:         "ledger-gc",
	}
}

// Serve implements suture.Service.
func (s *LedgerGCService) Serve(ctx context.Context) error {
	s.logger.Debug().
		Dur("interval", s.interval).
		Float64("discard_ratio", s.discardRatio).
		Msg("ledger GC service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			start := time.Now()
			if err := s.gc.RunGC(s.discardRatio); err != nil {
				s.logger.Warn().Err(err).Msg("ledger value log GC failed")
				continue
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("ledger value log GC complete")
		}
	}
}

// String names the service in suture events.
func (s *LedgerGCService) String() string {
	return s.name
}
