// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

// Package services adapts long-running components to suture.Service.
//
//   - HTTPServerService: the chi API server (api layer)
//   - LedgerGCService: badger value-log GC for the rating ledger (storage layer)
//
// Each wrapper returns ctx.Err() on cancellation so suture treats the stop
// as intentional, and returns a wrapped error on failure so suture restarts
// it with backoff.
package services
