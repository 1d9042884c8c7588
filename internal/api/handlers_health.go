// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package api

import (
	"context"
	"net/http"
	"time"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "Movie Recommender API"

// readyCheckTimeout bounds each readiness probe.
const readyCheckTimeout = 2 * time.Second

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status         string            `json:"status"`
	Service        string            `json:"service"`
	Version        string            `json:"version"`
	Model          string            `json:"model"`
	TrainedUsers   int               `json:"trained_users"`
	TrainedMovies  int               `json:"trained_movies"`
	CatalogMovies  int               `json:"catalog_movies"`
	PopularityPool int               `json:"popularity_pool"`
	BreakerState   string            `json:"breaker_state"`
	Uptime         float64           `json:"uptime_seconds"`
	Checks         map[string]string `json:"checks,omitempty"`
}

// Health handles health check requests.
// The status is "online" when every dependency check passes and "degraded"
// otherwise; the endpoint itself always answers 200.
//
// @Summary Get service health status
// @Description Returns service name, version, model name, trained user and movie counts, catalog size, circuit breaker state and dependency check results
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	results, healthy := h.runChecks(r.Context())
	stats := h.engine.Stats()

	status := "online"
	if !healthy {
		status = "degraded"
	}

	NewResponseWriter(w, r).Success(HealthStatus{
		Status:         status,
		Service:        ServiceName,
		Version:        h.version,
		Model:          stats.Model,
		TrainedUsers:   stats.TrainedUsers,
		TrainedMovies:  stats.TrainedItems,
		CatalogMovies:  stats.CatalogSize,
		PopularityPool: stats.PopularityPool,
		BreakerState:   stats.BreakerState,
		Uptime:         time.Since(h.startTime).Seconds(),
		Checks:         results,
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies. Used for Kubernetes liveness probes.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if every dependency check passes, 503 otherwise.
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK only if every dependency check (the rating ledger) passes. Returns 503 if not ready.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse "Service is ready"
// @Failure 503 {object} APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	results, healthy := h.runChecks(r.Context())
	if !healthy {
		rw.ServiceUnavailable("Service not ready", results)
		return
	}
	rw.Success(map[string]interface{}{
		"ready":  true,
		"checks": results,
	})
}

func (h *Handler) runChecks(ctx context.Context) (map[string]string, bool) {
	if len(h.checks) == 0 {
		return nil, true
	}
	results := make(map[string]string, len(h.checks))
	healthy := true
	for _, c := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, readyCheckTimeout)
		err := c.Check(checkCtx)
		cancel()
		if err != nil {
			results[c.Name] = err.Error()
			healthy = false
			continue
		}
		results[c.Name] = "ok"
	}
	return results, healthy
}
