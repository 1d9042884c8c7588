// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/filmfactor/internal/recommend"
	"github.com/tomtom215/filmfactor/internal/validation"
)

// maxRequestBodyBytes bounds POST bodies.
const maxRequestBodyBytes = 1 << 20

// Recommender is the slice of the decision engine the handlers need.
type Recommender interface {
	Recommend(ctx context.Context, userID, n int) (*recommend.Result, error)
	SubmitRatings(ctx context.Context, userID int, ratings []recommend.RatingInput) (*recommend.SubmitResult, error)
	UserStats(ctx context.Context, userID int) (*recommend.UserStats, error)
	Stats() recommend.EngineStats
	Config() recommend.Config
}

// HealthCheck is a named dependency probe used by the readiness endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handler handles all HTTP API requests.
type Handler struct {
	engine    Recommender
	checks    []HealthCheck
	version   string
	startTime time.Time
}

// NewHandler creates a new API handler.
func NewHandler(engine Recommender, version string, checks ...HealthCheck) *Handler {
	return &Handler{
		engine:    engine,
		checks:    checks,
		version:   version,
		startTime: time.Now(),
	}
}

// RecommendQuery holds the parsed query string of GET /recommend.
type RecommendQuery struct {
	UserID int `json:"user_id"`
	N      int `json:"n" validate:"min=1"`
}

// RateRequest is the body of POST /rate.
type RateRequest struct {
	UserID  *int       `json:"user_id" validate:"required,gt=0"`
	Ratings []RateItem `json:"ratings" validate:"required,min=1,max=500,dive"`
}

// RateItem is one rating inside a RateRequest.
type RateItem struct {
	MovieID int     `json:"movie_id" validate:"gt=0"`
	Rating  float64 `json:"rating" validate:"halfstep"`
}

// Recommend handles GET /api/v1/recommend?user_id=&n=
//
// @Summary Get movie recommendations
// @Description Returns up to n movies the user has not rated. Users with enough ratings who are in the trained model get FunkSVD scores; everyone else gets the popularity ranking. The source field names the path taken.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param user_id query int true "User ID"
// @Param n query int false "Number of recommendations (1-50, default 10)"
// @Success 200 {object} APIResponse{data=recommend.Result} "Recommendations"
// @Failure 400 {object} APIResponse "Missing or invalid user_id or n"
// @Failure 500 {object} APIResponse "Rating ledger unavailable"
// @Router /recommend [get]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	cfg := h.engine.Config()

	userID, err := requiredIntParam(r, "user_id")
	if err != nil {
		rw.ValidationError(err.Error(), map[string]interface{}{"field": "user_id"})
		return
	}
	n, err := intParam(r, "n", cfg.DefaultN)
	if err != nil {
		rw.ValidationError(err.Error(), map[string]interface{}{"field": "n"})
		return
	}

	query := RecommendQuery{UserID: userID, N: n}
	if verr := validation.ValidateStruct(&query); verr != nil {
		rw.RequestValidationError(verr)
		return
	}
	if n > cfg.MaxN {
		rw.ValidationError(outOfRangeMessage("n", 1, cfg.MaxN), map[string]interface{}{
			"field": "n",
			"value": n,
		})
		return
	}

	result, err := h.engine.Recommend(r.Context(), userID, n)
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidCount) {
			rw.ValidationError(err.Error(), map[string]interface{}{"field": "n"})
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Success(result)
}

// Rate handles POST /api/v1/rate
//
// @Summary Submit ratings
// @Description Stores a batch of ratings for a user in one transaction. Ratings must be 0.5 to 5.0 in half steps and every movie must exist in the catalog; any invalid entry rejects the whole batch.
// @Tags Ratings
// @Accept json
// @Produce json
// @Param request body RateRequest true "User ID and ratings"
// @Success 200 {object} APIResponse{data=recommend.SubmitResult} "Ratings stored"
// @Failure 400 {object} APIResponse "Invalid body, rating value or movie id"
// @Failure 429 {object} APIResponse "Rate limit exceeded"
// @Failure 500 {object} APIResponse "Rating ledger unavailable"
// @Router /rate [post]
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.RequestValidationError(verr)
		return
	}

	inputs := make([]recommend.RatingInput, len(req.Ratings))
	for i, item := range req.Ratings {
		inputs[i] = recommend.RatingInput{MovieID: item.MovieID, Rating: item.Rating}
	}

	result, err := h.engine.SubmitRatings(r.Context(), *req.UserID, inputs)
	if err != nil {
		var verr *recommend.ValidationError
		if errors.As(err, &verr) {
			rw.ValidationError(verr.Error(), verr)
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Success(result)
}

// UserStats handles GET /api/v1/users/{userID}/stats
//
// @Summary Get user rating statistics
// @Description Returns the user's rating count, average rating, whether the model was trained on them and which recommendation path they currently get.
// @Tags Ratings
// @Accept json
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} APIResponse{data=recommend.UserStats} "User statistics"
// @Failure 400 {object} APIResponse "Invalid user id"
// @Failure 500 {object} APIResponse "Rating ledger unavailable"
// @Router /users/{userID}/stats [get]
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := parseInt("userID", chi.URLParam(r, "userID"))
	if err != nil {
		rw.ValidationError(err.Error(), map[string]interface{}{"field": "userID"})
		return
	}

	stats, err := h.engine.UserStats(r.Context(), userID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.Success(stats)
}
