// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built on first use with:
//   - WithRequiredStructEnabled
//   - JSON tag names in error messages ("ratings[0].rating", not "Ratings[0].Value")
//   - a custom "halfstep" tag for the 0.5 to 5.0 rating scale
//
// Example:
//
//	type RatingItem struct {
//	    MovieID int     `json:"movie_id" validate:"gt=0"`
//	    Rating  float64 `json:"rating" validate:"halfstep"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // respond 400 with apiErr.Code ("VALIDATION_FAILED")
//	}
package validation
