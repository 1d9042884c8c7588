// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// requiredIntParam parses a mandatory integer query parameter.
func requiredIntParam(r *http.Request, key string) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	return parseInt(key, value)
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}
	return parseInt(key, value)
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

func outOfRangeMessage(key string, lo, hi int) string {
	return fmt.Sprintf("%s must be between %d and %d", key, lo, hi)
}
