// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

/*
Package api exposes the recommendation engine over HTTP using the chi router.

# Routes

	GET  /api/v1/recommend?user_id=&n=   top-N recommendations (n defaults to 10)
	POST /api/v1/rate                    submit a batch of ratings
	GET  /api/v1/users/{userID}/stats    per-user rating summary
	GET  /api/v1/health[/live|/ready]    health and probes
	GET  /metrics                        Prometheus exposition

# Responses

Every endpoint except /metrics answers with the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", ...}}
	{"success": false, "error": {"code": "VALIDATION_FAILED", "message": "..."}}

Request bodies and query parameters are checked with the shared validator
from internal/validation before the engine is called. Rating batches that
name unknown movies are rejected as a whole with the offending ids listed in
error.details.

# Middleware

Request ids, access logging, real IP extraction, panic recovery and CORS
apply to every route. API routes add per-IP rate limiting via httprate,
security headers and Prometheus request metrics; POST /rate carries a
stricter write limit.
*/
package api
