// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

/*
Command server runs the movie recommendation API.

# Startup

 1. Load configuration (koanf: defaults, optional config.yaml, environment)
 2. Read movies.csv into the catalog and aggregate ratings.csv with DuckDB
 3. Decode the msgpack FunkSVD bundle into the factor model and id mapper
 4. Open the rating ledger (badger by default, memory for development)
 5. Build the decision engine and start the supervisor tree (HTTP server,
    ledger GC)

Any failure before step 5 exits the process; the service never starts
with partial artifacts.

# Configuration

	MODEL_PATH=/data/model/funksvd.msgpack
	MOVIES_CSV=/data/movielens/movies.csv
	RATINGS_CSV=/data/movielens/ratings.csv
	LEDGER_BACKEND=badger LEDGER_PATH=/data/ledger
	HTTP_PORT=8000 LOG_LEVEL=info LOG_FORMAT=json

See internal/config for the full list.

# Signals

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
SHUTDOWN_TIMEOUT and the ledger is closed last.
*/
package main
