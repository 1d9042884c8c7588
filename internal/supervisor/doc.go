// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

/*
Package supervisor provides process supervision using suture v4.

# Overview

Long-running components are organized into two layers:

	RootSupervisor ("filmfactor")
	├── StorageSupervisor ("storage-layer")
	│   └── LedgerGCService (badger ledger only, when ledger.gc_interval > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed service is restarted by its own layer. Repeated failures put that
layer into backoff without touching the other one.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

Supervisor events (start, failure, backoff) are logged through sutureslog,
which writes to zerolog via logging.SlogHandler.

# Failure Handling

Each failure increments a counter that decays over FailureDecay seconds.
When it exceeds FailureThreshold the supervisor waits FailureBackoff before
the next restart. Defaults match suture: 5 failures, 30s decay, 15s backoff,
10s shutdown timeout.

# What Is NOT Supervised

DuckDB is used once at startup to load the catalog and aggregate ratings, and
the model is immutable after load; neither runs as a service.
*/
package supervisor
