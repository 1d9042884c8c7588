// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package main

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmfactor/internal/logging"
	"github.com/tomtom215/filmfactor/internal/supervisor"
)

// blockingService runs until its context is canceled.
type blockingService struct{}

func (blockingService) Serve(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingService) String() string { return "blocking" }

func waitWithDeadline(t *testing.T, ctx context.Context, errCh <-chan error) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- waitForSupervisor(ctx, errCh) }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("waitForSupervisor did not return after the tree stopped")
		return nil
	}
}

func TestWaitForSupervisor(t *testing.T) {
	t.Run("returns after cancellation stops the tree", func(t *testing.T) {
		tree, err := supervisor.NewSupervisorTree(slog.New(logging.NewSlogHandler(zerolog.Nop())), supervisor.TreeConfig{
			ShutdownTimeout: time.Second,
		})
		if err != nil {
			t.Fatalf("NewSupervisorTree() error = %v", err)
		}
		tree.AddAPIService(blockingService{})

		ctx, cancel := context.WithCancel(context.Background())
		errCh := tree.ServeBackground(ctx)
		cancel()

		if err := waitWithDeadline(t, ctx, errCh); err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("waitForSupervisor() error = %v", err)
		}
	})

	t.Run("returns the tree error without a second receive", func(t *testing.T) {
		errCh := make(chan error, 1)
		errCh <- errors.New("tree failed")

		err := waitWithDeadline(t, context.Background(), errCh)
		if err == nil || err.Error() != "tree failed" {
			t.Errorf("waitForSupervisor() error = %v, want tree failed", err)
		}
	})
}
