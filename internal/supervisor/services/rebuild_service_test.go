// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

type fakeRebuildEngine struct {
	calls    atomic.Int32
	requests chan struct{}
	err      atomic.Value // error
}

func newFakeRebuildEngine() *fakeRebuildEngine {
	return &fakeRebuildEngine{requests: make(chan struct{}, 1)}
}

func (f *fakeRebuildEngine) Rebuild(ctx context.Context) error {
	f.calls.Add(1)
	if err, ok := f.err.Load().(error); ok && err != nil {
		return err
	}
	return ctx.Err()
}

func (f *fakeRebuildEngine) RebuildRequests() <-chan struct{} {
	return f.requests
}

func (f *fakeRebuildEngine) request() {
	select {
	case f.requests <- struct{}{}:
	default:
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func runService(t *testing.T, svc suture.Service) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("Serve did not return after cancellation")
		}
	})
	return cancel
}

func TestRebuildService_Interface(t *testing.T) {
	var _ suture.Service = (*RebuildService)(nil)
}

func TestNewRebuildService_Defaults(t *testing.T) {
	svc := NewRebuildService(newFakeRebuildEngine(), RebuildServiceConfig{}, zerolog.Nop())

	if svc.config.Timeout != 10*time.Minute {
		t.Errorf("Timeout = %v, want 10m", svc.config.Timeout)
	}
	if svc.config.FailureThreshold != 3 {
		t.Errorf("FailureThreshold = %d, want 3", svc.config.FailureThreshold)
	}
	if svc.BreakerState() != gobreaker.StateClosed {
		t.Errorf("BreakerState() = %v, want closed", svc.BreakerState())
	}
	if svc.String() != "rebuild-service" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestRebuildService_StartupAndRequests(t *testing.T) {
	engine := newFakeRebuildEngine()
	svc := NewRebuildService(engine, RebuildServiceConfig{}, zerolog.Nop())
	runService(t, svc)

	waitFor(t, func() bool { return engine.calls.Load() == 1 })

	engine.request()
	waitFor(t, func() bool { return engine.calls.Load() == 2 })
}

func TestRebuildService_Schedule(t *testing.T) {
	engine := newFakeRebuildEngine()
	svc := NewRebuildService(engine, RebuildServiceConfig{Interval: 10 * time.Millisecond}, zerolog.Nop())
	runService(t, svc)

	waitFor(t, func() bool { return engine.calls.Load() >= 3 })
}

func TestRebuildService_CoalescesRequests(t *testing.T) {
	engine := newFakeRebuildEngine()
	svc := NewRebuildService(engine, RebuildServiceConfig{MinInterval: 100 * time.Millisecond}, zerolog.Nop())
	runService(t, svc)

	waitFor(t, func() bool { return engine.calls.Load() == 1 })

	// Inside MinInterval: all of these collapse into one deferred rebuild.
	for i := 0; i < 5; i++ {
		engine.request()
		time.Sleep(2 * time.Millisecond)
	}
	if got := engine.calls.Load(); got != 1 {
		t.Errorf("calls inside MinInterval = %d, want 1", got)
	}

	waitFor(t, func() bool { return engine.calls.Load() == 2 })
	time.Sleep(150 * time.Millisecond)
	if got := engine.calls.Load(); got != 2 {
		t.Errorf("calls after deferral = %d, want 2", got)
	}
}

func TestRebuildService_BreakerOpens(t *testing.T) {
	engine := newFakeRebuildEngine()
	engine.err.Store(errors.New("load dataset: connection refused"))

	svc := NewRebuildService(engine, RebuildServiceConfig{
		Interval:         5 * time.Millisecond,
		FailureThreshold: 2,
		BreakerTimeout:   time.Hour,
	}, zerolog.Nop())
	runService(t, svc)

	waitFor(t, func() bool { return svc.BreakerState() == gobreaker.StateOpen })
	calls := engine.calls.Load()
	if calls != 2 {
		t.Errorf("calls before opening = %d, want 2", calls)
	}

	time.Sleep(50 * time.Millisecond)
	if got := engine.calls.Load(); got != calls {
		t.Errorf("rebuilds ran while the breaker was open: %d -> %d", calls, got)
	}
}

func TestRebuildService_InProgressDoesNotTrip(t *testing.T) {
	engine := newFakeRebuildEngine()
	engine.err.Store(recommend.ErrRebuildInProgress)

	svc := NewRebuildService(engine, RebuildServiceConfig{
		Interval:         5 * time.Millisecond,
		FailureThreshold: 1,
	}, zerolog.Nop())
	runService(t, svc)

	waitFor(t, func() bool { return engine.calls.Load() >= 5 })
	if svc.BreakerState() != gobreaker.StateClosed {
		t.Errorf("BreakerState() = %v, want closed", svc.BreakerState())
	}
}
