// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/hybridrec/internal/logging"
)

// fakeServer blocks in ListenAndServe until Shutdown, unless listenErr is set.
type fakeServer struct {
	listenErr   error
	shutdownErr error

	listens   atomic.Int32
	shutdowns atomic.Int32
	started   chan struct{}
	stopOnce  sync.Once
	stop      chan struct{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		started: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
}

func (f *fakeServer) ListenAndServe() error {
	f.listens.Add(1)
	select {
	case f.started <- struct{}{}:
	default:
	}
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.shutdowns.Add(1)
	f.stopOnce.Do(func() { close(f.stop) })
	return f.shutdownErr
}

func (f *fakeServer) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-f.started:
	case <-time.After(2 * time.Second):
		t.Fatal("ListenAndServe was not called")
	}
}

var _ HTTPServer = (*http.Server)(nil)

func TestHTTPServerService_Interface(t *testing.T) {
	t.Parallel()

	var _ suture.Service = (*HTTPServerService)(nil)

	svc := NewHTTPServerService(newFakeServer(), 0, zerolog.Nop())
	if svc.String() != "http-server" {
		t.Errorf("String() = %q, want http-server", svc.String())
	}
	if svc.shutdownTimeout != 10*time.Second {
		t.Errorf("shutdownTimeout = %v, want default 10s", svc.shutdownTimeout)
	}
}

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	srv := newFakeServer()
	svc := NewHTTPServerService(srv, time.Second, logging.NewTestLogger(&buf))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	srv.waitStarted(t)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if got := srv.shutdowns.Load(); got != 1 {
		t.Errorf("Shutdown calls = %d, want 1", got)
	}
	if !strings.Contains(buf.String(), "shutting down http server") {
		t.Errorf("missing shutdown log line: %s", buf.String())
	}
}

func TestHTTPServerService_ServeErrors(t *testing.T) {
	t.Parallel()

	bindErr := errors.New("listen tcp :8080: bind: address already in use")

	tests := []struct {
		name      string
		listenErr error
		wantErr   error
	}{
		{"listen failure surfaces", bindErr, bindErr},
		{"closed server is clean", http.ErrServerClosed, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newFakeServer()
			srv.listenErr = tt.listenErr
			svc := NewHTTPServerService(srv, time.Second, zerolog.Nop())

			err := svc.Serve(context.Background())
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Serve() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Serve() = %v, want wrapped %v", err, tt.wantErr)
			}
			if srv.shutdowns.Load() != 0 {
				t.Error("Shutdown called after listen failure")
			}
		})
	}
}

func TestHTTPServerService_ShutdownError(t *testing.T) {
	t.Parallel()

	srv := newFakeServer()
	srv.shutdownErr = errors.New("connections still active")
	svc := NewHTTPServerService(srv, 50*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	srv.waitStarted(t)
	cancel()

	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "shutdown failed") {
			t.Errorf("Serve() = %v, want shutdown failure", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
}

func TestHTTPServerService_UnderSupervisor(t *testing.T) {
	t.Parallel()

	srv := newFakeServer()
	svc := NewHTTPServerService(srv, time.Second, zerolog.Nop())

	sup := suture.New("api-test", suture.Spec{Timeout: 2 * time.Second})
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	srv.waitStarted(t)
	cancel()

	select {
	case <-errCh:
	case <-time.After(3 * time.Second):
		t.Fatal("supervisor did not stop")
	}
	if srv.listens.Load() != 1 {
		t.Errorf("ListenAndServe calls = %d, want 1", srv.listens.Load())
	}
}
