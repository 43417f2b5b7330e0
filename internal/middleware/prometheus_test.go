// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/hybridrec/internal/metrics"
)

func TestPrometheusMetrics_RoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	tests := []struct {
		name    string
		path    string
		pattern string
		status  string
	}{
		{"pattern label", "/items/42", "/items/{id}", "418"},
		{"implicit 200", "/ok", "/ok", "200"},
		{"unmatched route", "/nope/123", unmatchedRoute, "404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, tt.pattern, tt.status)
			before := testutil.ToFloat64(counter)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Errorf("api_requests_total{%s,%s} = %f, want %f", tt.pattern, tt.status, got, before+1)
			}
		})
	}
}

func TestPrometheusMetrics_RateLimitHits(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/limited", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	before := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("/limited"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/limited", nil))
	if got := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("/limited")); got != before+1 {
		t.Errorf("rate limit hits = %f, want %f", got, before+1)
	}
}

func TestPrometheusMetrics_ActiveRequests(t *testing.T) {
	var during float64
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/active", func(w http.ResponseWriter, _ *http.Request) {
		during = testutil.ToFloat64(metrics.APIActiveRequests)
	})

	before := testutil.ToFloat64(metrics.APIActiveRequests)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/active", nil))

	if during != before+1 {
		t.Errorf("active during request = %f, want %f", during, before+1)
	}
	if got := testutil.ToFloat64(metrics.APIActiveRequests); got != before {
		t.Errorf("active after request = %f, want %f", got, before)
	}
}

func TestRoutePattern_NoRouter(t *testing.T) {
	t.Parallel()

	if got := RoutePattern(httptest.NewRequest(http.MethodGet, "/x", nil)); got != unmatchedRoute {
		t.Errorf("RoutePattern() = %q, want %q", got, unmatchedRoute)
	}
}
