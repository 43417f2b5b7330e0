// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/middleware"
)

// RouterConfig configures the HTTP router.
type RouterConfig struct {
	Middleware *ChiMiddlewareConfig

	// DevEndpoints mounts the strategy probes under /api/v1/dev.
	DevEndpoints bool
}

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	config        RouterConfig
	logger        zerolog.Logger
}

// NewRouter creates a router.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewRouter(handler *Handler, config RouterConfig, logger zerolog.Logger) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(config.Middleware),
		config:        config,
		logger:        logger,
	}
}

// SetupChi builds the route tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to all routes, in order.
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(router.logger))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// Probes stay outside the rate limiter.
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.chiMiddleware.RateLimit())

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/status", router.handler.ModelStatus)
			r.Get("/{userID}", router.handler.Recommendations)
			r.Get("/{userID}/latent", router.handler.LatentRecommendations)
		})

		r.Post("/interactions", router.handler.RecordInteraction)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", router.handler.Products)
			r.Get("/search", router.handler.SearchProducts)
			r.Get("/{productID}", router.handler.Product)
		})

		if router.config.DevEndpoints {
			r.Route("/dev", func(r chi.Router) {
				r.Get("/strategies/{strategy}/{userID}", router.handler.ProbeStrategy)
				r.Get("/demographics", router.handler.ProbeDemographics)
			})
		}
	})

	return r
}
