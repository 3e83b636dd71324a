// SPDX-License-Identifier: MIT

// Package api provides the HTTP surface of lifecount: the phase-entry
// notification endpoint, count snapshots in JSON and text, the journal
// view, and the operational probes.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/phasekit/lifecount/internal/config"
	"github.com/phasekit/lifecount/internal/health"
	"github.com/phasekit/lifecount/internal/journal"
	"github.com/phasekit/lifecount/internal/log"
	"github.com/phasekit/lifecount/internal/tracker"
)

// Server is the lifecount HTTP API server.
type Server struct {
	cfg           config.AppConfig
	tracker       *tracker.Tracker
	journal       *journal.Journal // nil when journaling is disabled
	healthManager *health.Manager
	httpServer    *http.Server
}

// New wires the API server. The journal may be nil.
func New(cfg config.AppConfig, tr *tracker.Tracker, jnl *journal.Journal, hm *health.Manager) *Server {
	s := &Server{
		cfg:           cfg,
		tracker:       tr,
		journal:       jnl,
		healthManager: hm,
	}

	var handler http.Handler = s.newRouter()
	if cfg.TracingEnabled {
		handler = otelhttp.NewHandler(handler, "lifecount-api")
	}

	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) newRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(metricsMiddleware)
	if s.cfg.RateLimitEnabled {
		r.Use(rateLimitMiddleware(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst))
	}
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.healthManager.ServeHealth)
	r.Get("/readyz", s.healthManager.ServeReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/phases/{phase}", s.handleRecordPhase)
		r.Get("/counts", s.handleGetCounts)
		r.Get("/counts.txt", s.handleGetCountsText)
		r.Post("/reset", s.handleReset)
		r.Get("/journal", s.handleGetJournal)
	})

	return r
}

// ListenAndServe runs the server until it fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	logger := log.WithComponent("api")
	logger.Info().
		Str("addr", s.cfg.ListenAddr).
		Str(log.FieldEvent, "server.listening").
		Msg("http server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
