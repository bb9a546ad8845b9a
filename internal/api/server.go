// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/brokerdesk/brokerdesk/internal/auth"
	"github.com/brokerdesk/brokerdesk/internal/dashboard"
	"github.com/brokerdesk/brokerdesk/internal/leads"
	"github.com/brokerdesk/brokerdesk/internal/platform/config"
	"github.com/brokerdesk/brokerdesk/internal/platform/constants"
	"github.com/brokerdesk/brokerdesk/internal/platform/middleware"
	"github.com/brokerdesk/brokerdesk/internal/platform/ratelimit"
	"github.com/brokerdesk/brokerdesk/internal/platform/sec"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles sign-in, verify, and the role-assumption endpoints.
	Auth *auth.Handler

	// Leads handles prospect intake and tracking.
	Leads *leads.Handler

	// Dashboard serves the landing metrics for each role area.
	Dashboard *dashboard.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// The route gate runs globally, directly after Authenticate: every request
// touching a role-area prefix is checked against the caller's effective role
// before any handler sees it.
func NewServer(cfg *config.Config, log *slog.Logger, tokens *sec.TokenService, limiter *ratelimit.Limiter, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution. CleanPath must run
	// before the gate so both see the exact path chi dispatches on, and CORS
	// must run before the gate so credential-less preflights are answered
	// instead of rejected.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(limiter))
	r.Use(middleware.PanicRecovery(log))
	r.Use(chimw.CleanPath)
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.Authenticate(tokens))
	r.Use(middleware.Gate())

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Mount("/auth", h.Auth.Routes())
	r.Route("/api", func(api chi.Router) {
		api.Mount("/leads", h.Leads.Routes())
	})

	// # Role Areas
	// One dashboard per role prefix, reachable only through the gate.
	r.Mount("/", h.Dashboard.Routes())

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
