// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brokerdesk/brokerdesk/internal/auth"
	"github.com/brokerdesk/brokerdesk/internal/dashboard"
	"github.com/brokerdesk/brokerdesk/internal/leads"
	"github.com/brokerdesk/brokerdesk/internal/platform/apperr"
	"github.com/brokerdesk/brokerdesk/internal/platform/config"
	"github.com/brokerdesk/brokerdesk/internal/platform/constants"
	"github.com/brokerdesk/brokerdesk/internal/platform/ratelimit"
	"github.com/brokerdesk/brokerdesk/internal/platform/sec"
)

// # Test Doubles
// Minimal repository stubs: these tests exercise the middleware chain, not
// the domain behavior behind it.

type stubUserRepository struct{}

func (stubUserRepository) FindByEmail(_ context.Context, _ string) (*auth.User, error) {
	return nil, apperr.NotFound("Account")
}

func (stubUserRepository) FindByID(_ context.Context, _ string) (*auth.User, error) {
	return nil, apperr.NotFound("Account")
}

func (stubUserRepository) TouchLastLogin(_ context.Context, _ string, _ time.Time) error {
	return nil
}

type stubAttemptRepository struct{}

func (stubAttemptRepository) Record(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

func (stubAttemptRepository) Reset(_ context.Context, _ string) error { return nil }

type stubLeadRepository struct{}

func (stubLeadRepository) Create(_ context.Context, _ *leads.Lead) error { return nil }

func (stubLeadRepository) FindByID(_ context.Context, _ string) (*leads.Lead, error) {
	return nil, apperr.NotFound("Lead")
}

func (stubLeadRepository) List(_ context.Context, _ leads.Filter, _, _ int) ([]leads.Lead, int, error) {
	return nil, 0, nil
}

func (stubLeadRepository) UpdateStatus(_ context.Context, _ string, _ leads.Status) error {
	return nil
}

type stubMetricsRepository struct{}

func (stubMetricsRepository) LeadCounts(_ context.Context, _ string) (total, new_, won int, err error) {
	return 0, 0, 0, nil
}

func (stubMetricsRepository) ActiveAccountCount(_ context.Context) (int, error) { return 0, nil }

// # Harness

func newTestServer(t *testing.T) (*Server, *sec.TokenService) {
	t.Helper()

	cfg := &config.Config{ServerPort: "0", Environment: "production"}
	tokens, err := sec.NewTokenService("0123456789abcdef0123456789abcdef", constants.SessionIssuer, time.Hour)
	require.NoError(t, err)

	limiter := ratelimit.New(ratelimit.Config{RPS: 1000, Burst: 1000, ClientTTL: time.Minute})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	server := NewServer(cfg, logger, tokens, limiter, Handlers{
		Liveness:  func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) },
		Readiness: func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) },
		Auth:      auth.NewHandler(auth.NewService(stubUserRepository{}, stubAttemptRepository{}, tokens)),
		Leads:     leads.NewHandler(leads.NewService(stubLeadRepository{})),
		Dashboard: dashboard.NewHandler(stubMetricsRepository{}),
	})
	return server, tokens
}

// # Scenarios

// TestServerRouteGate drives the assembled middleware chain end to end: the
// gate must judge the exact path chi dispatches on, so no lexical variant of
// a guarded path may reach a handler the caller's role does not grant.
func TestServerRouteGate(t *testing.T) {
	server, tokens := newTestServer(t)

	agentToken, err := tokens.GenerateSessionToken("user-1", "agent@brokerdesk.app", []string{"agent"})
	require.NoError(t, err)

	get := func(t *testing.T, target, token string) *httptest.ResponseRecorder {
		t.Helper()
		request := httptest.NewRequest(http.MethodGet, target, nil)
		if token != "" {
			request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: token})
		}
		recorder := httptest.NewRecorder()
		server.router.ServeHTTP(recorder, request)
		return recorder
	}

	t.Run("agent_reaches_own_dashboard", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(t, "/agent/dashboard", agentToken).Code)
	})

	t.Run("agent_refused_admin_dashboard", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, get(t, "/admin/dashboard", agentToken).Code)
	})

	t.Run("doubled_leading_slash_is_still_gated", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, get(t, "//admin/dashboard", agentToken).Code)
	})

	t.Run("doubled_inner_slash_is_still_gated", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, get(t, "/admin//dashboard", agentToken).Code)
	})

	t.Run("dot_segments_are_still_gated", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, get(t, "/agent/../admin/dashboard", agentToken).Code)
	})

	t.Run("anonymous_doubled_slash_gets_401", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(t, "//admin/dashboard", "").Code)
	})

	t.Run("health_probe_stays_open", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(t, "/health", "").Code)
	})
}

// Preflights carry no cookies, so CORS must answer them before the gate
// would demand a session.
func TestServerPreflightBeforeGate(t *testing.T) {
	server, _ := newTestServer(t)

	request := httptest.NewRequest(http.MethodOptions, "/admin/dashboard", nil)
	request.Header.Set(constants.HeaderOrigin, "https://ops.brokerdesk.app")
	request.Header.Set("Access-Control-Request-Method", http.MethodGet)

	recorder := httptest.NewRecorder()
	server.router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "https://ops.brokerdesk.app", recorder.Header().Get("Access-Control-Allow-Origin"))
}
