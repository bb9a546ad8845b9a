// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brokerdesk/brokerdesk/internal/platform/constants"
	"github.com/brokerdesk/brokerdesk/internal/platform/ctxutil"
	"github.com/brokerdesk/brokerdesk/internal/platform/sec"
	"github.com/brokerdesk/brokerdesk/internal/rbac"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	tokens, err := sec.NewTokenService(testSecret, constants.SessionIssuer, time.Hour)
	require.NoError(t, err)
	return tokens
}

// okHandler records the session it observed and returns 200.
func okHandler(observed **sec.Session) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*observed = ctxutil.GetSession(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	tokens := newTestTokenService(t)

	signedToken, err := tokens.GenerateSessionToken("user-1", "ops@brokerdesk.app", []string{"super_admin"})
	require.NoError(t, err)

	tests := []struct {
		name        string
		cookies     []*http.Cookie
		authHeader  string
		wantSession bool
		wantRole    rbac.Role
	}{
		{
			name:        "no_credential_stays_anonymous",
			wantSession: false,
		},
		{
			name:        "valid_cookie_attaches_session",
			cookies:     []*http.Cookie{{Name: constants.SessionCookieName, Value: signedToken}},
			wantSession: true,
			wantRole:    rbac.RoleSuperAdmin,
		},
		{
			name:        "bearer_header_attaches_session",
			authHeader:  "Bearer " + signedToken,
			wantSession: true,
			wantRole:    rbac.RoleSuperAdmin,
		},
		{
			name:        "garbage_cookie_stays_anonymous",
			cookies:     []*http.Cookie{{Name: constants.SessionCookieName, Value: "not-a-token"}},
			wantSession: false,
		},
		{
			name: "assumed_cookie_downgrades_effective_role",
			cookies: []*http.Cookie{
				{Name: constants.SessionCookieName, Value: signedToken},
				{Name: constants.AssumedRoleCookieName, Value: "agent"},
			},
			wantSession: true,
			wantRole:    rbac.RoleAgent,
		},
		{
			name: "unassumable_cookie_is_ignored",
			cookies: []*http.Cookie{
				{Name: constants.SessionCookieName, Value: signedToken},
				{Name: constants.AssumedRoleCookieName, Value: "super_admin"},
			},
			wantSession: true,
			wantRole:    rbac.RoleSuperAdmin,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			var observed *sec.Session
			handler := Authenticate(tokens)(okHandler(&observed))

			request := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
			for _, cookie := range testCase.cookies {
				request.AddCookie(cookie)
			}
			if testCase.authHeader != "" {
				request.Header.Set("Authorization", testCase.authHeader)
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusOK, recorder.Code)
			if !testCase.wantSession {
				assert.Nil(t, observed)
				return
			}
			require.NotNil(t, observed)
			assert.Equal(t, testCase.wantRole, observed.EffectiveRole())
		})
	}
}

func TestGate(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		baseRoles  []rbac.Role
		assumed    rbac.Role
		anonymous  bool
		wantStatus int
	}{
		{
			name:       "unguarded_path_passes_anonymously",
			path:       "/health",
			anonymous:  true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "guarded_path_rejects_anonymous",
			path:       "/manager/dashboard",
			anonymous:  true,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "manager_reaches_manager_area",
			path:       "/manager/dashboard",
			baseRoles:  []rbac.Role{rbac.RoleManager},
			wantStatus: http.StatusOK,
		},
		{
			name:       "manager_reaches_inherited_agent_area",
			path:       "/agent/dashboard",
			baseRoles:  []rbac.Role{rbac.RoleManager},
			wantStatus: http.StatusOK,
		},
		{
			name:       "agent_refused_manager_area",
			path:       "/manager/dashboard",
			baseRoles:  []rbac.Role{rbac.RoleAgent},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "prefix_match_is_segment_aware",
			path:       "/agentx/dashboard",
			baseRoles:  []rbac.Role{rbac.RoleAgent},
			wantStatus: http.StatusOK,
		},
		{
			name:       "doubled_slash_cannot_slip_past_the_gate",
			path:       "//admin/dashboard",
			baseRoles:  []rbac.Role{rbac.RoleAgent},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "doubled_slash_still_rejects_anonymous",
			path:       "//admin/dashboard",
			anonymous:  true,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "dot_segments_cannot_escape_the_granted_prefix",
			path:       "/agent/../admin/dashboard",
			baseRoles:  []rbac.Role{rbac.RoleAgent},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "assumed_role_confines_admin_to_agent_area",
			path:       "/admin/dashboard",
			baseRoles:  []rbac.Role{rbac.RoleAdmin},
			assumed:    rbac.RoleAgent,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "assumed_role_opens_agent_area_for_admin",
			path:       "/agent/dashboard",
			baseRoles:  []rbac.Role{rbac.RoleAdmin},
			assumed:    rbac.RoleAgent,
			wantStatus: http.StatusOK,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			handler := Gate()(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(http.StatusOK)
			}))

			request := httptest.NewRequest(http.MethodGet, testCase.path, nil)
			if !testCase.anonymous {
				session := &sec.Session{
					SubjectID:   "user-1",
					Email:       "ops@brokerdesk.app",
					BaseRoles:   testCase.baseRoles,
					AssumedRole: testCase.assumed,
				}
				request = request.WithContext(ctxutil.WithSession(request.Context(), session))
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, testCase.wantStatus, recorder.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(rbac.RoleManager)(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous_gets_401", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("below_minimum_gets_403", func(t *testing.T) {
		session := &sec.Session{BaseRoles: []rbac.Role{rbac.RoleAgent}}
		request := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
		request = request.WithContext(ctxutil.WithSession(request.Context(), session))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("assumed_role_lowers_caller", func(t *testing.T) {
		session := &sec.Session{
			BaseRoles:   []rbac.Role{rbac.RoleSuperAdmin},
			AssumedRole: rbac.RoleAgent,
		}
		request := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
		request = request.WithContext(ctxutil.WithSession(request.Context(), session))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("at_minimum_passes", func(t *testing.T) {
		session := &sec.Session{BaseRoles: []rbac.Role{rbac.RoleManager}}
		request := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
		request = request.WithContext(ctxutil.WithSession(request.Context(), session))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}
