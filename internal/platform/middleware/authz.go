// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/brokerdesk/brokerdesk/internal/platform/constants"
	"github.com/brokerdesk/brokerdesk/internal/platform/ctxutil"
	"github.com/brokerdesk/brokerdesk/internal/platform/sec"
	"github.com/brokerdesk/brokerdesk/internal/rbac"
)

// # Authentication

// Authenticate resolves the caller's session from the request and, when a
// valid credential is present, attaches the [sec.Session] to the context.
//
// The credential is read from the session cookie first, then from a Bearer
// Authorization header for non-browser clients. The assumed-role cookie is
// consulted only after the credential verifies; an absent, invalid, or
// non-downgrade value leaves the session at its base role.
//
// This middleware never rejects a request. Handlers and the route gate decide
// what an anonymous caller may do.
func Authenticate(tokens *sec.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Extract the raw credential token
			tokenString := credentialFromRequest(request)
			if tokenString == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Verify signature and expiry
			claims, err := tokens.VerifySessionToken(tokenString)
			if err != nil {
				// An unverifiable token is treated the same as no token.
				next.ServeHTTP(writer, request)
				return
			}

			// 3. Fold in the assumed-role cookie (policy-checked downstream)
			assumedRaw := ""
			if cookie, cookieErr := request.Cookie(constants.AssumedRoleCookieName); cookieErr == nil {
				assumedRaw = cookie.Value
			}

			session := sec.SessionFromClaims(claims, assumedRaw)
			ctx := ctxutil.WithSession(request.Context(), session)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// credentialFromRequest returns the raw session token, preferring the
// session cookie over the Authorization header.
func credentialFromRequest(request *http.Request) string {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := request.Header.Get("Authorization")
	if token, found := strings.CutPrefix(authHeader, "Bearer "); found {
		return strings.TrimSpace(token)
	}

	return ""
}

// # Authorization

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if ctxutil.GetSession(request.Context()) == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequireRole rejects callers whose effective role sits below the minimum.
// An assumed role lowers the caller to the assumed level, so a super_admin
// browsing as agent is refused manager-level routes here.
func RequireRole(minimum rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			session := ctxutil.GetSession(request.Context())
			if session == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			if !session.EffectiveRole().AtLeast(minimum) {
				writeError(writer, http.StatusForbidden, "FORBIDDEN", "Insufficient role")
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// Gate enforces the role-to-prefix authorization map on every request.
//
// The path is lexically cleaned before matching, so doubled slashes and dot
// segments cannot dress a guarded path up as an unguarded one. The gate must
// see the same path the router dispatches on.
//
// Paths outside any guarded prefix pass through untouched. Within a guarded
// prefix, anonymous callers get 401 and callers whose effective role does not
// grant the prefix get 403.
func Gate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			requestPath := path.Clean(request.URL.Path)
			if !rbac.GuardedPrefix(requestPath) {
				next.ServeHTTP(writer, request)
				return
			}

			session := ctxutil.GetSession(request.Context())
			if session == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			if !rbac.Allowed(requestPath, session.EffectiveRole()) {
				writeError(writer, http.StatusForbidden, "FORBIDDEN", "Access to this area is not permitted")
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
