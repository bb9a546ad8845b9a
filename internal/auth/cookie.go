// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package auth

import (
	"net/http"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/platform/constants"
	"github.com/brokerdesk/brokerdesk/internal/platform/middleware"
	"github.com/brokerdesk/brokerdesk/internal/rbac"
)

// # Cookie Codec
//
// The browser session is carried by four cookies:
//
//   - session_token (HttpOnly): the signed credential; the server's source
//     of identity and base roles.
//   - user_role (script-readable): mirrors the highest base role so the UI
//     can render navigation without decoding the token. Never trusted.
//   - assumed_role (HttpOnly): the policy-checked downgrade target.
//   - active_role (script-readable): mirrors assumed_role for the UI.
//     Never trusted.
//
// Set and clear MUST go through the same attribute builder: a clear whose
// Path or SameSite differs from the set is a distinct cookie to the browser
// and the original survives, leaving the client stuck in an assumed role.

// deleteCookie is the Max-Age value that makes a browser drop the cookie.
const deleteCookie = -1

// sessionCookie builds a cookie with the attributes shared by every session
// cookie: Path=/ so set and clear always address the same cookie, SameSite
// Lax, and Secure whenever the request arrived over HTTPS.
func sessionCookie(request *http.Request, name, value string, maxAge int, httpOnly bool) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   middleware.IsSecure(request),
		SameSite: http.SameSiteLaxMode,
	}

	// Legacy user agents honor Expires but not Max-Age.
	if maxAge < 0 {
		cookie.Expires = time.Unix(0, 0)
	}

	return cookie
}

// issueSession sets the credential cookie and the readable role hint after a
// successful sign-in.
func issueSession(writer http.ResponseWriter, request *http.Request, token string, role rbac.Role, ttl time.Duration) {
	maxAge := int(ttl / time.Second)

	http.SetCookie(writer, sessionCookie(request, constants.SessionCookieName, token, maxAge, true))
	http.SetCookie(writer, sessionCookie(request, constants.RoleHintCookieName, string(role), maxAge, false))
}

// issueAssumedRole sets the assumed-role pair after a policy-approved switch.
// The pair carries no expiry of its own: it ends by explicit clear (or
// logout), never by aging out while the credential is still live.
func issueAssumedRole(writer http.ResponseWriter, request *http.Request, role rbac.Role) {
	http.SetCookie(writer, sessionCookie(request, constants.AssumedRoleCookieName, string(role), 0, true))
	http.SetCookie(writer, sessionCookie(request, constants.ActiveRoleCookieName, string(role), 0, false))
}

// clearAssumedRole drops the assumed-role pair, returning the caller to their
// base role.
func clearAssumedRole(writer http.ResponseWriter, request *http.Request) {
	http.SetCookie(writer, sessionCookie(request, constants.AssumedRoleCookieName, "", deleteCookie, true))
	http.SetCookie(writer, sessionCookie(request, constants.ActiveRoleCookieName, "", deleteCookie, false))
}

// clearSession drops all four session cookies on logout.
func clearSession(writer http.ResponseWriter, request *http.Request) {
	http.SetCookie(writer, sessionCookie(request, constants.SessionCookieName, "", deleteCookie, true))
	http.SetCookie(writer, sessionCookie(request, constants.RoleHintCookieName, "", deleteCookie, false))
	clearAssumedRole(writer, request)
}
