// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and client tracking TTLs.
  - Security: Cookie names and signing configuration.

The four cookie names below are a compatibility contract with deployed
frontends; renaming any of them is a breaking change.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "brokerdesk-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per client.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitSweepInterval is how often idle client entries are removed from memory.
	RateLimitSweepInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Login Attempt Limiting

const (
	// LoginAttemptLimit is the number of failed logins allowed per client
	// identifier within the attempt window before a 429 is returned.
	LoginAttemptLimit = 10

	// LoginAttemptWindow is the TTL of the per-client failed-login counter.
	LoginAttemptWindow = 15 * time.Minute
)

// # Session Cookies

// Cookie names are fixed for compatibility with deployed clients.
const (
	// SessionCookieName holds the signed credential token. HttpOnly.
	SessionCookieName = "session_token"

	// RoleHintCookieName mirrors the normalized base role for client UI.
	// Readable by scripts, never trusted by the server.
	RoleHintCookieName = "user_role"

	// AssumedRoleCookieName holds the policy-checked assumed role. HttpOnly.
	AssumedRoleCookieName = "assumed_role"

	// ActiveRoleCookieName mirrors the assumed role for client UI.
	// Readable by scripts, never trusted by the server.
	ActiveRoleCookieName = "active_role"
)

const (
	// SessionIssuer is the standard 'iss' claim in credential tokens.
	SessionIssuer = "brokerdesk.app"

	// DefaultSessionTTL is the credential token lifetime when SESSION_TTL is unset.
	DefaultSessionTTL = 24 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID      = "X-Request-ID"
	HeaderXRealIP         = "X-Real-IP"
	HeaderXForwardedFor   = "X-Forwarded-For"
	HeaderXForwardedProto = "X-Forwarded-Proto"
	HeaderOrigin          = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData     = "data"
	FieldMeta     = "meta"
	FieldError    = "error"
	FieldCode     = "code"
	FieldDetails  = "details"
	FieldMessage  = "message"
	FieldStatus   = "status"
	FieldOK       = "ok"
	FieldRedirect = "redirect"
)

// # Database Schemas

const (
	SchemaUsers = "users"
	SchemaCRM   = "crm"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixLoginAttempt = "auth:login_attempt:"
)
