// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

// Package sec provides cryptographic primitives and credential management.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, credential
// signing) from the domain logic. There is no server-side session table: the
// signed token IS the session, so signature verification and expiry are
// enforced on every read, all through this single shared utility.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/brokerdesk/brokerdesk/internal/rbac"
)

// minSecretLength guards against weak HMAC keys sneaking in via misconfigured
// environments.
const minSecretLength = 32

// SessionClaims is the payload embedded inside the signed credential token.
//
// # Why custom claims?
//
// Embedding the subject id, email, and normalized base roles directly in the
// token lets the gate middleware reconstruct the session WITHOUT a database
// round-trip on every request. Claim names are abbreviated to keep the
// cookie small.
type SessionClaims struct {
	jwt.RegisteredClaims

	UserID string   `json:"uid"`
	Email  string   `json:"eml"`
	Roles  []string `json:"rls"`
}

// Session is the runtime identity reconstructed from the request's cookies.
//
// BaseRoles come from the verified credential token; AssumedRole comes from
// the assumed_role cookie and is only ever populated after passing
// [rbac.CanAssume] at switch time.
type Session struct {
	SubjectID   string
	Email       string
	BaseRoles   []rbac.Role
	AssumedRole rbac.Role // empty when no downgrade is active
}

// HighestBaseRole returns the maximum base role under the hierarchy.
func (s *Session) HighestBaseRole() rbac.Role {
	raw := make([]string, len(s.BaseRoles))
	for i, role := range s.BaseRoles {
		raw[i] = string(role)
	}
	return rbac.Highest(raw)
}

// EffectiveRole returns the role the session currently presents as: the
// assumed role when a valid downgrade is active, otherwise the highest base
// role.
func (s *Session) EffectiveRole() rbac.Role {
	if s.AssumedRole.IsValid() {
		return s.AssumedRole
	}
	return s.HighestBaseRole()
}

// TokenService signs and verifies credential tokens using HMAC-SHA256.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a TokenService from the shared signing secret.
func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("sec: session secret must be at least %d bytes", minSecretLength)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("sec: session ttl must be positive, got %s", ttl)
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

// TTL returns the configured credential lifetime.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// GenerateSessionToken creates a signed credential token for a user.
//
// Roles are normalized into the canonical vocabulary before they enter the
// token; illegitimate entries are dropped here so no raw spelling ever
// round-trips through a cookie.
func (service *TokenService) GenerateSessionToken(userID, email string, roles []string) (string, error) {
	currentTime := time.Now()

	canonical := make([]string, 0, len(roles))
	for _, raw := range roles {
		if role := rbac.Normalize(raw); role.IsValid() {
			canonical = append(canonical, string(role))
		}
	}

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		UserID: userID,
		Email:  email,
		Roles:  canonical,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session token: %w", err)
	}

	return signedToken, nil
}

// VerifySessionToken checks the signature and validity of a credential token.
//
// Any failure (malformed, wrong algorithm, bad signature, expired) comes back
// as an error for the caller to map to an unauthenticated outcome; this
// function never panics on hostile input.
func (service *TokenService) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("sec: invalid session token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid session token claims")
	}

	return claims, nil
}

// SessionFromClaims rebuilds the runtime [Session] from verified claims plus
// the raw assumed-role cookie value (normalized and validated here; an
// invalid assumed value degrades to no assumption rather than erroring).
func SessionFromClaims(claims *SessionClaims, assumedRaw string) *Session {
	baseRoles := make([]rbac.Role, 0, len(claims.Roles))
	for _, raw := range claims.Roles {
		if role := rbac.Normalize(raw); role.IsValid() {
			baseRoles = append(baseRoles, role)
		}
	}

	session := &Session{
		SubjectID: claims.UserID,
		Email:     claims.Email,
		BaseRoles: baseRoles,
	}

	if assumedRaw != "" {
		if assumed := rbac.Normalize(assumedRaw); rbac.CanAssume(session.HighestBaseRole(), assumed) {
			session.AssumedRole = assumed
		}
	}

	return session
}
