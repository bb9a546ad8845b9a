// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

/*
Package auth implements agency sign-in and role-assumption sessions.

It owns the full credential lifecycle: password verification, the signed
session token, the cookie quartet that carries identity and assumed role to
the browser, and the switch/clear operations that let privileged staff browse
the product as a lower role.

# Architecture

  - Service: Orchestrates business logic (Login, SwitchRole, ClearRole).
  - Repository: Abstracted interfaces for Postgres (accounts) and Redis
    (failed-login counters).
  - Security: Bcrypt password hashes and HMAC-signed session tokens via the
    platform sec package.

There is no server-side session table; the signed token is the session.
*/
package auth

import (
	"time"

	"github.com/brokerdesk/brokerdesk/internal/rbac"
)

// # Domain Entities

// User represents a staff account at an agency on the BrokerDesk platform.
//
// Roles holds the account's granted base roles in canonical form. Most
// accounts carry exactly one; imports from legacy agency systems may carry
// several, and the hierarchy decides which one governs.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"` // Explicitly omitted from JSON for security.
	FullName     string      `json:"full_name"`
	Roles        []rbac.Role `json:"roles"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// HighestRole returns the account's governing base role under the hierarchy.
func (user *User) HighestRole() rbac.Role {
	raw := make([]string, len(user.Roles))
	for i, role := range user.Roles {
		raw[i] = string(role)
	}
	return rbac.Highest(raw)
}

// RoleStrings returns the account's roles as plain strings for token claims.
func (user *User) RoleStrings() []string {
	raw := make([]string, len(user.Roles))
	for i, role := range user.Roles {
		raw[i] = string(role)
	}
	return raw
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRole     = "role"
)
