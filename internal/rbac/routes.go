// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package rbac

import "strings"

// # Route Authorization Map

// grants maps each canonical role to the ordered URL prefixes it may reach.
// The first prefix is the role's home (post-login / post-switch redirect).
//
// Higher roles enumerate the lower homes explicitly rather than inheriting
// them, so a single role's reach can be widened or narrowed without touching
// the hierarchy.
var grants = map[Role][]string{
	RoleAgent:           {"/agent"},
	RoleCustomerService: {"/customer-service", "/agent"},
	RoleManager:         {"/manager", "/agent"},
	RoleAdmin:           {"/admin", "/manager", "/customer-service", "/agent"},
	RoleSuperAdmin:      {"/super-admin", "/admin", "/manager", "/customer-service", "/agent"},
}

// Home returns the default landing prefix for role.
//
// Illegitimate roles land on the agent home, consistent with the
// never-elevate fallback everywhere else in this package.
func Home(role Role) string {
	if prefixes, ok := grants[role]; ok && len(prefixes) > 0 {
		return prefixes[0]
	}
	return grants[RoleAgent][0]
}

// AllowedPrefixes unions the grant lists of every role in the effective role
// set, deduplicated, preserving first-seen order. Illegitimate roles
// contribute nothing.
func AllowedPrefixes(roles ...Role) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, role := range roles {
		for _, prefix := range grants[role] {
			if _, dup := seen[prefix]; dup {
				continue
			}
			seen[prefix] = struct{}{}
			out = append(out, prefix)
		}
	}
	return out
}

// Allowed reports whether path falls under any prefix granted to the
// effective role set.
//
// Matching is segment-aware: "/agent" covers "/agent" and "/agent/leads" but
// not "/agents". A path outside every known role prefix is not this map's
// concern and is reported as denied; route that traffic outside the gate.
func Allowed(path string, roles ...Role) bool {
	for _, prefix := range AllowedPrefixes(roles...) {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// GuardedPrefix reports whether path falls under any role-scoped prefix at
// all, regardless of who is asking. The request gate uses this to decide
// whether the authorization map has jurisdiction over a path.
func GuardedPrefix(path string) bool {
	for _, prefix := range grants[RoleSuperAdmin] {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
