// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

/*
Package rbac is the single source of truth for role-based access control.

It owns the canonical role vocabulary, the role hierarchy, the assumption
(downgrade) policy, and the route authorization map. Every comparison of role
strings anywhere in the platform must go through [Normalize] first; no other
package may maintain its own role table.

# Design

All tables in this package are explicit enumerations, not values derived from
the hierarchy. This keeps the policy auditable and allows individual roles to
diverge from strict hierarchy order in the future without restructuring.

Every function here is pure and never returns an error: on garbage input the
package degrades to the least-privileged role ([RoleAgent]) rather than
failing, because role computation sits on the authorization path of every
request and must never take a request down.
*/
package rbac

import "strings"

// Role is a canonical role identifier.
//
// Only the five Role constants below may ever be stored or compared. Arbitrary
// strings enter the system through [Normalize] and are either mapped into this
// vocabulary or rejected by [Role.IsValid].
type Role string

const (
	// RoleAgent is the default role for licensed producers. It is also the
	// universal fallback when a session presents no legitimate role.
	RoleAgent Role = "agent"

	// RoleCustomerService handles inbound policyholder support.
	RoleCustomerService Role = "customer_service"

	// RoleManager supervises agent teams within one agency.
	RoleManager Role = "manager"

	// RoleAdmin administers a single agency tenant.
	RoleAdmin Role = "admin"

	// RoleSuperAdmin has platform-wide access across tenants.
	RoleSuperAdmin Role = "super_admin"
)

// # Hierarchy

// level maps each canonical role to its position in the total order.
//
// Ascending privilege: agent < customer_service < manager < admin < super_admin.
// A gap of 10 leaves room for intermediate roles without renumbering.
var level = map[Role]int{
	RoleAgent:           10,
	RoleCustomerService: 20,
	RoleManager:         30,
	RoleAdmin:           40,
	RoleSuperAdmin:      50,
}

// assumable enumerates, per base role, the roles it may temporarily present
// as. The table is deliberately explicit: manager and customer_service are
// restricted to a narrower downgrade set than their hierarchy position alone
// would permit.
var assumable = map[Role][]Role{
	RoleSuperAdmin:      {RoleAdmin, RoleManager, RoleCustomerService, RoleAgent},
	RoleAdmin:           {RoleManager, RoleCustomerService, RoleAgent},
	RoleManager:         {RoleAgent},
	RoleCustomerService: {RoleAgent},
	RoleAgent:           {},
}

// # Normalization

// Normalize canonicalizes an arbitrary role spelling.
//
// It lowercases, trims surrounding whitespace, and converts both spaces and
// hyphens to underscores, so "Super Admin", "super-admin" and " SUPER_ADMIN "
// all normalize to [RoleSuperAdmin].
//
// The result is not guaranteed to be a legitimate role: "superuser" normalizes
// to "superuser". Callers must check [Role.IsValid] (or go through [Highest],
// which filters) before granting anything.
func Normalize(raw string) Role {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return Role(s)
}

// IsValid reports whether r is one of the five canonical roles.
func (r Role) IsValid() bool {
	_, ok := level[r]
	return ok
}

// Level returns the hierarchy position of r, or 0 for illegitimate roles.
func (r Role) Level() int {
	return level[r]
}

// AtLeast reports whether r meets or exceeds the target role's level.
// An illegitimate r is below every legitimate target.
func (r Role) AtLeast(target Role) bool {
	if !r.IsValid() || !target.IsValid() {
		return false
	}
	return level[r] >= level[target]
}

// Roles returns the canonical vocabulary in ascending hierarchy order.
func Roles() []Role {
	return []Role{RoleAgent, RoleCustomerService, RoleManager, RoleAdmin, RoleSuperAdmin}
}

// # Effective Role

// Highest normalizes every entry of raw, discards illegitimate ones, and
// returns the maximum surviving role under the hierarchy.
//
// An empty or entirely illegitimate input yields [RoleAgent]: ambiguity never
// elevates. The result is independent of input order.
func Highest(raw []string) Role {
	best := RoleAgent
	for _, entry := range raw {
		role := Normalize(entry)
		if !role.IsValid() {
			continue
		}
		if level[role] > level[best] {
			best = role
		}
	}
	return best
}

// # Assumption Policy

// CanAssume reports whether a session whose highest real role is base may
// temporarily present as target.
//
// Both inputs must already be canonical ([Role.IsValid]); anything else is
// denied. A role can never assume itself or any role at or above its own
// level, and the permitted targets are the explicit downgrade sets in the
// assumable table, not "any lower role".
func CanAssume(base, target Role) bool {
	if !base.IsValid() || !target.IsValid() {
		return false
	}
	if level[target] >= level[base] {
		return false
	}
	for _, allowed := range assumable[base] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AssumableRoles returns a copy of the downgrade set for base, in descending
// hierarchy order. Unknown roles yield an empty slice.
func AssumableRoles(base Role) []Role {
	src := assumable[base]
	out := make([]Role, len(src))
	copy(out, src)
	return out
}
