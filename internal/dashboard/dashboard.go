// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

/*
Package dashboard serves the landing metrics for each role area.

Every role prefix (/agent, /manager, ...) has a dashboard endpoint behind the
route gate. Agents see only the pipeline they own; customer_service and above
see the whole agency.
*/
package dashboard

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/rbac"
)

// # Types & Contracts

// Metrics is the aggregate block rendered on an area's landing page.
type Metrics struct {
	LeadsTotal     int `json:"leads_total"`
	LeadsNew       int `json:"leads_new"`
	LeadsWon       int `json:"leads_won"`
	ActiveAccounts int `json:"active_accounts,omitempty"`
}

// Overview is the dashboard response payload.
//
// AssumableRoles feeds the frontend's role-switcher menu: the roles the
// caller's BASE role may present as, regardless of any assumption currently
// active.
type Overview struct {
	Area           string      `json:"area"`
	Role           string      `json:"role"`
	AssumableRoles []rbac.Role `json:"assumable_roles"`
	Metrics        Metrics     `json:"metrics"`
}

// MetricsRepository aggregates counts for dashboards.
type MetricsRepository interface {
	// LeadCounts returns total/new/won lead counts. An empty ownerID means
	// agency-wide; otherwise only leads owned by that account.
	LeadCounts(ctx context.Context, ownerID string) (total, new_, won int, err error)

	// ActiveAccountCount returns the number of active staff accounts.
	ActiveAccountCount(ctx context.Context) (int, error)
}
