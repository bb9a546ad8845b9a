// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package leads

import "context"

// # Storage Contracts

// Filter narrows List results.
type Filter struct {
	Query      string // matches against full name and email
	SourceSlug string
	Status     Status
	OwnerID    string
}

// LeadRepository defines persistence operations for leads.
type LeadRepository interface {
	// Create persists a new lead record.
	Create(ctx context.Context, lead *Lead) error

	// FindByID retrieves a lead by its primary key.
	// Returns apperr.NotFound when no lead matches.
	FindByID(ctx context.Context, id string) (*Lead, error)

	// List returns a page of leads matching the filter, newest first,
	// together with the total match count.
	List(ctx context.Context, filter Filter, limit, offset int) ([]Lead, int, error)

	// UpdateStatus moves a lead to a new lifecycle state.
	UpdateStatus(ctx context.Context, id string, status Status) error
}
