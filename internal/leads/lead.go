// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

/*
Package leads implements prospect intake and tracking for agency staff.

A lead is a potential policyholder captured from a web form, a call, or a
referral partner. Free-form source labels are slugged on ingestion so the
same channel always groups together regardless of how intake spelled it.
*/
package leads

import "time"

// # Domain Entities

// Status is the lifecycle state of a lead.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQuoted    Status = "quoted"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
)

// validStatuses is the closed set accepted on updates and filters.
var validStatuses = map[Status]struct{}{
	StatusNew:       {},
	StatusContacted: {},
	StatusQuoted:    {},
	StatusWon:       {},
	StatusLost:      {},
}

// IsValid reports whether s is a known lifecycle state.
func (s Status) IsValid() bool {
	_, ok := validStatuses[s]
	return ok
}

// Lead represents a prospect captured for follow-up.
type Lead struct {
	ID         string    `json:"id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Source     string    `json:"source"`      // display label as entered
	SourceSlug string    `json:"source_slug"` // canonical grouping key
	Notes      string    `json:"notes,omitempty"`
	Status     Status    `json:"status"`
	OwnerID    string    `json:"owner_id"` // staff account that captured it
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldFullName = "full_name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldSource   = "source"
	FieldNotes    = "notes"
	FieldStatus   = "status"
)
