// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package leads

import (
	"context"
	"strings"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/platform/apperr"
	"github.com/brokerdesk/brokerdesk/pkg/slug"
	"github.com/brokerdesk/brokerdesk/pkg/uuidv7"
)

// # Service

// Service implements lead intake and tracking use cases.
type Service struct {
	leadRepository LeadRepository
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repo LeadRepository) *Service {
	return &Service{leadRepository: repo}
}

// CreateInput holds the data required to capture a new lead.
type CreateInput struct {
	FullName string
	Email    string
	Phone    string
	Source   string
	Notes    string
	OwnerID  string
}

/*
Create captures a new lead.

Description: The free-form source label is slugged here so "Web Form",
"web-form", and "Web  form!" all land in the same grouping bucket. A label
that slugs to nothing falls back to "direct".

Parameters:
  - ctx: context.Context
  - input: CreateInput

Returns:
  - *Lead: Created entity with ID and timestamps assigned
  - error: Storage errors
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*Lead, error) {
	sourceSlug := slug.From(input.Source)
	if sourceSlug == "" {
		sourceSlug = "direct"
	}

	now := time.Now()
	lead := &Lead{
		ID:         uuidv7.New(),
		FullName:   strings.TrimSpace(input.FullName),
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:      strings.TrimSpace(input.Phone),
		Source:     strings.TrimSpace(input.Source),
		SourceSlug: sourceSlug,
		Notes:      input.Notes,
		Status:     StatusNew,
		OwnerID:    input.OwnerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := service.leadRepository.Create(ctx, lead); err != nil {
		return nil, err
	}

	return lead, nil
}

// Get retrieves a single lead by ID.
func (service *Service) Get(ctx context.Context, id string) (*Lead, error) {
	return service.leadRepository.FindByID(ctx, id)
}

// List returns a page of leads matching the filter plus the total count.
// Source filters accept any spelling; they are slugged before matching.
func (service *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Lead, int, error) {
	if filter.SourceSlug != "" {
		filter.SourceSlug = slug.From(filter.SourceSlug)
	}
	return service.leadRepository.List(ctx, filter, limit, offset)
}

// UpdateStatus moves a lead to a new lifecycle state.
func (service *Service) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.IsValid() {
		return apperr.ValidationError("Unknown lead status")
	}
	return service.leadRepository.UpdateStatus(ctx, id, status)
}
