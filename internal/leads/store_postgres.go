// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package leads

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brokerdesk/brokerdesk/internal/platform/dberr"
)

// # Lead Repository

// PostgresLeadRepository implements the LeadRepository interface using pgx.
type PostgresLeadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository creates a new PostgreSQL implementation of the LeadRepository.
func NewLeadRepository(pool *pgxpool.Pool) *PostgresLeadRepository {
	return &PostgresLeadRepository{pool: pool}
}

const leadColumns = `id, full_name, email, phone, source, source_slug, notes, status, owner_id, created_at, updated_at`

/*
Create persists a new lead record into the crm.lead table.

Parameters:
  - ctx: context.Context
  - lead: *Lead (Entity to persist; ID and timestamps set by the service)

Returns:
  - error: Constraint violations mapped to apperr, or connectivity errors
*/
func (repository *PostgresLeadRepository) Create(ctx context.Context, lead *Lead) error {
	const query = `
		INSERT INTO crm.lead (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := repository.pool.Exec(ctx, query,
		lead.ID,
		lead.FullName,
		lead.Email,
		lead.Phone,
		lead.Source,
		lead.SourceSlug,
		lead.Notes,
		lead.Status,
		lead.OwnerID,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Lead")
	}

	return nil
}

// FindByID retrieves a lead by its primary key.
func (repository *PostgresLeadRepository) FindByID(ctx context.Context, id string) (*Lead, error) {
	const query = `SELECT ` + leadColumns + ` FROM crm.lead WHERE id = $1`

	row := repository.pool.QueryRow(ctx, query, id)

	var lead Lead
	if err := scanLead(row, &lead); err != nil {
		return nil, dberr.Wrap(err, "Lead")
	}

	return &lead, nil
}

/*
List returns a page of leads matching the filter, newest first.

Description: Filters are combined with AND; empty filter fields are skipped.
The total count runs as a second query over the same WHERE clause so the
pagination metadata stays consistent with the page.

Parameters:
  - ctx: context.Context
  - filter: Filter
  - limit, offset: page window

Returns:
  - []Lead: the page
  - int: total matching rows
  - error: Connectivity errors
*/
func (repository *PostgresLeadRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]Lead, int, error) {
	whereClause, args := buildLeadFilter(filter)

	countQuery := `SELECT count(*) FROM crm.lead` + whereClause

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_lead_count_failed: %w", err)
	}

	pageQuery := fmt.Sprintf(
		`SELECT `+leadColumns+` FROM crm.lead`+whereClause+` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_lead_list_failed: %w", err)
	}
	defer rows.Close()

	leadsPage := make([]Lead, 0, limit)
	for rows.Next() {
		var lead Lead
		if err := scanLead(rows, &lead); err != nil {
			return nil, 0, fmt.Errorf("postgres_lead_scan_failed: %w", err)
		}
		leadsPage = append(leadsPage, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_lead_rows_failed: %w", err)
	}

	return leadsPage, total, nil
}

// UpdateStatus moves a lead to a new lifecycle state.
func (repository *PostgresLeadRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	const query = `UPDATE crm.lead SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, id, status)
	if err != nil {
		return dberr.Wrap(err, "Lead")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Lead")
	}

	return nil
}

// buildLeadFilter assembles the WHERE clause and its positional arguments.
func buildLeadFilter(filter Filter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	appendCondition := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.Query != "" {
		// The same positional argument serves both ILIKE branches.
		args = append(args, filter.Query)
		conditions = append(conditions, fmt.Sprintf(
			`(full_name ILIKE '%%' || $%d || '%%' OR email ILIKE '%%' || $%d || '%%')`,
			len(args), len(args),
		))
	}
	if filter.SourceSlug != "" {
		appendCondition(`source_slug = $%d`, filter.SourceSlug)
	}
	if filter.Status != "" {
		appendCondition(`status = $%d`, filter.Status)
	}
	if filter.OwnerID != "" {
		appendCondition(`owner_id = $%d`, filter.OwnerID)
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// scanLead hydrates a Lead from a row with the standard column order.
func scanLead(row pgx.Row, lead *Lead) error {
	return row.Scan(
		&lead.ID,
		&lead.FullName,
		&lead.Email,
		&lead.Phone,
		&lead.Source,
		&lead.SourceSlug,
		&lead.Notes,
		&lead.Status,
		&lead.OwnerID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
}
