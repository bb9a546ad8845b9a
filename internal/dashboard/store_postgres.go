// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// # Metrics Repository

// PostgresMetricsRepository implements MetricsRepository using pgx.
type PostgresMetricsRepository struct {
	pool *pgxpool.Pool
}

// NewMetricsRepository creates a new PostgreSQL implementation of the MetricsRepository.
func NewMetricsRepository(pool *pgxpool.Pool) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{pool: pool}
}

// LeadCounts returns total/new/won lead counts, optionally scoped to an owner.
func (repository *PostgresMetricsRepository) LeadCounts(ctx context.Context, ownerID string) (int, int, int, error) {
	const query = `
		SELECT
			count(*),
			count(*) FILTER (WHERE status = 'new'),
			count(*) FILTER (WHERE status = 'won')
		FROM crm.lead
		WHERE $1 = '' OR owner_id = $1`

	var total, newCount, wonCount int
	if err := repository.pool.QueryRow(ctx, query, ownerID).Scan(&total, &newCount, &wonCount); err != nil {
		return 0, 0, 0, fmt.Errorf("postgres_dashboard_lead_counts_failed: %w", err)
	}

	return total, newCount, wonCount, nil
}

// ActiveAccountCount returns the number of active staff accounts.
func (repository *PostgresMetricsRepository) ActiveAccountCount(ctx context.Context) (int, error) {
	const query = `SELECT count(*) FROM users.account WHERE is_active = TRUE`

	var count int
	if err := repository.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_dashboard_account_count_failed: %w", err)
	}

	return count, nil
}
