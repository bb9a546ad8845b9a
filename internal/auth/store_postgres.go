// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brokerdesk/brokerdesk/internal/platform/dberr"
	"github.com/brokerdesk/brokerdesk/internal/rbac"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
FindByEmail retrieves an account record by its unique email address.

Description: Performs a lookup on the account table, filtering out
deactivated accounts.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, password_hash, full_name, roles, is_active, created_at, updated_at
		FROM users.account
		WHERE lower(email) = lower($1) AND is_active = TRUE`

	return repository.scanOne(ctx, query, email)
}

/*
FindByID retrieves an account record by its primary key.

Parameters:
  - ctx: context.Context
  - id: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	const query = `
		SELECT id, email, password_hash, full_name, roles, is_active, created_at, updated_at
		FROM users.account
		WHERE id = $1 AND is_active = TRUE`

	return repository.scanOne(ctx, query, id)
}

// TouchLastLogin records a successful sign-in timestamp on the account row.
func (repository *PostgresUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `
		UPDATE users.account
		SET last_login_at = $2, updated_at = $2
		WHERE id = $1`

	if _, err := repository.pool.Exec(ctx, query, id, at); err != nil {
		return fmt.Errorf("postgres_account_touch_login_failed: %w", err)
	}

	return nil
}

// scanOne runs a single-row account query and hydrates the entity.
//
// Roles are stored as a text[] column; each element is re-normalized on read
// so a stale spelling in an old row cannot leak past the vocabulary.
func (repository *PostgresUserRepository) scanOne(ctx context.Context, query string, arg any) (*User, error) {
	var (
		user     User
		rawRoles []string
	)

	err := repository.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&rawRoles,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Account")
	}

	user.Roles = make([]rbac.Role, 0, len(rawRoles))
	for _, raw := range rawRoles {
		if role := rbac.Normalize(raw); role.IsValid() {
			user.Roles = append(user.Roles, role)
		}
	}

	return &user, nil
}
