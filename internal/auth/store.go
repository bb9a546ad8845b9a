// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package auth

import (
	"context"
	"time"
)

// # Storage Contracts

// UserRepository defines persistence operations for staff accounts.
type UserRepository interface {
	// FindByEmail retrieves an account by its unique email address.
	// Returns apperr.NotFound when no active account matches.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID retrieves an account by its primary key.
	// Returns apperr.NotFound when no active account matches.
	FindByID(ctx context.Context, id string) (*User, error)

	// TouchLastLogin records a successful sign-in timestamp.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// AttemptRepository counts failed sign-ins per client within a rolling window.
type AttemptRepository interface {
	// Record increments the failed-login counter for the client key and
	// returns the new count. The counter expires after the window.
	Record(ctx context.Context, clientKey string, window time.Duration) (int64, error)

	// Reset clears the counter after a successful sign-in.
	Reset(ctx context.Context, clientKey string) error
}
