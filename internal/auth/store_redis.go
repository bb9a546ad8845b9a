// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brokerdesk/brokerdesk/internal/platform/constants"
)

// # Failed-Login Counter

// RedisAttemptRepository implements AttemptRepository using Redis.
//
// Each client key maps to a plain integer counter with a TTL equal to the
// attempt window. Letting Redis expire the key gives a rolling window with no
// cleanup job.
type RedisAttemptRepository struct {
	client *redis.Client
}

// NewAttemptRepository creates a new Redis-backed AttemptRepository.
func NewAttemptRepository(client *redis.Client) *RedisAttemptRepository {
	return &RedisAttemptRepository{client: client}
}

/*
Record increments the failed-login counter for the client key.

Description: The TTL is set only when the key is first created, so the window
starts at the first failure rather than sliding on every attempt.

Parameters:
  - ctx: context.Context
  - clientKey: string
  - window: time.Duration

Returns:
  - int64: Counter value after the increment
  - error: Connectivity errors
*/
func (repository *RedisAttemptRepository) Record(ctx context.Context, clientKey string, window time.Duration) (int64, error) {
	key := constants.RedisPrefixLoginAttempt + clientKey

	count, err := repository.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_login_attempt_incr_failed: %w", err)
	}

	if count == 1 {
		if err := repository.client.Expire(ctx, key, window).Err(); err != nil {
			return count, fmt.Errorf("redis_login_attempt_expire_failed: %w", err)
		}
	}

	return count, nil
}

// Reset clears the counter after a successful sign-in.
func (repository *RedisAttemptRepository) Reset(ctx context.Context, clientKey string) error {
	key := constants.RedisPrefixLoginAttempt + clientKey

	if err := repository.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_login_attempt_reset_failed: %w", err)
	}

	return nil
}
