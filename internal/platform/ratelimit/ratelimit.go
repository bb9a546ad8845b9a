// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

/*
Package ratelimit provides a per-client token-bucket rate limiter.

It is an explicit component rather than middleware-owned global state: the
limiter owns its concurrency-safe client map, takes an injectable clock so
eviction can be tested deterministically, and exposes Sweep separately from
the background loop so callers decide the lifecycle.

# Concurrency

All methods are safe for concurrent use from multiple request-handling
goroutines. Per-client buckets come from golang.org/x/time/rate.
*/
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Clock supplies the current time. Production code uses [SystemClock];
// tests inject a fake to drive eviction deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by [time.Now].
func SystemClock() Clock { return systemClock{} }

// Config tunes a [Limiter].
type Config struct {
	// RPS is the sustained requests per second allowed per client.
	RPS float64

	// Burst is the bucket capacity per client.
	Burst int

	// ClientTTL is how long a client may be idle before Sweep evicts it.
	ClientTTL time.Duration

	// Clock overrides the time source. Nil means [SystemClock].
	Clock Clock
}

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// Limiter tracks one token bucket per client identifier.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	cfg     Config
	clock   Clock
}

// New constructs a Limiter from cfg.
func New(cfg Config) *Limiter {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	return &Limiter{
		clients: make(map[string]*client),
		cfg:     cfg,
		clock:   clock,
	}
}

// Allow reports whether the client identified by id may proceed, consuming
// one token from its bucket. Unknown clients get a fresh full bucket.
func (l *Limiter) Allow(id string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	entry, found := l.clients[id]
	if !found {
		entry = &client{bucket: rate.NewLimiter(rate.Limit(l.cfg.RPS), l.cfg.Burst)}
		l.clients[id] = entry
	}
	entry.lastSeen = now
	allowed := entry.bucket.AllowN(now, 1)
	l.mu.Unlock()

	return allowed
}

// Sweep evicts clients idle longer than ClientTTL and returns how many were
// removed. It is exposed separately from [Limiter.Run] so tests can trigger
// eviction without a ticker.
func (l *Limiter) Sweep() int {
	now := l.clock.Now()
	evicted := 0

	l.mu.Lock()
	for id, entry := range l.clients {
		if now.Sub(entry.lastSeen) > l.cfg.ClientTTL {
			delete(l.clients, id)
			evicted++
		}
	}
	l.mu.Unlock()

	return evicted
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Run sweeps on the given interval until ctx is cancelled. Call it in a
// goroutine from the composition root.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-ctx.Done():
			return
		}
	}
}
