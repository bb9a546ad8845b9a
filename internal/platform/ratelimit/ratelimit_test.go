// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package ratelimit_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brokerdesk/brokerdesk/internal/platform/ratelimit"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

/*
TestLimiter_BurstExhaustion verifies that a client is cut off after its burst
and recovers as tokens refill.
*/
func TestLimiter_BurstExhaustion(t *testing.T) {
	clock := newFakeClock()
	limiter := ratelimit.New(ratelimit.Config{
		RPS:       1,
		Burst:     3,
		ClientTTL: time.Minute,
		Clock:     clock,
	})

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, limiter.Allow("10.0.0.1"), "burst exhausted")

	// One second refills one token at 1 RPS.
	clock.Advance(time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
}

/*
TestLimiter_ClientsIsolated checks that one client's exhaustion does not
affect another.
*/
func TestLimiter_ClientsIsolated(t *testing.T) {
	limiter := ratelimit.New(ratelimit.Config{
		RPS:       1,
		Burst:     1,
		ClientTTL: time.Minute,
		Clock:     newFakeClock(),
	})

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

/*
TestLimiter_Sweep verifies deterministic eviction of idle clients with the
injected clock.
*/
func TestLimiter_Sweep(t *testing.T) {
	clock := newFakeClock()
	limiter := ratelimit.New(ratelimit.Config{
		RPS:       100,
		Burst:     100,
		ClientTTL: time.Minute,
		Clock:     clock,
	})

	limiter.Allow("stale")
	clock.Advance(30 * time.Second)
	limiter.Allow("fresh")

	// Neither entry has exceeded the TTL yet.
	assert.Equal(t, 0, limiter.Sweep())
	assert.Equal(t, 2, limiter.Len())

	// 31 more seconds: "stale" is now 61s idle, "fresh" only 31s.
	clock.Advance(31 * time.Second)
	assert.Equal(t, 1, limiter.Sweep())
	assert.Equal(t, 1, limiter.Len())

	// A swept client starts over with a full bucket.
	assert.True(t, limiter.Allow("stale"))
}

/*
TestLimiter_ConcurrentAccess hammers one limiter from many goroutines; the
race detector is the real assertion here.
*/
func TestLimiter_ConcurrentAccess(t *testing.T) {
	limiter := ratelimit.New(ratelimit.Config{
		RPS:       1000,
		Burst:     1000,
		ClientTTL: time.Minute,
	})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				limiter.Allow("shared-client")
				if i%10 == 0 {
					limiter.Sweep()
				}
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 1, limiter.Len())
}
