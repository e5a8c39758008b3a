// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock lets tests move time forward without sleeping.
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
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter() (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := New()
	l.now = clock.Now
	return l, clock
}

func TestAllowUpToCap(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 0; i < MaxAttempts; i++ {
		assert.True(t, l.Allow("device-a", "poll-1"), "attempt %d should be allowed", i+1)
	}

	assert.False(t, l.Allow("device-a", "poll-1"), "attempt past the cap should be denied")
	assert.False(t, l.Allow("device-a", "poll-1"), "repeated denials stay denied")
}

func TestWindowResetAllowsAgain(t *testing.T) {
	l, clock := newTestLimiter()

	for i := 0; i < MaxAttempts; i++ {
		l.Allow("device-a", "poll-1")
	}
	assert.False(t, l.Allow("device-a", "poll-1"))

	clock.Advance(Window + time.Second)

	// The window resets wholesale and the count restarts at 1
	assert.True(t, l.Allow("device-a", "poll-1"))
	for i := 0; i < MaxAttempts-1; i++ {
		assert.True(t, l.Allow("device-a", "poll-1"), "fresh window should allow %d more", MaxAttempts-1)
	}
	assert.False(t, l.Allow("device-a", "poll-1"))
}

func TestKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 0; i < MaxAttempts; i++ {
		l.Allow("device-a", "poll-1")
	}
	assert.False(t, l.Allow("device-a", "poll-1"))

	// Same device, different poll
	assert.True(t, l.Allow("device-a", "poll-2"))
	// Different device, same poll
	assert.True(t, l.Allow("device-b", "poll-1"))
}

func TestConcurrentAllowCountsExactly(t *testing.T) {
	l, _ := newTestLimiter()

	const workers = 50
	var allowed atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("device-a", "poll-1") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(MaxAttempts), allowed.Load(),
		"exactly the cap should win under contention")
}

func TestPurgeDropsExpiredKeys(t *testing.T) {
	l, clock := newTestLimiter()

	l.Allow("device-a", "poll-1")
	l.Allow("device-b", "poll-1")

	clock.Advance(Window + time.Second)
	l.Allow("device-c", "poll-1") // fresh key inside the new window

	l.Purge()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.attempts, 1)
	assert.Contains(t, l.attempts, "device-c:poll-1")
}
