// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ratelimit counts vote attempts per (device fingerprint,
// poll) key within a fixed window. The window resets wholesale once
// its start is older than the window length; it does not slide.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// MaxAttempts is the cap per key within one window.
	MaxAttempts = 5
	// Window is the fixed rate window length.
	Window = 3600 * time.Second
)

type attempt struct {
	windowStart time.Time
	count       int
}

// Limiter is safe for concurrent use. State lives for the process
// lifetime only; Purge bounds memory for inactive keys.
type Limiter struct {
	mu       sync.Mutex
	attempts map[string]*attempt
	now      func() time.Time
}

func New() *Limiter {
	return &Limiter{
		attempts: make(map[string]*attempt),
		now:      time.Now,
	}
}

// Allow reports whether another attempt is permitted for the device on
// this poll, counting it if so. Once the cap is reached, calls are
// denied without counting until the window expires.
func (l *Limiter) Allow(fingerprint, pollID string) bool {
	key := fingerprint + ":" + pollID
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.attempts[key]
	if !ok || now.After(a.windowStart.Add(Window)) {
		l.attempts[key] = &attempt{windowStart: now, count: 1}
		return true
	}

	if a.count >= MaxAttempts {
		return false
	}

	a.count++
	return true
}

// Purge drops keys whose window has expired. Run it periodically to
// bound memory; correctness does not depend on it.
func (l *Limiter) Purge() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, a := range l.attempts {
		if now.After(a.windowStart.Add(Window)) {
			delete(l.attempts, key)
		}
	}
}
