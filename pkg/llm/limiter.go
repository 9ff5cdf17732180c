// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces calls to an LLM backend.
//
// # Description
//
// Two mechanisms stack: a token bucket smooths steady-state request
// rate, and a cooldown window opens after a transport failure so the
// next call waits out a struggling provider instead of piling on. The
// limiter is an explicit object passed to Complete, so separate
// backends (or separate tenants) get separate pacing state.
//
// Thread Safety: Safe for concurrent use.
type Limiter struct {
	bucket *rate.Limiter

	mu            sync.Mutex
	cooldown      time.Duration
	cooldownUntil time.Time
}

// NewLimiter creates a limiter allowing rps requests per second with the
// given burst, and arming cooldown-length pauses after failures.
//
// Inputs:
//
//	rps - Steady-state requests per second.
//	burst - Bucket size; 1 means strictly spaced requests.
//	cooldown - Pause after a transport failure. Zero disables cooldowns.
//
// Outputs:
//
//	*Limiter - Ready for use.
func NewLimiter(rps float64, burst int, cooldown time.Duration) *Limiter {
	return &Limiter{
		bucket:   rate.NewLimiter(rate.Limit(rps), burst),
		cooldown: cooldown,
	}
}

// Acquire blocks until a request may proceed or the context ends.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	until := l.cooldownUntil
	l.mu.Unlock()

	if wait := time.Until(until); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.bucket.Wait(ctx)
}

// Backoff arms the cooldown window after a transport failure. An already
// armed longer window is kept.
func (l *Limiter) Backoff() {
	if l.cooldown <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	until := time.Now().Add(l.cooldown)
	if until.After(l.cooldownUntil) {
		l.cooldownUntil = until
	}
}

// CoolingDown reports whether the failure window is currently open.
func (l *Limiter) CoolingDown() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return time.Now().Before(l.cooldownUntil)
}
