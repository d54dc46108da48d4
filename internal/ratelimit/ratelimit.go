package ratelimit

import (
	"sync"
	"time"
)

// Limiter enforces a minimum interval between dispatches, derived from a
// requests-per-minute budget. The check-sleep-update sequence runs under one
// mutex so concurrent callers serialize through it; two callers can never
// both observe a stale timestamp and race under the limit.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time

	// test seams
	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a Limiter for the given requests-per-minute budget.
// Budgets below 1 are clamped to 1.
func New(requestsPerMinute int) *Limiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	return &Limiter{
		interval: time.Minute / time.Duration(requestsPerMinute),
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Interval returns the enforced minimum spacing between dispatches.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Wait blocks until the minimum interval since the previous dispatch has
// elapsed, then records the current dispatch time. The first call never
// blocks.
func (l *Limiter) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() {
		if elapsed := l.now().Sub(l.last); elapsed < l.interval {
			l.sleep(l.interval - elapsed)
		}
	}
	l.last = l.now()
}
