package keytrack

import (
	"sync"
	"time"
)

// Tracker records the last-used timestamp per credential and advises
// rotation when a credential has gone stale. It is a process-lifetime
// bookkeeping cache; entries are never evicted.
type Tracker struct {
	mu       sync.Mutex
	interval time.Duration
	lastUsed map[string]time.Time

	now func() time.Time // test seam
}

// New creates a Tracker with the given rotation interval.
func New(rotationInterval time.Duration) *Tracker {
	return &Tracker{
		interval: rotationInterval,
		lastUsed: make(map[string]time.Time),
		now:      time.Now,
	}
}

// ShouldRotate reports whether the credential is older than the rotation
// interval. A never-before-seen credential is recorded as fresh and reported
// as not needing rotation. The check does not reset the staleness clock;
// only MarkUsed does.
func (t *Tracker) ShouldRotate(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, seen := t.lastUsed[key]
	if !seen {
		t.lastUsed[key] = t.now()
		return false
	}
	return t.now().Sub(last) > t.interval
}

// MarkUsed resets the staleness clock for a credential. Called once per
// dispatch attempt, regardless of the attempt's outcome.
func (t *Tracker) MarkUsed(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastUsed[key] = t.now()
}

// Age returns the elapsed time since the credential was last used, or
// false if the credential has never been seen.
func (t *Tracker) Age(key string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, seen := t.lastUsed[key]
	if !seen {
		return 0, false
	}
	return t.now().Sub(last), true
}
