package keytrack

import (
	"testing"
	"time"
)

func newTestTracker(interval time.Duration) (*Tracker, *time.Time) {
	now := time.Unix(1700000000, 0)
	tr := New(interval)
	tr.now = func() time.Time { return now }
	return tr, &now
}

func TestShouldRotate_UnseenKeyIsFresh(t *testing.T) {
	tr, _ := newTestTracker(24 * time.Hour)
	if tr.ShouldRotate("key-a") {
		t.Error("never-before-seen key reported as stale")
	}
}

func TestShouldRotate_StaleAfterInterval(t *testing.T) {
	tr, now := newTestTracker(24 * time.Hour)

	tr.ShouldRotate("key-a") // first observation records the clock
	*now = now.Add(25 * time.Hour)

	if !tr.ShouldRotate("key-a") {
		t.Error("key past rotation interval not flagged")
	}
}

func TestShouldRotate_WithinIntervalNotFlagged(t *testing.T) {
	tr, now := newTestTracker(24 * time.Hour)

	tr.ShouldRotate("key-a")
	*now = now.Add(23 * time.Hour)

	if tr.ShouldRotate("key-a") {
		t.Error("key within rotation interval flagged")
	}
}

func TestShouldRotate_CheckDoesNotResetClock(t *testing.T) {
	tr, now := newTestTracker(24 * time.Hour)

	tr.ShouldRotate("key-a")
	*now = now.Add(25 * time.Hour)

	// Repeated checks keep flagging; only MarkUsed resets.
	if !tr.ShouldRotate("key-a") || !tr.ShouldRotate("key-a") {
		t.Fatal("stale key stopped being flagged without a usage update")
	}

	tr.MarkUsed("key-a")
	if tr.ShouldRotate("key-a") {
		t.Error("key flagged immediately after usage update")
	}
}

func TestAge(t *testing.T) {
	tr, now := newTestTracker(24 * time.Hour)

	if _, ok := tr.Age("unseen"); ok {
		t.Error("Age reported a value for an unseen key")
	}

	tr.MarkUsed("key-a")
	*now = now.Add(90 * time.Minute)

	age, ok := tr.Age("key-a")
	if !ok {
		t.Fatal("Age missing for a recorded key")
	}
	if age != 90*time.Minute {
		t.Errorf("age = %v, want 90m", age)
	}
}

func TestTracker_IndependentKeys(t *testing.T) {
	tr, now := newTestTracker(time.Hour)

	tr.MarkUsed("old")
	*now = now.Add(2 * time.Hour)
	tr.MarkUsed("new")

	if !tr.ShouldRotate("old") {
		t.Error("old key not flagged")
	}
	if tr.ShouldRotate("new") {
		t.Error("fresh key flagged")
	}
}
