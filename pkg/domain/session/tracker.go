package session

import (
	"sync"
	"time"
)

// ActivityTracker records the last time each user was seen.
//
// Touch is called by every authenticated request; IdleFor is read by the
// reaper loops. Last-write-wins is fine here, only recency matters.
type ActivityTracker struct {
	mu       sync.RWMutex
	lastSeen map[string]time.Time
}

func NewActivityTracker() *ActivityTracker {
	return &ActivityTracker{lastSeen: map[string]time.Time{}}
}

// Touch records now as the last activity of the user.
func (t *ActivityTracker) Touch(userId string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastSeen[userId] = time.Now()
}

// IdleFor returns how long the user has been idle as of now.
//
// The second return value is false when the user has never been touched
// (or has been forgotten).
func (t *ActivityTracker) IdleFor(userId string, now time.Time) (time.Duration, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	last, ok := t.lastSeen[userId]
	if !ok {
		return 0, false
	}
	return now.Sub(last), true
}

// Forget removes the user's record.
func (t *ActivityTracker) Forget(userId string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.lastSeen, userId)
}
