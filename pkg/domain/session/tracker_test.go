package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/molstud/moltrain/pkg/domain/session"
)

func TestActivityTracker(t *testing.T) {

	t.Run("it is unknown before the first touch", func(t *testing.T) {
		tracker := session.NewActivityTracker()

		if _, known := tracker.IdleFor("user-1", time.Now()); known {
			t.Error("idle time is known before any touch, unexpectedly")
		}
	})

	t.Run("it measures idle time since the last touch", func(t *testing.T) {
		tracker := session.NewActivityTracker()

		tracker.Touch("user-1")

		now := time.Now().Add(42 * time.Second)
		idle, known := tracker.IdleFor("user-1", now)
		if !known {
			t.Fatal("idle time is unknown after touch")
		}
		if idle < 41*time.Second || 43*time.Second < idle {
			t.Errorf("unexpected idle time: %s (expected ~42s)", idle)
		}
	})

	t.Run("it is unknown again after forget", func(t *testing.T) {
		tracker := session.NewActivityTracker()

		tracker.Touch("user-1")
		tracker.Forget("user-1")

		if _, known := tracker.IdleFor("user-1", time.Now()); known {
			t.Error("idle time is known after forget, unexpectedly")
		}
	})

	t.Run("it accepts concurrent touches and reads", func(t *testing.T) {
		tracker := session.NewActivityTracker()

		wg := sync.WaitGroup{}
		for i := 0; i < 64; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				tracker.Touch("user-1")
			}()
			go func() {
				defer wg.Done()
				tracker.IdleFor("user-1", time.Now())
			}()
		}
		wg.Wait()

		if _, known := tracker.IdleFor("user-1", time.Now()); !known {
			t.Error("idle time is unknown after touches")
		}
	})
}
