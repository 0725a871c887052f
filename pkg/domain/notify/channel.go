package notify

import (
	"errors"
	"sync"

	"github.com/molstud/moltrain/pkg/domain"
)

// Drain found no queued event. The channel is still open.
var ErrEmpty = errors.New("notification channel is empty")

// the channel has been closed; no events will be queued or drained anymore.
var ErrClosed = errors.New("notification channel is closed")

// Channel is the ordered outbox of notification events for one user.
//
// Many training callbacks Push concurrently; a single reaper Drains.
// Events come out in the order they were pushed, except that pushing a
// coalescing kind (Started, Error) first discards everything pending,
// atomically with respect to other pushes.
type Channel struct {
	mu     sync.Mutex
	events []domain.Event
	closed bool
}

func NewChannel() *Channel {
	return &Channel{}
}

// Push appends ev to the tail of the outbox.
//
// When ev.Kind.Coalesces(), all pending events are discarded first, so a
// client only ever sees the latest phase of a job. Push on a closed
// channel is a no-op.
func (c *Channel) Push(ev domain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if ev.Kind.Coalesces() {
		c.events = c.events[:0]
	}
	c.events = append(c.events, ev)
}

// Drain removes and returns the head event.
//
// It never blocks. When nothing is queued it returns ErrEmpty;
// when the channel is closed it returns ErrClosed.
func (c *Channel) Drain() (domain.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.Event{}, ErrClosed
	}
	if len(c.events) == 0 {
		return domain.Event{}, ErrEmpty
	}

	ev := c.events[0]
	c.events = c.events[1:]
	return ev, nil
}

// Close marks the channel terminal and drops pending events.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.events = nil
}

func (c *Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}
