package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/molstud/moltrain/pkg/domain"
	"github.com/molstud/moltrain/pkg/domain/notify"
	"github.com/molstud/moltrain/pkg/loop"
)

// Transport delivers one event to a user's live client connection.
//
// Delivery is best-effort: a disconnected client simply drops the event.
type Transport interface {
	Send(userId string, ev domain.Event)
}

// TrainingStopper signals cancellation of the user's running training, if any.
type TrainingStopper interface {
	Stop(userId string) bool
}

// DataPurger removes everything stored for a user.
type DataPurger interface {
	DeleteUserData(ctx context.Context, userId string) error
}

// Session is the live association between a connected client and a user.
//
// It owns the user's notification channel and is watched by one reaper loop.
// The alive flag is the single authority over teardown: whichever path
// (eviction, disconnect, re-login) claims it first performs the destructive
// side effects, every other path backs off.
type Session struct {
	UserId string

	channel *notify.Channel

	mu    sync.Mutex
	alive bool
}

func (s *Session) claimTeardown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive {
		return false
	}
	s.alive = false
	return true
}

func (s *Session) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.alive
}

// Registry tracks the one Session each logged-in user has,
// and runs one reaper loop per Session.
type Registry struct {
	tick      time.Duration
	idleLimit time.Duration
	logger    *log.Logger

	transport Transport
	trainings TrainingStopper
	purger    DataPurger
	tracker   *ActivityTracker

	// bounds the lifetime of all reaper loops.
	ctx context.Context

	mu       sync.Mutex
	sessions map[string]*Session
}

type Option func(*Registry) *Registry

// WithTick sets the reaper tick interval. Default: 300ms.
func WithTick(d time.Duration) Option {
	return func(r *Registry) *Registry {
		r.tick = d
		return r
	}
}

// WithIdleLimit sets the inactivity threshold for eviction. Default: 2h.
func WithIdleLimit(d time.Duration) Option {
	return func(r *Registry) *Registry {
		r.idleLimit = d
		return r
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Registry) *Registry {
		r.logger = l
		return r
	}
}

func NewRegistry(
	ctx context.Context,
	transport Transport,
	trainings TrainingStopper,
	purger DataPurger,
	options ...Option,
) *Registry {
	r := &Registry{
		tick:      300 * time.Millisecond,
		idleLimit: 2 * time.Hour,
		logger:    log.Default(),
		transport: transport,
		trainings: trainings,
		purger:    purger,
		tracker:   NewActivityTracker(),
		ctx:       ctx,
		sessions:  map[string]*Session{},
	}
	for _, opt := range options {
		r = opt(r)
	}
	return r
}

func (r *Registry) Tracker() *ActivityTracker {
	return r.tracker
}

// OnLogin creates the user's Session and starts its reaper.
//
// When the user already has a session (a second login), the old session's
// channel and reaper are replaced, never duplicated.
func (r *Registry) OnLogin(userId string) {
	s := &Session{
		UserId:  userId,
		channel: notify.NewChannel(),
		alive:   true,
	}

	r.mu.Lock()
	if old, ok := r.sessions[userId]; ok {
		if old.claimTeardown() {
			old.channel.Close() // old reaper sees this and quits
		}
	}
	r.sessions[userId] = s
	r.mu.Unlock()

	r.tracker.Touch(userId)

	go r.runReaper(r.ctx, s)
}

// OnDisconnect tears the user's session down without purging stored data.
//
// Any running training is stopped so its slot does not outlive the session.
// Returns false when there is no live session (already evicted or never
// logged in); in that case nothing is done.
func (r *Registry) OnDisconnect(userId string) bool {
	r.mu.Lock()
	s := r.sessions[userId]
	r.mu.Unlock()

	if s == nil || !s.claimTeardown() {
		return false
	}

	r.trainings.Stop(userId)
	s.channel.Close()
	r.removeIfCurrent(s)
	return true
}

// Alive reports whether the user has a live session.
func (r *Registry) Alive(userId string) bool {
	r.mu.Lock()
	s := r.sessions[userId]
	r.mu.Unlock()

	return s != nil && s.Alive()
}

// Notify queues an event into the user's notification channel.
//
// No-op when the user has no session.
func (r *Registry) Notify(userId string, ev domain.Event) {
	r.mu.Lock()
	s := r.sessions[userId]
	r.mu.Unlock()

	if s == nil {
		return
	}
	s.channel.Push(ev)
}

// removeIfCurrent drops the session, activity record included, unless a
// newer session already took its place. A login landing mid-teardown keeps
// the activity record of its replacement session intact.
func (r *Registry) removeIfCurrent(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions[s.UserId]; ok && current == s {
		delete(r.sessions, s.UserId)
		r.tracker.Forget(s.UserId)
	}
}

// runReaper is the loop owning one Session.
//
// Every tick it either evicts the session for inactivity, quits because the
// channel was closed elsewhere, or delivers at most one queued event.
func (r *Registry) runReaper(ctx context.Context, s *Session) {
	_, err := loop.Start(
		ctx, struct{}{},
		func(ctx context.Context, z struct{}) (struct{}, loop.Next) {
			if idle, known := r.tracker.IdleFor(s.UserId, time.Now()); !known || r.idleLimit < idle {
				r.evict(ctx, s)
				return z, loop.Break(nil)
			}

			ev, err := s.channel.Drain()
			switch {
			case errors.Is(err, notify.ErrClosed):
				// session was destroyed by other means.
				r.removeIfCurrent(s)
				return z, loop.Break(nil)
			case errors.Is(err, notify.ErrEmpty):
				return z, loop.Continue(r.tick)
			}

			r.transport.Send(s.UserId, ev)
			return z, loop.Continue(r.tick)
		},
	)
	if err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Printf("[reaper %s] stopped: %s", s.UserId, err)
	}
}

func (r *Registry) evict(ctx context.Context, s *Session) {
	if !s.claimTeardown() {
		r.removeIfCurrent(s)
		return
	}

	r.logger.Printf("disconnected: %s for prolonged inactivity", s.UserId)

	if err := r.purger.DeleteUserData(ctx, s.UserId); err != nil {
		r.logger.Printf("failed to purge data of %s: %s", s.UserId, err)
	}
	r.trainings.Stop(s.UserId)

	// best-effort farewell. The client may already be gone.
	r.transport.Send(s.UserId, domain.Event{Kind: domain.EventDisconnected})

	s.channel.Close()
	r.removeIfCurrent(s)
}
