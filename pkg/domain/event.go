package domain

// EventKind tags a notification event for a user's client.
type EventKind string

const (
	// a training has been admitted and is starting.
	EventStarted EventKind = "started"

	// training progress for one epoch.
	EventUpdate EventKind = "update"

	// training finished and its fitting is persisted.
	EventDone EventKind = "done"

	// training failed.
	EventError EventKind = "error"

	// the session is being torn down for inactivity.
	EventDisconnected EventKind = "disconnected"
)

// Coalesces reports whether queueing this kind discards everything queued
// before it. Started and Error both open a new "phase" of a job: a client
// must never see a stale Update after a fresh Started, nor after a failure.
func (k EventKind) Coalesces() bool {
	return k == EventStarted || k == EventError
}

// Event is one notification queued for delivery to a user.
type Event struct {
	Kind    EventKind
	Payload any
}

// payload of EventStarted.
type StartedPayload struct {
	// epochs this training aims for, including epochs of the fitting
	// being continued, if any.
	Epochs int
}

// payload of EventUpdate.
type UpdatePayload struct {
	Epoch   int
	Metrics map[string]float64
}

// payload of EventDone.
type DonePayload struct {
	FittingId     string
	EpochsTrained int
	Accuracy      float64
}
