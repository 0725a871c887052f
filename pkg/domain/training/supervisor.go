// Package training runs at most one background training job per user.
package training

import (
	"context"
	"log"
	"sync"

	"github.com/molstud/moltrain/pkg/domain"
	kerr "github.com/molstud/moltrain/pkg/domain/errors"
	"github.com/molstud/moltrain/pkg/domain/storage"
	"github.com/molstud/moltrain/pkg/domain/training/engine"
)

// Notifier receives the lifecycle events of a user's training.
type Notifier interface {
	Notify(userId string, ev domain.Event)
}

type job struct {
	cancel context.CancelFunc
	body   domain.TrainingJob
	params engine.Params
}

// Supervisor admits, watches and cancels training jobs.
//
// It holds the single-job-per-user invariant: Start and Continue refuse a
// user who already has a live job, and a slot is freed only when its worker
// reaches a terminal state.
type Supervisor struct {
	engine   engine.Engine
	fittings storage.FittingInterface
	notifier Notifier
	logger   *log.Logger

	// bounds the lifetime of all workers.
	ctx context.Context

	mu   sync.Mutex
	jobs map[string]*job
}

type Option func(*Supervisor) *Supervisor

func WithLogger(l *log.Logger) Option {
	return func(s *Supervisor) *Supervisor {
		s.logger = l
		return s
	}
}

func New(
	ctx context.Context,
	eng engine.Engine,
	fittings storage.FittingInterface,
	notifier Notifier,
	options ...Option,
) *Supervisor {
	s := &Supervisor{
		engine:   eng,
		fittings: fittings,
		notifier: notifier,
		logger:   log.Default(),
		ctx:      ctx,
		jobs:     map[string]*job{},
	}
	for _, opt := range options {
		s = opt(s)
	}
	return s
}

// IsRunning reports whether the user has a live job.
func (s *Supervisor) IsRunning(userId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.jobs[userId]
	return ok
}

// Job returns a snapshot of the user's live job.
func (s *Supervisor) Job(userId string) (domain.TrainingJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[userId]
	if !ok {
		return domain.TrainingJob{}, false
	}
	return j.body, true
}

// Start admits a fresh training job for the user.
//
// Returns kerr.ErrAlreadyRunning when the user already has one. On success
// the user is notified that training started before any progress can arrive.
func (s *Supervisor) Start(
	userId string, datasetId string, modelId string,
	labels []string, epochs int, batchSize int,
) error {
	params := engine.Params{
		UserId:    userId,
		DatasetId: datasetId,
		ModelId:   modelId,
		Labels:    labels,
		Epochs:    epochs,
		BatchSize: batchSize,
	}
	return s.admit(userId, params, epochs)
}

// Continue resumes a finished fitting for more epochs.
//
// Returns kerr.ErrAlreadyRunning when the user already has a live job and
// kerr.ErrMissing when the fitting does not exist. The returned count is the
// total epochs the fitting will have been trained for when this run ends.
func (s *Supervisor) Continue(ctx context.Context, userId string, fittingId string, epochs int) (int, error) {
	if s.IsRunning(userId) {
		return 0, kerr.ErrAlreadyRunning
	}

	prior, err := s.fittings.Get(ctx, userId, fittingId)
	if err != nil {
		return 0, err
	}

	params := engine.Params{
		UserId:        userId,
		DatasetId:     prior.DatasetId,
		ModelId:       prior.ModelId,
		FittingId:     prior.FittingId,
		Labels:        prior.Labels,
		Epochs:        epochs,
		BatchSize:     prior.BatchSize,
		InitialEpochs: prior.Epochs,
	}
	total := prior.Epochs + epochs
	if err := s.admit(userId, params, total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Supervisor) admit(userId string, params engine.Params, epochsTotal int) error {
	jctx, cancel := context.WithCancel(s.ctx)

	s.mu.Lock()
	if _, ok := s.jobs[userId]; ok {
		s.mu.Unlock()
		cancel()
		return kerr.ErrAlreadyRunning
	}
	j := &job{
		cancel: cancel,
		body: domain.TrainingJob{
			UserId:          userId,
			FittingId:       params.FittingId,
			EpochsRequested: epochsTotal,
			EpochsCompleted: params.InitialEpochs,
			Status:          domain.TrainingRunning,
		},
		params: params,
	}
	s.jobs[userId] = j
	s.mu.Unlock()

	s.notifier.Notify(userId, domain.Event{
		Kind:    domain.EventStarted,
		Payload: domain.StartedPayload{Epochs: epochsTotal},
	})

	go s.work(jctx, j)
	return nil
}

// Stop requests cancellation of the user's live job.
//
// Returns false when there is nothing to stop. The slot stays taken until
// the worker has actually wound down.
func (s *Supervisor) Stop(userId string) bool {
	s.mu.Lock()
	j := s.jobs[userId]
	s.mu.Unlock()

	if j == nil {
		return false
	}
	j.cancel()
	return true
}

func (s *Supervisor) work(ctx context.Context, j *job) {
	defer j.cancel()

	s.engine.RunTraining(ctx, j.params, engine.Callbacks{
		OnProgress: func(epoch int, metrics map[string]float64) {
			s.onProgress(j, epoch, metrics)
		},
		OnComplete: func(fittingId string, epochsTrained int, accuracy float64) {
			s.onComplete(j, fittingId, epochsTrained, accuracy)
		},
		OnError: func(err error) {
			s.onError(j, err)
		},
	})

	if ctx.Err() != nil {
		s.onCancelled(j)
	}
}

func (s *Supervisor) onProgress(j *job, epoch int, metrics map[string]float64) {
	s.mu.Lock()
	if s.jobs[j.body.UserId] == j && j.body.EpochsCompleted < epoch {
		j.body.EpochsCompleted = epoch
	}
	s.mu.Unlock()

	s.notifier.Notify(j.body.UserId, domain.Event{
		Kind:    domain.EventUpdate,
		Payload: domain.UpdatePayload{Epoch: epoch, Metrics: metrics},
	})
}

func (s *Supervisor) onComplete(j *job, fittingId string, epochsTrained int, accuracy float64) {
	if !s.release(j, domain.TrainingCompleted) {
		return
	}

	f := domain.Fitting{
		FittingId: fittingId,
		ModelId:   j.params.ModelId,
		DatasetId: j.params.DatasetId,
		Labels:    j.params.Labels,
		Epochs:    epochsTrained,
		BatchSize: j.params.BatchSize,
		Accuracy:  accuracy,
	}
	// the request that spawned this job is long gone. Persist on the
	// supervisor's own lifetime.
	if err := s.fittings.Persist(s.ctx, j.body.UserId, f); err != nil {
		s.logger.Printf("failed to persist fitting %s of %s: %s", fittingId, j.body.UserId, err)
		s.notifier.Notify(j.body.UserId, domain.Event{Kind: domain.EventError})
		return
	}

	s.notifier.Notify(j.body.UserId, domain.Event{
		Kind: domain.EventDone,
		Payload: domain.DonePayload{
			FittingId:     fittingId,
			EpochsTrained: epochsTrained,
			Accuracy:      accuracy,
		},
	})
}

func (s *Supervisor) onError(j *job, err error) {
	if !s.release(j, domain.TrainingFailed) {
		return
	}

	s.logger.Printf("training of %s failed: %s", j.body.UserId, err)
	s.notifier.Notify(j.body.UserId, domain.Event{Kind: domain.EventError})
}

func (s *Supervisor) onCancelled(j *job) {
	// no event. Stopping is the user's own doing.
	s.release(j, domain.TrainingCancelled)
}

// release frees the user's slot, provided j still owns it.
//
// The ownership check keeps a lingering worker of a finished job from
// releasing a successor job admitted for the same user.
func (s *Supervisor) release(j *job, terminal domain.TrainingStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.jobs[j.body.UserId] != j {
		return false
	}
	j.body.Status = terminal
	delete(s.jobs, j.body.UserId)
	return true
}
