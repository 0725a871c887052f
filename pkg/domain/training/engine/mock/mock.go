package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/molstud/moltrain/pkg/domain/training/engine"
)

// Engine is a mockup of engine.Engine.
//
// RunTraining is invoked from the supervisor's worker goroutine,
// so the call log is guarded.
type Engine struct {
	Impl struct {
		RunTraining func(ctx context.Context, params engine.Params, cb engine.Callbacks)
	}

	mu    sync.Mutex
	calls []engine.Params
}

func New() *Engine {
	return &Engine{}
}

var _ engine.Engine = &Engine{}

func (m *Engine) RunTraining(ctx context.Context, params engine.Params, cb engine.Callbacks) {
	m.mu.Lock()
	m.calls = append(m.calls, params)
	m.mu.Unlock()

	if m.Impl.RunTraining != nil {
		m.Impl.RunTraining(ctx, params, cb)
		return
	}

	panic(errors.New("it should not be called"))
}

func (m *Engine) Calls() []engine.Params {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]engine.Params{}, m.calls...)
}
