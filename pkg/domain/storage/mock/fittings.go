package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/molstud/moltrain/pkg/domain"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

// FittingInterface is a mockup of storage.FittingInterface.
//
// Persist is reached from training workers, so the call log is guarded.
type FittingInterface struct {
	Impl struct {
		Get     func(ctx context.Context, userId string, fittingId string) (domain.Fitting, error)
		GetAll  func(ctx context.Context, userId string) ([]domain.Fitting, error)
		Persist func(ctx context.Context, userId string, f domain.Fitting) error
	}

	mu    sync.Mutex
	calls struct {
		Get CallLog[struct {
			UserId    string
			FittingId string
		}]
		GetAll  CallLog[string]
		Persist CallLog[struct {
			UserId  string
			Fitting domain.Fitting
		}]
	}
}

func NewFittingInterface() *FittingInterface {
	return &FittingInterface{}
}

var _ storage.FittingInterface = &FittingInterface{}

func (m *FittingInterface) Get(ctx context.Context, userId string, fittingId string) (domain.Fitting, error) {
	m.mu.Lock()
	m.calls.Get = append(m.calls.Get, struct {
		UserId    string
		FittingId string
	}{UserId: userId, FittingId: fittingId})
	m.mu.Unlock()

	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, userId, fittingId)
	}
	panic(errors.New("it should not be called"))
}

func (m *FittingInterface) GetAll(ctx context.Context, userId string) ([]domain.Fitting, error) {
	m.mu.Lock()
	m.calls.GetAll = append(m.calls.GetAll, userId)
	m.mu.Unlock()

	if m.Impl.GetAll != nil {
		return m.Impl.GetAll(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}

func (m *FittingInterface) Persist(ctx context.Context, userId string, f domain.Fitting) error {
	m.mu.Lock()
	m.calls.Persist = append(m.calls.Persist, struct {
		UserId  string
		Fitting domain.Fitting
	}{UserId: userId, Fitting: f})
	m.mu.Unlock()

	if m.Impl.Persist != nil {
		return m.Impl.Persist(ctx, userId, f)
	}
	panic(errors.New("it should not be called"))
}

func (m *FittingInterface) PersistCalls() CallLog[struct {
	UserId  string
	Fitting domain.Fitting
}] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(CallLog[struct {
		UserId  string
		Fitting domain.Fitting
	}]{}, m.calls.Persist...)
}

func (m *FittingInterface) GetCalls() CallLog[struct {
	UserId    string
	FittingId string
}] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(CallLog[struct {
		UserId    string
		FittingId string
	}]{}, m.calls.Get...)
}
