package mock

import (
	"context"
	"errors"

	"github.com/molstud/moltrain/pkg/domain"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

type BaseModelInterface struct {
	Impl struct {
		GetAll func(ctx context.Context) ([]domain.BaseModel, error)
		Get    func(ctx context.Context, baseModelId string) (domain.BaseModel, error)
	}

	Calls struct {
		GetAll CallLog[struct{}]
		Get    CallLog[string]
	}
}

func NewBaseModelInterface() *BaseModelInterface {
	return &BaseModelInterface{}
}

var _ storage.BaseModelInterface = &BaseModelInterface{}

func (m *BaseModelInterface) GetAll(ctx context.Context) ([]domain.BaseModel, error) {
	m.Calls.GetAll = append(m.Calls.GetAll, struct{}{})
	if m.Impl.GetAll != nil {
		return m.Impl.GetAll(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *BaseModelInterface) Get(ctx context.Context, baseModelId string) (domain.BaseModel, error) {
	m.Calls.Get = append(m.Calls.Get, baseModelId)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, baseModelId)
	}
	panic(errors.New("it should not be called"))
}
