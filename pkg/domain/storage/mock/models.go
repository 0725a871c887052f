package mock

import (
	"context"
	"errors"

	"github.com/molstud/moltrain/pkg/domain"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

type ModelInterface struct {
	Impl struct {
		New    func(ctx context.Context, userId string, name string, parameters map[string]any, baseModelId string) (string, error)
		Get    func(ctx context.Context, userId string, modelId string) (domain.ModelConfig, error)
		GetAll func(ctx context.Context, userId string) ([]domain.ModelConfig, error)
	}

	Calls struct {
		New CallLog[struct {
			UserId      string
			Name        string
			Parameters  map[string]any
			BaseModelId string
		}]
		Get CallLog[struct {
			UserId  string
			ModelId string
		}]
		GetAll CallLog[string]
	}
}

func NewModelInterface() *ModelInterface {
	return &ModelInterface{}
}

var _ storage.ModelInterface = &ModelInterface{}

func (m *ModelInterface) New(ctx context.Context, userId string, name string, parameters map[string]any, baseModelId string) (string, error) {
	m.Calls.New = append(m.Calls.New, struct {
		UserId      string
		Name        string
		Parameters  map[string]any
		BaseModelId string
	}{UserId: userId, Name: name, Parameters: parameters, BaseModelId: baseModelId})
	if m.Impl.New != nil {
		return m.Impl.New(ctx, userId, name, parameters, baseModelId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ModelInterface) Get(ctx context.Context, userId string, modelId string) (domain.ModelConfig, error) {
	m.Calls.Get = append(m.Calls.Get, struct {
		UserId  string
		ModelId string
	}{UserId: userId, ModelId: modelId})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, userId, modelId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ModelInterface) GetAll(ctx context.Context, userId string) ([]domain.ModelConfig, error) {
	m.Calls.GetAll = append(m.Calls.GetAll, userId)
	if m.Impl.GetAll != nil {
		return m.Impl.GetAll(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}
