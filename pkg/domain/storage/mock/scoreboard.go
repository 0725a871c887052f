package mock

import (
	"context"
	"errors"

	"github.com/molstud/moltrain/pkg/domain"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

type ScoreboardInterface struct {
	Impl struct {
		Filtered  func(ctx context.Context, datasetId string, labels []string) ([]domain.ScoreboardEntry, error)
		Delete    func(ctx context.Context, fittingId string) error
		DeleteAll func(ctx context.Context) error
	}

	Calls struct {
		Filtered CallLog[struct {
			DatasetId string
			Labels    []string
		}]
		Delete    CallLog[string]
		DeleteAll CallLog[struct{}]
	}
}

func NewScoreboardInterface() *ScoreboardInterface {
	return &ScoreboardInterface{}
}

var _ storage.ScoreboardInterface = &ScoreboardInterface{}

func (m *ScoreboardInterface) Filtered(ctx context.Context, datasetId string, labels []string) ([]domain.ScoreboardEntry, error) {
	m.Calls.Filtered = append(m.Calls.Filtered, struct {
		DatasetId string
		Labels    []string
	}{DatasetId: datasetId, Labels: labels})
	if m.Impl.Filtered != nil {
		return m.Impl.Filtered(ctx, datasetId, labels)
	}
	panic(errors.New("it should not be called"))
}

func (m *ScoreboardInterface) Delete(ctx context.Context, fittingId string) error {
	m.Calls.Delete = append(m.Calls.Delete, fittingId)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, fittingId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ScoreboardInterface) DeleteAll(ctx context.Context) error {
	m.Calls.DeleteAll = append(m.Calls.DeleteAll, struct{}{})
	if m.Impl.DeleteAll != nil {
		return m.Impl.DeleteAll(ctx)
	}
	panic(errors.New("it should not be called"))
}
