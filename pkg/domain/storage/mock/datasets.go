package mock

import (
	"context"
	"errors"

	"github.com/molstud/moltrain/pkg/domain"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

type DatasetInterface struct {
	Impl struct {
		GetAll     func(ctx context.Context) ([]domain.Dataset, error)
		Histograms func(ctx context.Context, datasetId string, labels []string) (map[string]domain.Histogram, error)
	}

	Calls struct {
		GetAll     CallLog[struct{}]
		Histograms CallLog[struct {
			DatasetId string
			Labels    []string
		}]
	}
}

func NewDatasetInterface() *DatasetInterface {
	return &DatasetInterface{}
}

var _ storage.DatasetInterface = &DatasetInterface{}

func (m *DatasetInterface) GetAll(ctx context.Context) ([]domain.Dataset, error) {
	m.Calls.GetAll = append(m.Calls.GetAll, struct{}{})
	if m.Impl.GetAll != nil {
		return m.Impl.GetAll(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *DatasetInterface) Histograms(ctx context.Context, datasetId string, labels []string) (map[string]domain.Histogram, error) {
	m.Calls.Histograms = append(m.Calls.Histograms, struct {
		DatasetId string
		Labels    []string
	}{DatasetId: datasetId, Labels: labels})
	if m.Impl.Histograms != nil {
		return m.Impl.Histograms(ctx, datasetId, labels)
	}
	panic(errors.New("it should not be called"))
}
