package postgres

import (
	"context"

	kpool "github.com/molstud/moltrain/pkg/conn/db/postgres/pool"
	"github.com/molstud/moltrain/pkg/domain"
)

// DefaultBaseModels are the architectures a fresh database offers.
//
// Numeric parameters are float64 on purpose: that is what they come back
// as after a jsonb round trip.
var DefaultBaseModels = []domain.BaseModel{
	{
		BaseModelId:  "base-sequential-a",
		Name:         "Sequential A",
		Kind:         domain.Sequential,
		LossFunction: "Mean Squared Error",
		Optimizer:    "Adam",
		Parameters: map[string]any{
			"layers": []any{
				map[string]any{"type": "Dense", "units": float64(256), "activation": "relu"},
				map[string]any{"type": "Dense", "units": float64(128), "activation": "relu"},
				map[string]any{"type": "Dense", "units": float64(1), "activation": "linear"},
			},
		},
		Metrics: []string{"MeanAbsoluteError", "R2"},
	},
	{
		BaseModelId:  "base-schnet-a",
		Name:         "SchNet A",
		Kind:         domain.SchNet,
		LossFunction: "Mean Squared Error",
		Optimizer:    "Adam",
		Parameters: map[string]any{
			"depth":              float64(4),
			"embeddingDimension": float64(128),
			"readoutSize":        float64(1),
		},
		Metrics: []string{"MeanAbsoluteError", "R2"},
	},
}

// SeedDataset is a dataset fixture together with its label histograms.
type SeedDataset struct {
	domain.Dataset
	Histograms map[string]domain.Histogram
}

// DefaultDatasets are the shared datasets a fresh database offers.
var DefaultDatasets = []SeedDataset{
	{
		Dataset: domain.Dataset{
			DatasetId:        "dataset-small-molecules",
			Name:             "Small Molecules",
			Size:             3378,
			LabelDescriptors: []string{"homo", "lumo"},
		},
		Histograms: map[string]domain.Histogram{
			"homo": {
				BinEdges: []float64{-9.0, -8.5, -8.0, -7.5, -7.0, -6.5, -6.0, -5.5, -5.0, -4.5, -4.0},
				Buckets:  []int{12, 48, 154, 372, 645, 810, 702, 411, 167, 57},
			},
			"lumo": {
				BinEdges: []float64{-4.0, -3.4, -2.8, -2.2, -1.6, -1.0, -0.4, 0.2, 0.8, 1.4, 2.0},
				Buckets:  []int{21, 64, 183, 399, 671, 778, 663, 388, 158, 53},
			},
		},
	},
}

// seed fills the shared catalog tables when their rows are not there yet.
//
// Every insert skips rows that already exist, so re-running Bootstrap never
// clobbers a catalog an operator has edited.
func seed(ctx context.Context, pool kpool.Pool) error {
	for _, bm := range DefaultBaseModels {
		parameters, err := asJSONB(bm.Parameters)
		if err != nil {
			return err
		}
		metrics, err := asJSONB(bm.Metrics)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(
			ctx,
			`
			insert into "base_models"
				("base_model_id", "name", "kind", "image_path",
				"loss_function", "optimizer", "parameters", "metrics")
			values ($1, $2, $3, $4, $5, $6, $7, $8)
			on conflict ("base_model_id") do nothing
			`,
			bm.BaseModelId, bm.Name, string(bm.Kind), bm.ImagePath,
			bm.LossFunction, bm.Optimizer, parameters, metrics,
		); err != nil {
			return err
		}
	}

	for _, ds := range DefaultDatasets {
		descriptors, err := asJSONB(ds.LabelDescriptors)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(
			ctx,
			`
			insert into "datasets" ("dataset_id", "name", "size", "label_descriptors")
			values ($1, $2, $3, $4)
			on conflict ("dataset_id") do nothing
			`,
			ds.DatasetId, ds.Name, ds.Size, descriptors,
		); err != nil {
			return err
		}
		for label, h := range ds.Histograms {
			binEdges, err := asJSONB(h.BinEdges)
			if err != nil {
				return err
			}
			buckets, err := asJSONB(h.Buckets)
			if err != nil {
				return err
			}
			if _, err := pool.Exec(
				ctx,
				`
				insert into "dataset_histograms" ("dataset_id", "label", "bin_edges", "buckets")
				values ($1, $2, $3, $4)
				on conflict ("dataset_id", "label") do nothing
				`,
				ds.DatasetId, label, binEdges, buckets,
			); err != nil {
				return err
			}
		}
	}

	return nil
}
