package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"

	kpool "github.com/molstud/moltrain/pkg/conn/db/postgres/pool"
	"github.com/molstud/moltrain/pkg/domain"
	kpgerr "github.com/molstud/moltrain/pkg/domain/errors/dberrors/postgres"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

type pgDatasets struct {
	pool kpool.Pool
}

var _ storage.DatasetInterface = &pgDatasets{}

func (d *pgDatasets) GetAll(ctx context.Context) ([]domain.Dataset, error) {
	rows, err := d.pool.Query(
		ctx,
		`select "dataset_id", "name", "size", "label_descriptors" from "datasets"`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	datasets := []domain.Dataset{}
	for rows.Next() {
		ds := domain.Dataset{}
		descriptors := pgtype.JSONB{}
		if err := rows.Scan(&ds.DatasetId, &ds.Name, &ds.Size, &descriptors); err != nil {
			return nil, err
		}
		if err := fromJSONB(descriptors, &ds.LabelDescriptors); err != nil {
			return nil, err
		}
		datasets = append(datasets, ds)
	}
	return datasets, rows.Err()
}

func (d *pgDatasets) Histograms(ctx context.Context, datasetId string, labels []string) (map[string]domain.Histogram, error) {
	var found string
	err := d.pool.QueryRow(
		ctx,
		`select "dataset_id" from "datasets" where "dataset_id" = $1`,
		datasetId,
	).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, kpgerr.Missing{Table: "datasets", Identity: datasetId}
	}
	if err != nil {
		return nil, err
	}

	rows, err := d.pool.Query(
		ctx,
		`
		select "label", "bin_edges", "buckets" from "dataset_histograms"
		where "dataset_id" = $1 and "label" = any($2)
		`,
		datasetId, labels,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	histograms := map[string]domain.Histogram{}
	for rows.Next() {
		var label string
		binEdges := pgtype.JSONB{}
		buckets := pgtype.JSONB{}
		if err := rows.Scan(&label, &binEdges, &buckets); err != nil {
			return nil, err
		}

		h := domain.Histogram{}
		if err := fromJSONB(binEdges, &h.BinEdges); err != nil {
			return nil, err
		}
		if err := fromJSONB(buckets, &h.Buckets); err != nil {
			return nil, err
		}
		histograms[label] = h
	}
	return histograms, rows.Err()
}
