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

type pgBaseModels struct {
	pool kpool.Pool
}

var _ storage.BaseModelInterface = &pgBaseModels{}

func scanBaseModel(row pgx.Row) (domain.BaseModel, error) {
	bm := domain.BaseModel{}
	var kind string
	parameters := pgtype.JSONB{}
	metrics := pgtype.JSONB{}

	if err := row.Scan(
		&bm.BaseModelId, &bm.Name, &kind, &bm.ImagePath,
		&bm.LossFunction, &bm.Optimizer, &parameters, &metrics,
	); err != nil {
		return domain.BaseModel{}, err
	}

	k, err := domain.AsBaseModelKind(kind)
	if err != nil {
		return domain.BaseModel{}, err
	}
	bm.Kind = k

	if err := fromJSONB(parameters, &bm.Parameters); err != nil {
		return domain.BaseModel{}, err
	}
	if err := fromJSONB(metrics, &bm.Metrics); err != nil {
		return domain.BaseModel{}, err
	}
	return bm, nil
}

const baseModelColumns = `
	"base_model_id", "name", "kind", "image_path",
	"loss_function", "optimizer", "parameters", "metrics"
`

func (b *pgBaseModels) GetAll(ctx context.Context) ([]domain.BaseModel, error) {
	rows, err := b.pool.Query(
		ctx,
		`select `+baseModelColumns+` from "base_models"`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	baseModels := []domain.BaseModel{}
	for rows.Next() {
		bm, err := scanBaseModel(rows)
		if err != nil {
			return nil, err
		}
		baseModels = append(baseModels, bm)
	}
	return baseModels, rows.Err()
}

func (b *pgBaseModels) Get(ctx context.Context, baseModelId string) (domain.BaseModel, error) {
	bm, err := scanBaseModel(b.pool.QueryRow(
		ctx,
		`select `+baseModelColumns+` from "base_models" where "base_model_id" = $1`,
		baseModelId,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.BaseModel{}, kpgerr.Missing{Table: "base_models", Identity: baseModelId}
	}
	return bm, err
}
