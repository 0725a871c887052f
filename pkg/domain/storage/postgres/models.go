package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"

	kpool "github.com/molstud/moltrain/pkg/conn/db/postgres/pool"
	"github.com/molstud/moltrain/pkg/domain"
	kpgerr "github.com/molstud/moltrain/pkg/domain/errors/dberrors/postgres"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

type pgModels struct {
	pool kpool.Pool
}

var _ storage.ModelInterface = &pgModels{}

func (m *pgModels) New(ctx context.Context, userId string, name string, parameters map[string]any, baseModelId string) (string, error) {
	j, err := asJSONB(parameters)
	if err != nil {
		return "", err
	}

	modelId := uuid.NewString()
	_, err = m.pool.Exec(
		ctx,
		`
		insert into "models" ("model_id", "user_id", "name", "base_model_id", "parameters")
		values ($1, $2, $3, $4, $5)
		`,
		modelId, userId, name, baseModelId, j,
	)
	if kpgerr.IsForeignKeyViolation(err) {
		// either the user or the base model. The caller knows the user exists.
		return "", kpgerr.Missing{Table: "base_models", Identity: baseModelId}
	}
	if err != nil {
		return "", err
	}
	return modelId, nil
}

func (m *pgModels) Get(ctx context.Context, userId string, modelId string) (domain.ModelConfig, error) {
	model := domain.ModelConfig{ModelId: modelId}
	parameters := pgtype.JSONB{}
	err := m.pool.QueryRow(
		ctx,
		`
		select "name", "base_model_id", "parameters" from "models"
		where "user_id" = $1 and "model_id" = $2
		`,
		userId, modelId,
	).Scan(&model.Name, &model.BaseModelId, &parameters)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ModelConfig{}, kpgerr.Missing{Table: "models", Identity: modelId}
	}
	if err != nil {
		return domain.ModelConfig{}, err
	}
	if err := fromJSONB(parameters, &model.Parameters); err != nil {
		return domain.ModelConfig{}, err
	}

	fittingIds, err := m.fittingIds(ctx, userId)
	if err != nil {
		return domain.ModelConfig{}, err
	}
	model.FittingIds = fittingIds[modelId]
	if model.FittingIds == nil {
		model.FittingIds = []string{}
	}
	return model, nil
}

func (m *pgModels) GetAll(ctx context.Context, userId string) ([]domain.ModelConfig, error) {
	rows, err := m.pool.Query(
		ctx,
		`
		select "model_id", "name", "base_model_id", "parameters" from "models"
		where "user_id" = $1
		`,
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	models := []domain.ModelConfig{}
	for rows.Next() {
		model := domain.ModelConfig{FittingIds: []string{}}
		parameters := pgtype.JSONB{}
		if err := rows.Scan(&model.ModelId, &model.Name, &model.BaseModelId, &parameters); err != nil {
			return nil, err
		}
		if err := fromJSONB(parameters, &model.Parameters); err != nil {
			return nil, err
		}
		models = append(models, model)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	fittingIds, err := m.fittingIds(ctx, userId)
	if err != nil {
		return nil, err
	}
	for i := range models {
		if ids := fittingIds[models[i].ModelId]; ids != nil {
			models[i].FittingIds = ids
		}
	}
	return models, nil
}

// fittingIds maps each of the user's models to the fittings trained from it.
func (m *pgModels) fittingIds(ctx context.Context, userId string) (map[string][]string, error) {
	rows, err := m.pool.Query(
		ctx,
		`select "model_id", "fitting_id" from "fittings" where "user_id" = $1`,
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := map[string][]string{}
	for rows.Next() {
		var modelId, fittingId string
		if err := rows.Scan(&modelId, &fittingId); err != nil {
			return nil, err
		}
		found[modelId] = append(found[modelId], fittingId)
	}
	return found, rows.Err()
}
