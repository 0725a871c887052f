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

type pgFittings struct {
	pool kpool.Pool
}

var _ storage.FittingInterface = &pgFittings{}

func (f *pgFittings) Get(ctx context.Context, userId string, fittingId string) (domain.Fitting, error) {
	fitting := domain.Fitting{FittingId: fittingId}
	labels := pgtype.JSONB{}
	err := f.pool.QueryRow(
		ctx,
		`
		select "model_id", "dataset_id", "labels", "epochs", "batch_size", "accuracy"
		from "fittings"
		where "user_id" = $1 and "fitting_id" = $2
		`,
		userId, fittingId,
	).Scan(
		&fitting.ModelId, &fitting.DatasetId, &labels,
		&fitting.Epochs, &fitting.BatchSize, &fitting.Accuracy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Fitting{}, kpgerr.Missing{Table: "fittings", Identity: fittingId}
	}
	if err != nil {
		return domain.Fitting{}, err
	}
	if err := fromJSONB(labels, &fitting.Labels); err != nil {
		return domain.Fitting{}, err
	}
	return fitting, nil
}

func (f *pgFittings) GetAll(ctx context.Context, userId string) ([]domain.Fitting, error) {
	rows, err := f.pool.Query(
		ctx,
		`
		select "fitting_id", "model_id", "dataset_id", "labels", "epochs", "batch_size", "accuracy"
		from "fittings"
		where "user_id" = $1
		`,
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fittings := []domain.Fitting{}
	for rows.Next() {
		fitting := domain.Fitting{}
		labels := pgtype.JSONB{}
		if err := rows.Scan(
			&fitting.FittingId, &fitting.ModelId, &fitting.DatasetId, &labels,
			&fitting.Epochs, &fitting.BatchSize, &fitting.Accuracy,
		); err != nil {
			return nil, err
		}
		if err := fromJSONB(labels, &fitting.Labels); err != nil {
			return nil, err
		}
		fittings = append(fittings, fitting)
	}
	return fittings, rows.Err()
}

func (f *pgFittings) Persist(ctx context.Context, userId string, fitting domain.Fitting) error {
	labels, err := asJSONB(fitting.Labels)
	if err != nil {
		return err
	}

	tx, err := f.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(
		ctx,
		`
		insert into "fittings"
			("fitting_id", "user_id", "model_id", "dataset_id", "labels", "epochs", "batch_size", "accuracy")
		values ($1, $2, $3, $4, $5, $6, $7, $8)
		on conflict ("user_id", "fitting_id") do update
		set "epochs" = excluded."epochs",
			"batch_size" = excluded."batch_size",
			"accuracy" = excluded."accuracy"
		`,
		fitting.FittingId, userId, fitting.ModelId, fitting.DatasetId,
		labels, fitting.Epochs, fitting.BatchSize, fitting.Accuracy,
	); err != nil {
		if kpgerr.IsForeignKeyViolation(err) {
			return kpgerr.Missing{Table: "models", Identity: fitting.ModelId}
		}
		return err
	}

	// publish on the scoreboard, denormalized so the board survives
	// renames and stays cheap to read.
	if _, err := tx.Exec(
		ctx,
		`
		insert into "scoreboard"
			("fitting_id", "user_id", "username", "model_name", "dataset_id", "labels", "epochs", "accuracy")
		select $1, "u"."user_id", "u"."name", "m"."name", $3, $4, $5, $6
		from "users" as "u"
		inner join "models" as "m" on "m"."user_id" = "u"."user_id"
		where "u"."user_id" = $2 and "m"."model_id" = $7
		on conflict ("fitting_id") do update
		set "epochs" = excluded."epochs",
			"accuracy" = excluded."accuracy",
			"labels" = excluded."labels"
		`,
		fitting.FittingId, userId, fitting.DatasetId,
		labels, fitting.Epochs, fitting.Accuracy, fitting.ModelId,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
