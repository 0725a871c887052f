package postgres

import (
	"context"

	"github.com/jackc/pgtype"

	kpool "github.com/molstud/moltrain/pkg/conn/db/postgres/pool"
	"github.com/molstud/moltrain/pkg/domain"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

type pgScoreboard struct {
	pool kpool.Pool
}

var _ storage.ScoreboardInterface = &pgScoreboard{}

func (s *pgScoreboard) Filtered(ctx context.Context, datasetId string, labels []string) ([]domain.ScoreboardEntry, error) {
	wanted, err := asJSONB(labels)
	if err != nil {
		return nil, err
	}

	// label order matters: a fitting for ["homo","lumo"] does not compete
	// with one for ["lumo","homo"].
	rows, err := s.pool.Query(
		ctx,
		`
		select "fitting_id", "user_id", "username", "model_name", "dataset_id", "labels", "epochs", "accuracy"
		from "scoreboard"
		where "dataset_id" = $1 and "labels" = $2
		order by "accuracy" desc
		`,
		datasetId, wanted,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.ScoreboardEntry{}
	for rows.Next() {
		e := domain.ScoreboardEntry{}
		elabels := pgtype.JSONB{}
		if err := rows.Scan(
			&e.FittingId, &e.UserId, &e.Username, &e.ModelName,
			&e.DatasetId, &elabels, &e.Epochs, &e.Accuracy,
		); err != nil {
			return nil, err
		}
		if err := fromJSONB(elabels, &e.Labels); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *pgScoreboard) Delete(ctx context.Context, fittingId string) error {
	_, err := s.pool.Exec(
		ctx,
		`delete from "scoreboard" where "fitting_id" = $1`,
		fittingId,
	)
	return err
}

func (s *pgScoreboard) DeleteAll(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `delete from "scoreboard"`)
	return err
}
