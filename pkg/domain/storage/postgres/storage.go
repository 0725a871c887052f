// Package postgres is the RDB-backed implementation of the storage interfaces.
package postgres

import (
	"encoding/json"

	"github.com/jackc/pgtype"

	kpool "github.com/molstud/moltrain/pkg/conn/db/postgres/pool"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

type pgStorage struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) storage.Interface {
	return &pgStorage{pool: pool}
}

func (s *pgStorage) Users() storage.UserInterface           { return &pgUsers{pool: s.pool} }
func (s *pgStorage) Molecules() storage.MoleculeInterface   { return &pgMolecules{pool: s.pool} }
func (s *pgStorage) Models() storage.ModelInterface         { return &pgModels{pool: s.pool} }
func (s *pgStorage) Fittings() storage.FittingInterface     { return &pgFittings{pool: s.pool} }
func (s *pgStorage) Datasets() storage.DatasetInterface     { return &pgDatasets{pool: s.pool} }
func (s *pgStorage) BaseModels() storage.BaseModelInterface { return &pgBaseModels{pool: s.pool} }
func (s *pgStorage) Scoreboard() storage.ScoreboardInterface {
	return &pgScoreboard{pool: s.pool}
}

// asJSONB encodes v for a jsonb column.
func asJSONB(v any) (pgtype.JSONB, error) {
	j := pgtype.JSONB{}
	if err := j.Set(v); err != nil {
		return pgtype.JSONB{}, err
	}
	return j, nil
}

// fromJSONB decodes a jsonb column into dst (a pointer).
func fromJSONB(j pgtype.JSONB, dst any) error {
	if j.Status != pgtype.Present {
		return nil
	}
	return json.Unmarshal(j.Bytes, dst)
}
