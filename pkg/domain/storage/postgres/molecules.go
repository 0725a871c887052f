package postgres

import (
	"context"

	"github.com/jackc/pgtype"

	kpool "github.com/molstud/moltrain/pkg/conn/db/postgres/pool"
	"github.com/molstud/moltrain/pkg/domain"
	kpgerr "github.com/molstud/moltrain/pkg/domain/errors/dberrors/postgres"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

type pgMolecules struct {
	pool kpool.Pool
}

var _ storage.MoleculeInterface = &pgMolecules{}

func (m *pgMolecules) Upsert(ctx context.Context, userId string, mol domain.Molecule) error {
	_, err := m.pool.Exec(
		ctx,
		`
		insert into "molecules" ("user_id", "smiles", "name", "cml")
		values ($1, $2, $3, $4)
		on conflict ("user_id", "smiles") do update
		set "name" = excluded."name", "cml" = excluded."cml"
		`,
		userId, mol.SMILES, mol.Name, mol.CML,
	)
	if kpgerr.IsForeignKeyViolation(err) {
		return kpgerr.Missing{Table: "users", Identity: userId}
	}
	return err
}

func (m *pgMolecules) GetAll(ctx context.Context, userId string) ([]domain.Molecule, error) {
	rows, err := m.pool.Query(
		ctx,
		`select "smiles", "name", "cml" from "molecules" where "user_id" = $1`,
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mols := []domain.Molecule{}
	index := map[string]int{}
	for rows.Next() {
		mol := domain.Molecule{Analyses: map[string]domain.AnalysisResult{}}
		if err := rows.Scan(&mol.SMILES, &mol.Name, &mol.CML); err != nil {
			return nil, err
		}
		index[mol.SMILES] = len(mols)
		mols = append(mols, mol)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	arows, err := m.pool.Query(
		ctx,
		`select "smiles", "fitting_id", "results" from "analyses" where "user_id" = $1`,
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer arows.Close()

	for arows.Next() {
		var smiles, fittingId string
		results := pgtype.JSONB{}
		if err := arows.Scan(&smiles, &fittingId, &results); err != nil {
			return nil, err
		}

		i, ok := index[smiles]
		if !ok {
			continue
		}
		r := domain.AnalysisResult{}
		if err := fromJSONB(results, &r); err != nil {
			return nil, err
		}
		mols[i].Analyses[fittingId] = r
	}
	if err := arows.Err(); err != nil {
		return nil, err
	}

	return mols, nil
}

func (m *pgMolecules) AddAnalysis(ctx context.Context, userId string, smiles string, fittingId string, results domain.AnalysisResult) error {
	j, err := asJSONB(results)
	if err != nil {
		return err
	}

	_, err = m.pool.Exec(
		ctx,
		`
		insert into "analyses" ("user_id", "smiles", "fitting_id", "results")
		values ($1, $2, $3, $4)
		on conflict ("user_id", "smiles", "fitting_id") do update
		set "results" = excluded."results"
		`,
		userId, smiles, fittingId, j,
	)
	if kpgerr.IsForeignKeyViolation(err) {
		return kpgerr.Missing{Table: "molecules", Identity: smiles}
	}
	return err
}
