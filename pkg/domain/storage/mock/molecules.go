package mock

import (
	"context"
	"errors"

	"github.com/molstud/moltrain/pkg/domain"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

type MoleculeInterface struct {
	Impl struct {
		Upsert      func(ctx context.Context, userId string, mol domain.Molecule) error
		GetAll      func(ctx context.Context, userId string) ([]domain.Molecule, error)
		AddAnalysis func(ctx context.Context, userId string, smiles string, fittingId string, results domain.AnalysisResult) error
	}

	Calls struct {
		Upsert CallLog[struct {
			UserId   string
			Molecule domain.Molecule
		}]
		GetAll      CallLog[string]
		AddAnalysis CallLog[struct {
			UserId    string
			Smiles    string
			FittingId string
			Results   domain.AnalysisResult
		}]
	}
}

func NewMoleculeInterface() *MoleculeInterface {
	return &MoleculeInterface{}
}

var _ storage.MoleculeInterface = &MoleculeInterface{}

func (m *MoleculeInterface) Upsert(ctx context.Context, userId string, mol domain.Molecule) error {
	m.Calls.Upsert = append(m.Calls.Upsert, struct {
		UserId   string
		Molecule domain.Molecule
	}{UserId: userId, Molecule: mol})
	if m.Impl.Upsert != nil {
		return m.Impl.Upsert(ctx, userId, mol)
	}
	panic(errors.New("it should not be called"))
}

func (m *MoleculeInterface) GetAll(ctx context.Context, userId string) ([]domain.Molecule, error) {
	m.Calls.GetAll = append(m.Calls.GetAll, userId)
	if m.Impl.GetAll != nil {
		return m.Impl.GetAll(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}

func (m *MoleculeInterface) AddAnalysis(ctx context.Context, userId string, smiles string, fittingId string, results domain.AnalysisResult) error {
	m.Calls.AddAnalysis = append(m.Calls.AddAnalysis, struct {
		UserId    string
		Smiles    string
		FittingId string
		Results   domain.AnalysisResult
	}{UserId: userId, Smiles: smiles, FittingId: fittingId, Results: results})
	if m.Impl.AddAnalysis != nil {
		return m.Impl.AddAnalysis(ctx, userId, smiles, fittingId, results)
	}
	panic(errors.New("it should not be called"))
}
