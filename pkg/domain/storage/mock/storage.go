// Package mock provides hand-written mockups of the storage interfaces.
//
// Each mockup records its calls and delegates to the function set in Impl,
// panicking when a method is reached that the test did not expect.
package mock

import (
	"github.com/molstud/moltrain/pkg/domain/storage"
)

// Storage aggregates one mockup per storage interface.
type Storage struct {
	UserMock       *UserInterface
	MoleculeMock   *MoleculeInterface
	ModelMock      *ModelInterface
	FittingMock    *FittingInterface
	DatasetMock    *DatasetInterface
	BaseModelMock  *BaseModelInterface
	ScoreboardMock *ScoreboardInterface
}

func New() *Storage {
	return &Storage{
		UserMock:       NewUserInterface(),
		MoleculeMock:   NewMoleculeInterface(),
		ModelMock:      NewModelInterface(),
		FittingMock:    NewFittingInterface(),
		DatasetMock:    NewDatasetInterface(),
		BaseModelMock:  NewBaseModelInterface(),
		ScoreboardMock: NewScoreboardInterface(),
	}
}

var _ storage.Interface = &Storage{}

func (s *Storage) Users() storage.UserInterface            { return s.UserMock }
func (s *Storage) Molecules() storage.MoleculeInterface    { return s.MoleculeMock }
func (s *Storage) Models() storage.ModelInterface          { return s.ModelMock }
func (s *Storage) Fittings() storage.FittingInterface      { return s.FittingMock }
func (s *Storage) Datasets() storage.DatasetInterface      { return s.DatasetMock }
func (s *Storage) BaseModels() storage.BaseModelInterface  { return s.BaseModelMock }
func (s *Storage) Scoreboard() storage.ScoreboardInterface { return s.ScoreboardMock }
