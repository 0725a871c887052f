package storage

import (
	"context"

	"github.com/molstud/moltrain/pkg/domain"
)

// Interface is the root object over everything moltrain persists.
//
// Implementations: `storage/postgres` (RDB), `storage/mock` (tests).
type Interface interface {
	Users() UserInterface
	Molecules() MoleculeInterface
	Models() ModelInterface
	Fittings() FittingInterface
	Datasets() DatasetInterface
	BaseModels() BaseModelInterface
	Scoreboard() ScoreboardInterface
}

type UserInterface interface {
	// New creates the user's storage.
	//
	// Returns kerr.ErrAlreadyExists when the userId is taken.
	New(ctx context.Context, user domain.User) error

	// Get finds the user.
	//
	// Returns kerr.ErrMissing when there is no such user.
	Get(ctx context.Context, userId string) (domain.User, error)

	// Delete removes the user and everything scoped to them
	// (molecules, models, fittings, scoreboard entries).
	//
	// Deleting an absent user is a no-op.
	Delete(ctx context.Context, userId string) error
}

type MoleculeInterface interface {
	// Upsert stores the molecule in the user's workspace,
	// replacing name and CML when the SMILES code is already there.
	Upsert(ctx context.Context, userId string, mol domain.Molecule) error

	// GetAll returns the user's molecules with their analyses.
	GetAll(ctx context.Context, userId string) ([]domain.Molecule, error)

	// AddAnalysis attaches an analysis result to the molecule.
	//
	// Returns kerr.ErrMissing when the molecule is not in the user's workspace.
	AddAnalysis(ctx context.Context, userId string, smiles string, fittingId string, results domain.AnalysisResult) error
}

type ModelInterface interface {
	// New stores a model configuration and returns its generated modelId.
	//
	// Returns kerr.ErrMissing when baseModelId references no base model.
	New(ctx context.Context, userId string, name string, parameters map[string]any, baseModelId string) (string, error)

	Get(ctx context.Context, userId string, modelId string) (domain.ModelConfig, error)

	GetAll(ctx context.Context, userId string) ([]domain.ModelConfig, error)
}

type FittingInterface interface {
	// Get finds one fitting of the user.
	//
	// Returns kerr.ErrMissing when there is no such fitting.
	Get(ctx context.Context, userId string, fittingId string) (domain.Fitting, error)

	GetAll(ctx context.Context, userId string) ([]domain.Fitting, error)

	// Persist stores the fitting (insert or, for continued trainings, update),
	// associates it with its model, and publishes it on the scoreboard.
	Persist(ctx context.Context, userId string, f domain.Fitting) error
}

type DatasetInterface interface {
	GetAll(ctx context.Context) ([]domain.Dataset, error)

	// Histograms returns the value distribution of each given label.
	//
	// Returns kerr.ErrMissing when the dataset does not exist.
	// Labels the dataset does not provide are left out of the result.
	Histograms(ctx context.Context, datasetId string, labels []string) (map[string]domain.Histogram, error)
}

type BaseModelInterface interface {
	GetAll(ctx context.Context) ([]domain.BaseModel, error)

	// Get finds one base model.
	//
	// Returns kerr.ErrMissing when there is no such base model.
	Get(ctx context.Context, baseModelId string) (domain.BaseModel, error)
}

type ScoreboardInterface interface {
	// Filtered returns the scoreboard entries matching the dataset and
	// trained for exactly the given labels.
	Filtered(ctx context.Context, datasetId string, labels []string) ([]domain.ScoreboardEntry, error)

	// Delete removes one fitting from the scoreboard. No-op when absent.
	Delete(ctx context.Context, fittingId string) error

	// DeleteAll clears the scoreboard.
	DeleteAll(ctx context.Context) error
}
