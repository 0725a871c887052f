package engine

import (
	"context"
)

// Params describe one training run.
type Params struct {
	UserId    string
	DatasetId string
	ModelId   string

	// FittingId is set when continuing a previous fitting. Empty for fresh runs.
	FittingId string

	Labels    []string
	Epochs    int
	BatchSize int

	// InitialEpochs is how many epochs the fitting had already been trained
	// for before this run. 0 for fresh runs. Progress reports count from here.
	InitialEpochs int
}

// Callbacks receive the run's lifecycle.
//
// OnProgress fires after each epoch. Exactly one of OnComplete or OnError
// fires at the end, unless the run was canceled.
type Callbacks struct {
	OnProgress func(epoch int, metrics map[string]float64)
	OnComplete func(fittingId string, epochsTrained int, accuracy float64)
	OnError    func(err error)
}

// Engine performs trainings.
type Engine interface {
	// RunTraining blocks until the training ends.
	//
	// When ctx is canceled it returns as soon as the current epoch allows,
	// without invoking OnComplete or OnError.
	RunTraining(ctx context.Context, params Params, cb Callbacks)
}
