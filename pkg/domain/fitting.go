package domain

import (
	"github.com/molstud/moltrain/pkg/utils/cmp"
)

// Fitting is the persisted result of one training run.
type Fitting struct {
	FittingId string
	ModelId   string
	DatasetId string

	// dataset labels the model was trained against.
	Labels []string

	// total epochs this fitting has been trained for, over all (continued) runs.
	Epochs int

	BatchSize int
	Accuracy  float64
}

func (f Fitting) Equal(o Fitting) bool {
	return f.FittingId == o.FittingId &&
		f.ModelId == o.ModelId &&
		f.DatasetId == o.DatasetId &&
		cmp.SliceEq(f.Labels, o.Labels) &&
		f.Epochs == o.Epochs &&
		f.BatchSize == o.BatchSize &&
		f.Accuracy == o.Accuracy
}

// ScoreboardEntry is a fitting published on the shared scoreboard.
type ScoreboardEntry struct {
	FittingId string
	UserId    string
	Username  string
	ModelName string
	DatasetId string
	Labels    []string
	Epochs    int
	Accuracy  float64
}

func (s ScoreboardEntry) Equal(o ScoreboardEntry) bool {
	return s.FittingId == o.FittingId &&
		s.UserId == o.UserId &&
		s.Username == o.Username &&
		s.ModelName == o.ModelName &&
		s.DatasetId == o.DatasetId &&
		cmp.SliceEq(s.Labels, o.Labels) &&
		s.Epochs == o.Epochs &&
		s.Accuracy == o.Accuracy
}
