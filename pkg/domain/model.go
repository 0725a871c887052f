package domain

import (
	"fmt"

	"github.com/molstud/moltrain/pkg/utils/cmp"
)

// BaseModelKind is the architecture family of a base model.
type BaseModelKind string

const (
	// plain sequential network. Task type depends on the last layer.
	Sequential BaseModelKind = "sequential"

	// SchNet-like graph network. Always a regression model.
	SchNet BaseModelKind = "schnet"
)

func AsBaseModelKind(s string) (BaseModelKind, error) {
	switch s {
	case string(Sequential):
		return Sequential, nil
	case string(SchNet):
		return SchNet, nil
	default:
		return "", fmt.Errorf("'%s' is not BaseModelKind", s)
	}
}

// BaseModel is a predefined model architecture users derive their models from.
type BaseModel struct {
	BaseModelId  string
	Name         string
	Kind         BaseModelKind
	ImagePath    string
	LossFunction string
	Optimizer    string

	// architecture parameters. For Sequential models this holds "layers";
	// for SchNet it holds embedding/readout/depth settings.
	Parameters map[string]any

	Metrics []string
}

// ModelConfig is a user-defined model derived from a BaseModel.
type ModelConfig struct {
	ModelId     string
	Name        string
	BaseModelId string

	// user-chosen hyperparameters, stored as given.
	Parameters map[string]any

	// fittings trained from this model.
	FittingIds []string
}

func (m ModelConfig) Equal(o ModelConfig) bool {
	return m.ModelId == o.ModelId &&
		m.Name == o.Name &&
		m.BaseModelId == o.BaseModelId &&
		cmp.SliceContentEq(m.FittingIds, o.FittingIds)
}
