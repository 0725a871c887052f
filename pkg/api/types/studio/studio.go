// Package studio defines the REST payloads of the moltrain API.
package studio

import (
	"github.com/molstud/moltrain/pkg/domain"
	"github.com/molstud/moltrain/pkg/utils/slices"
)

type LoginRequest struct {
	Username string `json:"username"`
}

type LoginResponse struct {
	UserId string `json:"userId"`
	Token  string `json:"token"`
}

type Molecule struct {
	SMILES   string                        `json:"smiles"`
	Name     string                        `json:"name"`
	CML      string                        `json:"cml"`
	Analyses map[string]map[string]float64 `json:"analyses"`
}

type MoleculeUpsert struct {
	SMILES string `json:"smiles"`
	Name   string `json:"name"`
	CML    string `json:"cml"`
}

func ComposeMolecule(m domain.Molecule) Molecule {
	analyses := map[string]map[string]float64{}
	for fittingId, r := range m.Analyses {
		analyses[fittingId] = r
	}
	return Molecule{
		SMILES: m.SMILES, Name: m.Name, CML: m.CML, Analyses: analyses,
	}
}

type Model struct {
	ModelId     string         `json:"id"`
	Name        string         `json:"name"`
	BaseModelId string         `json:"baseModelId"`
	Parameters  map[string]any `json:"parameters"`
	FittingIds  []string       `json:"fittingIds"`
}

type ModelNew struct {
	Name        string         `json:"name"`
	BaseModelId string         `json:"baseModelId"`
	Parameters  map[string]any `json:"parameters"`
}

type ModelCreated struct {
	ModelId string `json:"id"`
}

func ComposeModel(m domain.ModelConfig) Model {
	fittingIds := m.FittingIds
	if fittingIds == nil {
		fittingIds = []string{}
	}
	return Model{
		ModelId:     m.ModelId,
		Name:        m.Name,
		BaseModelId: m.BaseModelId,
		Parameters:  m.Parameters,
		FittingIds:  fittingIds,
	}
}

type BaseModel struct {
	BaseModelId  string         `json:"id"`
	Name         string         `json:"name"`
	Kind         string         `json:"kind"`
	TaskType     string         `json:"taskType"`
	ImagePath    string         `json:"image,omitempty"`
	LossFunction string         `json:"lossFunction"`
	Optimizer    string         `json:"optimizer"`
	Parameters   map[string]any `json:"parameters"`
	Metrics      []string       `json:"metrics"`
}

func ComposeBaseModel(bm domain.BaseModel) BaseModel {
	metrics := bm.Metrics
	if metrics == nil {
		metrics = []string{}
	}
	return BaseModel{
		BaseModelId:  bm.BaseModelId,
		Name:         bm.Name,
		Kind:         string(bm.Kind),
		TaskType:     taskTypeOf(bm),
		ImagePath:    bm.ImagePath,
		LossFunction: bm.LossFunction,
		Optimizer:    bm.Optimizer,
		Parameters:   bm.Parameters,
		Metrics:      metrics,
	}
}

// taskTypeOf derives what the architecture can be trained for.
//
// Graph networks regress molecular properties. Sequential networks are
// classifiers when their output layer has several units, regressors when
// it narrows down to one.
func taskTypeOf(bm domain.BaseModel) string {
	if bm.Kind == domain.SchNet {
		return "regression"
	}

	layers, ok := bm.Parameters["layers"].([]any)
	if !ok || len(layers) == 0 {
		return "regression"
	}
	last, ok := layers[len(layers)-1].(map[string]any)
	if !ok {
		return "regression"
	}
	if units, ok := last["units"].(float64); ok && 2 <= units {
		return "classification"
	}
	return "regression"
}

type Fitting struct {
	FittingId string   `json:"id"`
	ModelId   string   `json:"modelId"`
	DatasetId string   `json:"datasetId"`
	Labels    []string `json:"labels"`
	Epochs    int      `json:"epochs"`
	BatchSize int      `json:"batchSize"`
	Accuracy  float64  `json:"accuracy"`
}

func ComposeFitting(f domain.Fitting) Fitting {
	labels := f.Labels
	if labels == nil {
		labels = []string{}
	}
	return Fitting{
		FittingId: f.FittingId,
		ModelId:   f.ModelId,
		DatasetId: f.DatasetId,
		Labels:    labels,
		Epochs:    f.Epochs,
		BatchSize: f.BatchSize,
		Accuracy:  f.Accuracy,
	}
}

type Dataset struct {
	DatasetId        string   `json:"id"`
	Name             string   `json:"name"`
	Size             int      `json:"size"`
	LabelDescriptors []string `json:"labelDescriptors"`
}

func ComposeDataset(d domain.Dataset) Dataset {
	descriptors := d.LabelDescriptors
	if descriptors == nil {
		descriptors = []string{}
	}
	return Dataset{
		DatasetId:        d.DatasetId,
		Name:             d.Name,
		Size:             d.Size,
		LabelDescriptors: descriptors,
	}
}

type Histogram struct {
	BinEdges []float64 `json:"binEdges"`
	Buckets  []int     `json:"buckets"`
}

func ComposeHistograms(hs map[string]domain.Histogram) map[string]Histogram {
	out := map[string]Histogram{}
	for label, h := range hs {
		out[label] = Histogram{BinEdges: h.BinEdges, Buckets: h.Buckets}
	}
	return out
}

type ScoreboardEntry struct {
	FittingId string   `json:"id"`
	UserId    string   `json:"userId"`
	Username  string   `json:"username"`
	ModelName string   `json:"modelName"`
	DatasetId string   `json:"datasetId"`
	Labels    []string `json:"labels"`
	Epochs    int      `json:"epochs"`
	Accuracy  float64  `json:"accuracy"`
}

func ComposeScoreboard(entries []domain.ScoreboardEntry) []ScoreboardEntry {
	return slices.Map(entries, func(e domain.ScoreboardEntry) ScoreboardEntry {
		return ScoreboardEntry{
			FittingId: e.FittingId,
			UserId:    e.UserId,
			Username:  e.Username,
			ModelName: e.ModelName,
			DatasetId: e.DatasetId,
			Labels:    e.Labels,
			Epochs:    e.Epochs,
			Accuracy:  e.Accuracy,
		}
	})
}

type TrainRequest struct {
	DatasetId string   `json:"datasetId"`
	ModelId   string   `json:"modelId"`
	Labels    []string `json:"labels"`
	Epochs    int      `json:"epochs"`
	BatchSize int      `json:"batchSize"`
}

type TrainContinueRequest struct {
	FittingId string `json:"fittingId"`
	Epochs    int    `json:"epochs"`
}

// TrainAccepted reports how many epochs the admitted training aims for in
// total, including epochs of a continued fitting.
type TrainAccepted struct {
	Epochs int `json:"epochs"`
}

type AnalyzeRequest struct {
	FittingId string `json:"fittingId"`
	SMILES    string `json:"smiles"`
}

type Molecule3DRequest struct {
	SMILES string `json:"smiles"`
}

type Molecule3DResponse struct {
	CML string `json:"cml"`
}
