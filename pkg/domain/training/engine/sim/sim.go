// Package sim is a stand-in training engine.
//
// It produces a plausible-looking convergence curve without touching any ML
// runtime, so the rest of the pipeline can be run and demoed on a laptop.
package sim

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/molstud/moltrain/pkg/domain/training/engine"
)

type Engine struct {
	epochLength  time.Duration
	newFittingId func() string
}

type Option func(*Engine) *Engine

// WithEpochLength sets how long one simulated epoch takes. Default: 250ms.
func WithEpochLength(d time.Duration) Option {
	return func(e *Engine) *Engine {
		e.epochLength = d
		return e
	}
}

func New(options ...Option) *Engine {
	e := &Engine{
		epochLength:  250 * time.Millisecond,
		newFittingId: uuid.NewString,
	}
	for _, opt := range options {
		e = opt(e)
	}
	return e
}

func (e *Engine) RunTraining(ctx context.Context, params engine.Params, cb engine.Callbacks) {
	if params.Epochs <= 0 {
		cb.OnError(fmt.Errorf("cannot train for %d epochs", params.Epochs))
		return
	}

	fittingId := params.FittingId
	if fittingId == "" {
		fittingId = e.newFittingId()
	}

	accuracy := 0.0
	timer := time.NewTimer(e.epochLength)
	defer timer.Stop()

	for epoch := 1; epoch <= params.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			timer.Reset(e.epochLength)
		}

		total := params.InitialEpochs + epoch
		loss := lossAt(params.UserId, fittingId, total)
		accuracy = 1 - loss

		cb.OnProgress(total, map[string]float64{
			"loss":     loss,
			"accuracy": accuracy,
		})
	}

	cb.OnComplete(fittingId, params.InitialEpochs+params.Epochs, accuracy)
}

// lossAt is a decaying curve with per-run jitter, deterministic in its inputs
// so that continuing a fitting picks the curve up where it left off.
func lossAt(userId string, fittingId string, epoch int) float64 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s/%s/%d", userId, fittingId, epoch)
	jitter := float64(h.Sum32()%1000) / 1000.0 // [0, 1)

	base := math.Exp(-0.15 * float64(epoch))
	return base * (0.8 + 0.2*jitter)
}
