// Package events defines the wire format of live notifications.
package events

import (
	"github.com/molstud/moltrain/pkg/domain"
)

// Message is one notification as it travels over the websocket.
type Message struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

type Started struct {
	Epochs int `json:"epochs"`
}

type Update struct {
	Epoch   int                `json:"epoch"`
	Metrics map[string]float64 `json:"metrics"`
}

type Done struct {
	FittingId     string  `json:"fittingId"`
	EpochsTrained int     `json:"epochsTrained"`
	Accuracy      float64 `json:"accuracy"`
}

func Compose(ev domain.Event) Message {
	m := Message{Kind: string(ev.Kind)}

	switch p := ev.Payload.(type) {
	case domain.StartedPayload:
		m.Payload = Started{Epochs: p.Epochs}
	case domain.UpdatePayload:
		m.Payload = Update{Epoch: p.Epoch, Metrics: p.Metrics}
	case domain.DonePayload:
		m.Payload = Done{
			FittingId:     p.FittingId,
			EpochsTrained: p.EpochsTrained,
			Accuracy:      p.Accuracy,
		}
	}
	return m
}
