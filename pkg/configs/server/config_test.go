package server_test

import (
	"errors"
	"testing"
	"time"

	"github.com/molstud/moltrain/pkg/configs/server"
)

func TestUnmarshal(t *testing.T) {

	t.Run("it reads a full config", func(t *testing.T) {
		conf := []byte(`
port: 9090
database:
    uri: "postgres://moltrain:secret@db:5432/moltrain"
auth:
    signKey: "test-sign-key"
    tokenLifetime: "1h"
session:
    tick: "100ms"
    idleLimit: "30m"
training:
    engine: "sim"
    epochLength: "50ms"
`)
		got, err := server.Unmarshal(conf)
		if err != nil {
			t.Fatalf("Unmarshal failed: %s", err)
		}

		if got.Port != 9090 {
			t.Errorf("port = %d, expected 9090", got.Port)
		}
		if got.Database.URI != "postgres://moltrain:secret@db:5432/moltrain" {
			t.Errorf("unexpected database uri: %s", got.Database.URI)
		}
		if got.Auth.SignKey != "test-sign-key" {
			t.Errorf("unexpected sign key: %s", got.Auth.SignKey)
		}
		if got.Auth.TokenLifetime.AsDuration() != time.Hour {
			t.Errorf("unexpected token lifetime: %s", got.Auth.TokenLifetime.AsDuration())
		}
		if got.Session.Tick.AsDuration() != 100*time.Millisecond {
			t.Errorf("unexpected tick: %s", got.Session.Tick.AsDuration())
		}
		if got.Session.IdleLimit.AsDuration() != 30*time.Minute {
			t.Errorf("unexpected idle limit: %s", got.Session.IdleLimit.AsDuration())
		}
		if got.Training.EpochLength.AsDuration() != 50*time.Millisecond {
			t.Errorf("unexpected epoch length: %s", got.Training.EpochLength.AsDuration())
		}
	})

	t.Run("it falls back to defaults for omitted values", func(t *testing.T) {
		conf := []byte(`
database:
    uri: "postgres://localhost:5432/moltrain"
auth:
    signKey: "k"
`)
		got, err := server.Unmarshal(conf)
		if err != nil {
			t.Fatalf("Unmarshal failed: %s", err)
		}

		if got.Port != 8080 {
			t.Errorf("default port = %d, expected 8080", got.Port)
		}
		if got.Session.Tick.AsDuration() != 300*time.Millisecond {
			t.Errorf("default tick = %s, expected 300ms", got.Session.Tick.AsDuration())
		}
		if got.Session.IdleLimit.AsDuration() != 2*time.Hour {
			t.Errorf("default idle limit = %s, expected 2h", got.Session.IdleLimit.AsDuration())
		}
		if got.Training.Engine != "sim" {
			t.Errorf("default engine = %s, expected sim", got.Training.Engine)
		}
	})

	for name, testcase := range map[string]string{
		"it rejects a config without database.uri": `
auth:
    signKey: "k"
`,
		"it rejects a config without auth.signKey": `
database:
    uri: "postgres://localhost:5432/moltrain"
`,
		"it rejects an unknown training engine": `
database:
    uri: "postgres://localhost:5432/moltrain"
auth:
    signKey: "k"
training:
    engine: "gpu-cluster"
`,
		"it rejects a malformed duration": `
database:
    uri: "postgres://localhost:5432/moltrain"
auth:
    signKey: "k"
session:
    tick: "soon"
`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := server.Unmarshal([]byte(testcase)); !errors.Is(err, server.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
