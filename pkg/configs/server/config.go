// Package server holds the configuration of the moltrain server process.
package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("server config is invalid")

// Duration reads "300ms"-style values from yaml.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	raw := ""
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

type ServerConfig struct {
	// Port the API listens on.
	Port int32 `yaml:"port"`

	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Session  SessionConfig  `yaml:"session"`
	Training TrainingConfig `yaml:"training"`
}

type DatabaseConfig struct {
	// postgres URI.
	URI string `yaml:"uri"`
}

type AuthConfig struct {
	// key signing session tokens.
	SignKey string `yaml:"signKey"`

	// how long an issued token stays valid.
	TokenLifetime Duration `yaml:"tokenLifetime"`
}

type SessionConfig struct {
	// interval of the per-session delivery loop.
	Tick Duration `yaml:"tick"`

	// inactivity threshold after which a session is evicted.
	IdleLimit Duration `yaml:"idleLimit"`
}

type TrainingConfig struct {
	// engine selection: "sim" is the only engine for now.
	Engine string `yaml:"engine"`

	// pace of the simulated engine.
	EpochLength Duration `yaml:"epochLength"`
}

func LoadServerConfig(filepath string) (*ServerConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*ServerConfig, error) {
	out := ServerConfig{
		Port: 8080,
		Auth: AuthConfig{
			TokenLifetime: Duration(12 * time.Hour),
		},
		Session: SessionConfig{
			Tick:      Duration(300 * time.Millisecond),
			IdleLimit: Duration(2 * time.Hour),
		},
		Training: TrainingConfig{
			Engine:      "sim",
			EpochLength: Duration(250 * time.Millisecond),
		},
	}
	if err := yaml.Unmarshal(conf, &out); err != nil {
		return nil, err
	}

	if out.Database.URI == "" {
		return nil, fmt.Errorf("%w: database.uri is required", ErrInvalidConfig)
	}
	if out.Auth.SignKey == "" {
		return nil, fmt.Errorf("%w: auth.signKey is required", ErrInvalidConfig)
	}
	if out.Training.Engine != "sim" {
		return nil, fmt.Errorf("%w: unknown training.engine: %s", ErrInvalidConfig, out.Training.Engine)
	}

	return &out, nil
}
