package config

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Env configures the taskpilot CLI: where the assistant's external API
// listens. The port is deliberately configurable; deployments differ.
type Env struct {
	APIHost  string `envconfig:"API_HOST" default:"localhost"`
	APIPort  string `envconfig:"API_PORT" default:"3002"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

const namespace = "TASKPILOT"

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

// BaseURL is the root of the assistant API, without the /api prefix.
func (e *Env) BaseURL() string {
	return "http://" + net.JoinHostPort(e.APIHost, e.APIPort)
}

// SimEnv configures the taskpilot-sim daemon.
type SimEnv struct {
	Env      string `envconfig:"ENV" default:"local"`
	HTTPHost string `envconfig:"HTTP_HOST" default:""`
	HTTPPort string `envconfig:"HTTP_PORT" default:"3002"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`

	// Fixtures is an optional YAML file seeding modes, profiles and MCPs.
	// When empty the built-in defaults are used.
	Fixtures string `envconfig:"FIXTURES"`

	// StepInterval is the simulated work time between task status
	// transitions. WaitTimeout bounds wait_for_completion requests.
	StepInterval time.Duration `envconfig:"STEP_INTERVAL" default:"500ms"`
	WaitTimeout  time.Duration `envconfig:"WAIT_TIMEOUT" default:"120s"`
}

const simNamespace = "TASKPILOT_SIM"

func LoadSimEnv() (*SimEnv, error) {
	var env SimEnv
	if err := envconfig.Process(simNamespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func slogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelDebug
	}
	return level
}

func (e *Env) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelInfo
	}
	return slogLevel(e.LogLevel)
}

func (e *SimEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelDebug
	}
	return slogLevel(e.LogLevel)
}
