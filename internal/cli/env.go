package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Env carries the settings every command accepts from the environment.
// Flags override these when both are given.
type Env struct {
	Addr        string `env:"BURETTE_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"BURETTE_METRICS_ADDR"`
	Store       string `env:"BURETTE_STORE" envDefault:"memory"`
	Shelf       string `env:"BURETTE_SHELF"`
	LogLevel    string `env:"BURETTE_LOG_LEVEL" envDefault:"info"`
}

// LoadEnv parses the BURETTE_* environment variables.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the textual log level to slog's scale.
func (e Env) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(e.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", e.LogLevel)
}
