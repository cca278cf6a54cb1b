// Package config layers tool configuration: TOML file, then .env /
// environment overrides, with command-line flags applied last by the apps.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variable names.
const (
	EnvConfig        = "IRVAUDIT_CONFIG"
	EnvSolverURL     = "IRVAUDIT_SOLVER_URL"
	EnvSolverTimeout = "IRVAUDIT_SOLVER_TIMEOUT"
	EnvStore         = "IRVAUDIT_STORE"
)

// Config holds the settings shared across tools. Zero values mean "feature
// off": no solver URL means bounds only, no store path means nothing recorded.
type Config struct {
	SolverURL            string `toml:"solver_url"`
	SolverTimeoutSeconds int    `toml:"solver_timeout_seconds"`
	StorePath            string `toml:"store_path"`
}

// SolverTimeout returns the configured timeout with a 60 s default.
func (c Config) SolverTimeout() time.Duration {
	if c.SolverTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.SolverTimeoutSeconds) * time.Second
}

// Load reads the TOML file at path (or $IRVAUDIT_CONFIG when path is empty;
// no file at all is fine) and applies .env and environment overrides.
func Load(path string) (Config, error) {
	// Missing .env files are the normal case.
	_ = godotenv.Load()

	var cfg Config
	explicit := path != ""
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if explicit || !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvSolverURL); v != "" {
		cfg.SolverURL = v
	}
	if v := os.Getenv(EnvSolverTimeout); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 0 {
			return cfg, fmt.Errorf("bad %s %q", EnvSolverTimeout, v)
		}
		cfg.SolverTimeoutSeconds = secs
	}
	if v := os.Getenv(EnvStore); v != "" {
		cfg.StorePath = v
	}
	return cfg, nil
}
