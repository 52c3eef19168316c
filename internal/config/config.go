// Package config manages the chorus configuration file and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all chorus configuration.
type Config struct {
	RPC       RPCConfig       `toml:"rpc"`
	Task      TaskConfig      `toml:"task"`
	Workspace WorkspaceConfig `toml:"workspace"`
	Logging   LoggingConfig   `toml:"logging"`
}

// RPCConfig points at the compute network node and paces status polls.
type RPCConfig struct {
	Address         string `toml:"address"`
	Port            int    `toml:"port"`
	Datadir         string `toml:"datadir"`
	PollIntervalMS  int    `toml:"poll_interval_ms"`
	MaxPollFailures int    `toml:"max_poll_failures"`
}

// PollInterval returns the poll pacing as a duration.
func (c RPCConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// TaskConfig carries the static descriptor fields.
type TaskConfig struct {
	Name              string  `toml:"name"`
	Subtasks          int     `toml:"subtasks"`
	Bid               float64 `toml:"bid"`
	TimeoutMin        int     `toml:"timeout_min"`
	SubtaskTimeoutMin int     `toml:"subtask_timeout_min"`
}

// WorkspaceConfig controls where per-run workspaces are created.
type WorkspaceConfig struct {
	Root string `toml:"root"`
	Keep bool   `toml:"keep"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RPC: RPCConfig{
			Address:         "127.0.0.1",
			Port:            61000,
			PollIntervalMS:  2000,
			MaxPollFailures: 3,
		},
		Task: TaskConfig{
			Name:              "chorus",
			Subtasks:          6,
			Bid:               1,
			TimeoutMin:        10,
			SubtaskTimeoutMin: 10,
		},
		Workspace: WorkspaceConfig{
			Root: "", // empty means the OS temp dir
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads <home>/config.toml over the defaults. A missing file is
// not an error; defaults apply.
func Load() (Config, error) {
	cfg := Default()
	path := filepath.Join(Home(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to <home>/config.toml.
func Save(cfg Config) error {
	path := filepath.Join(Home(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Home returns the chorus data directory: $CHORUS_HOME or ~/.chorus.
func Home() string {
	if env := os.Getenv("CHORUS_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chorus")
}
