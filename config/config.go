// Package config loads the application configuration shared by the CLI and
// the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete application configuration.
type Config struct {
	Regdata string        `json:"regdata" yaml:"regdata"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level   string `json:"level" yaml:"level"` // debug|info|warn|error
	Console bool   `json:"console" yaml:"console"`
}

// ServerConfig contains HTTP API parameters.
type ServerConfig struct {
	Addr           string   `json:"addr" yaml:"addr"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// JournalConfig selects the lineage journal sink.
type JournalConfig struct {
	Type     string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	RunsFile string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	DBPath   string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Regdata == "" {
		return fmt.Errorf("regdata path is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug|info|warn|error")
	}
	if c.Server.Addr == "" || !strings.Contains(c.Server.Addr, ":") {
		return fmt.Errorf("server.addr must be a host:port address")
	}
	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.RunsFile == "" {
			return fmt.Errorf("journal.runs_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Regdata: "./regdata",
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Journal: JournalConfig{
			Type: "none",
		},
	}
}
