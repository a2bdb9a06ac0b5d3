package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "./regdata", cfg.Regdata)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "none", cfg.Journal.Type)
}

func TestLoadFromFileYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "config.yaml", `
regdata: /data/regdata
log:
  level: debug
journal:
  type: sqlite
  db_path: /var/lib/drcsa/runs.db
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/regdata", cfg.Regdata)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, "/var/lib/drcsa/runs.db", cfg.Journal.DBPath)
	// Unspecified sections keep defaults.
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFromFileJSON(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "config.json",
		`{"regdata": "/data/regdata", "server": {"addr": ":9090"}}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing_regdata",
			mutate:  func(c *Config) { c.Regdata = "" },
			wantErr: "regdata",
		},
		{
			name:    "bad_log_level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "log.level",
		},
		{
			name:    "addr_without_port",
			mutate:  func(c *Config) { c.Server.Addr = "localhost" },
			wantErr: "server.addr",
		},
		{
			name:    "unknown_journal_type",
			mutate:  func(c *Config) { c.Journal.Type = "postgres" },
			wantErr: "journal.type",
		},
		{
			name:    "csv_without_runs_file",
			mutate:  func(c *Config) { c.Journal.Type = "csv" },
			wantErr: "runs_file",
		},
		{
			name:    "sqlite_without_db_path",
			mutate:  func(c *Config) { c.Journal.Type = "sqlite" },
			wantErr: "db_path",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
