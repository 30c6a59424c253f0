package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
host = "127.0.0.1"
port = 9000
log_level = "debug"

[database]
path = "/tmp/test.db"

[trakt]
client_id = "id"
client_secret = "secret"

[tmdb]
api_key = "key"

[sync]
auto = true
interval = "90m"
binge_threshold = 6

[events]
retention = "168h"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, "id", cfg.Trakt.ClientID)
	assert.True(t, cfg.Sync.Auto)
	assert.Equal(t, 90*time.Minute, cfg.Sync.Interval.Std())
	assert.Equal(t, 6, cfg.Sync.BingeThreshold)
	assert.Equal(t, 7*24*time.Hour, cfg.Events.Retention.Std())
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[trakt]
client_id = "id"
client_secret = "secret"

[tmdb]
api_key = "key"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8585, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "./data/trackarr.db", cfg.Database.Path)
	assert.Equal(t, 6*time.Hour, cfg.Sync.Interval.Std())
	assert.Equal(t, 30*24*time.Hour, cfg.Events.Retention.Std())
	assert.Equal(t, 0, cfg.Sync.BingeThreshold)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_TRAKT_ID", "env-id")
	t.Setenv("TEST_TRAKT_SECRET", "env-secret")

	path := writeConfig(t, `
[trakt]
client_id = "${TEST_TRAKT_ID}"
client_secret = "${TEST_TRAKT_SECRET}"

[tmdb]
api_key = "key"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-id", cfg.Trakt.ClientID)
	assert.Equal(t, "env-secret", cfg.Trakt.ClientSecret)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	path := writeConfig(t, `
[trakt]
client_id = "${TRACKARR_TEST_DEFINITELY_UNSET}"
client_secret = "secret"
`)

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"TRACKARR_TEST_DEFINITELY_UNSET"}, cfgErr.Missing)
	assert.Contains(t, cfgErr.Error(), "TRACKARR_TEST_DEFINITELY_UNSET")
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8585, LogLevel: "info"},
			Trakt:  TraktConfig{ClientID: "id", ClientSecret: "secret"},
			TMDB:   TMDBConfig{APIKey: "key"},
			Sync:   SyncConfig{Auto: true, Interval: Duration(6 * time.Hour)},
		}
	}

	assert.Empty(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "verbose" }, "server.log_level"},
		{"missing client id", func(c *Config) { c.Trakt.ClientID = "" }, "trakt.client_id"},
		{"missing client secret", func(c *Config) { c.Trakt.ClientSecret = "" }, "trakt.client_secret"},
		{"missing api key", func(c *Config) { c.TMDB.APIKey = "" }, "tmdb.api_key"},
		{"interval too short", func(c *Config) { c.Sync.Interval = Duration(time.Second) }, "sync.interval"},
		{"negative binge threshold", func(c *Config) { c.Sync.BingeThreshold = -1 }, "sync.binge_threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			errs := cfg.Validate()
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.want)
		})
	}
}

func TestWriteDefault(t *testing.T) {
	// Parent directories are created as needed.
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[server]")
	assert.Contains(t, string(data), "[trakt]")
}
