// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Trakt    TraktConfig    `toml:"trakt"`
	TMDB     TMDBConfig     `toml:"tmdb"`
	Sync     SyncConfig     `toml:"sync"`
	Events   EventsConfig   `toml:"events"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"` // empty = stdout only
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// TraktConfig holds the OAuth application credentials for the watch
// history source.
type TraktConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

type TMDBConfig struct {
	APIKey string `toml:"api_key"`
}

type SyncConfig struct {
	Auto     bool     `toml:"auto"`
	Interval Duration `toml:"interval"`
	// BingeThreshold is the per-day episode count above which import
	// timestamps are replaced by air dates. Zero means the default.
	BingeThreshold int `toml:"binge_threshold"`
}

type EventsConfig struct {
	Retention Duration `toml:"retention"`
}

// Duration decodes TOML duration strings like "6h" or "90m".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8585
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/trackarr.db"
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = Duration(6 * time.Hour)
	}
	if cfg.Events.Retention == 0 {
		cfg.Events.Retention = Duration(30 * 24 * time.Hour)
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
// and reports the variables it could not resolve.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		missing = append(missing, varName)
		return match
	})
	return out, missing
}
