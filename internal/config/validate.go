package config

import (
	"fmt"
	"time"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.Trakt.ClientID == "" {
		errs = append(errs, "trakt.client_id: required")
	}
	if c.Trakt.ClientSecret == "" {
		errs = append(errs, "trakt.client_secret: required")
	}
	if c.TMDB.APIKey == "" {
		errs = append(errs, "tmdb.api_key: required")
	}

	if c.Sync.Auto && c.Sync.Interval.Std() < time.Minute {
		errs = append(errs, fmt.Sprintf("sync.interval: must be at least 1m when auto sync is enabled, got %s", c.Sync.Interval.Std()))
	}
	if c.Sync.BingeThreshold < 0 {
		errs = append(errs, fmt.Sprintf("sync.binge_threshold: must not be negative, got %d", c.Sync.BingeThreshold))
	}

	return errs
}
