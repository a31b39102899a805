package config

import (
	"strconv"
	"time"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// LoadWithOverrides loads configuration using the cascading strategy:
// defaults, then environment variables, then command line overrides (nil
// for none). Validation runs once, after the overrides, so a flag can
// supply a value the environment is missing.
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(l.config, overrides)
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	DatabaseURL    *string
	DBQueryTimeout *time.Duration
	DBWriteTimeout *time.Duration

	Addr *string

	Debug *bool
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.DatabaseURL != nil {
		config.Database.URL = *overrides.DatabaseURL
	}
	if overrides.DBQueryTimeout != nil {
		config.Database.QueryTimeout = *overrides.DBQueryTimeout
	}
	if overrides.DBWriteTimeout != nil {
		config.Database.WriteTimeout = *overrides.DBWriteTimeout
	}
	if overrides.Addr != nil {
		config.Server.Addr = *overrides.Addr
	}
	if overrides.Debug != nil {
		config.Application.Debug = *overrides.Debug
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}
