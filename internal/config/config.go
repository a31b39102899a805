package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration options for the todo service
type Config struct {
	Database    DatabaseConfig
	Server      ServerConfig
	Validation  ValidationConfig
	Application ApplicationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL          string        `env:"DATABASE_URL"`
	QueryTimeout time.Duration `env:"TODO_DB_QUERY_TIMEOUT"`
	WriteTimeout time.Duration `env:"TODO_DB_WRITE_TIMEOUT"`
	MaxConns     int32         `env:"TODO_DB_MAX_CONNS"`
	MinConns     int32         `env:"TODO_DB_MIN_CONNS"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `env:"TODO_HTTP_ADDR"`
	ReadTimeout     time.Duration `env:"TODO_HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"TODO_HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"TODO_HTTP_SHUTDOWN_TIMEOUT"`
	MaxBodyBytes    int64         `env:"TODO_HTTP_MAX_BODY_BYTES"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	ContentMaxLength int `env:"TODO_VALIDATION_CONTENT_MAX"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Debug bool `env:"TODO_DEBUG"`
}

// NewConfig creates a new configuration with sensible defaults.
// The database URL has no default.
func NewConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			QueryTimeout: 10 * time.Second,
			WriteTimeout: 5 * time.Second,
			MaxConns:     10,
			MinConns:     5,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:42069",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Validation: ValidationConfig{
			ContentMaxLength: 1000,
		},
	}
}

// LoadFromEnvironment loads configuration from environment variables.
// Unparseable values leave the current setting untouched.
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Database.URL = url
	}
	if timeout := os.Getenv("TODO_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}
	if timeout := os.Getenv("TODO_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(timeout, c.Database.WriteTimeout)
	}
	if n := os.Getenv("TODO_DB_MAX_CONNS"); n != "" {
		c.Database.MaxConns = int32(ParseIntWithFallback(n, int(c.Database.MaxConns)))
	}
	if n := os.Getenv("TODO_DB_MIN_CONNS"); n != "" {
		c.Database.MinConns = int32(ParseIntWithFallback(n, int(c.Database.MinConns)))
	}

	// Server configuration
	if addr := os.Getenv("TODO_HTTP_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if timeout := os.Getenv("TODO_HTTP_READ_TIMEOUT"); timeout != "" {
		c.Server.ReadTimeout = ParseDurationWithFallback(timeout, c.Server.ReadTimeout)
	}
	if timeout := os.Getenv("TODO_HTTP_WRITE_TIMEOUT"); timeout != "" {
		c.Server.WriteTimeout = ParseDurationWithFallback(timeout, c.Server.WriteTimeout)
	}
	if timeout := os.Getenv("TODO_HTTP_SHUTDOWN_TIMEOUT"); timeout != "" {
		c.Server.ShutdownTimeout = ParseDurationWithFallback(timeout, c.Server.ShutdownTimeout)
	}
	if n := os.Getenv("TODO_HTTP_MAX_BODY_BYTES"); n != "" {
		if b, err := strconv.ParseInt(n, 10, 64); err == nil {
			c.Server.MaxBodyBytes = b
		}
	}

	// Validation configuration
	if maxLen := os.Getenv("TODO_VALIDATION_CONTENT_MAX"); maxLen != "" {
		c.Validation.ContentMaxLength = ParseIntWithFallback(maxLen, c.Validation.ContentMaxLength)
	}

	// Application configuration
	if debug := os.Getenv("TODO_DEBUG"); debug != "" {
		c.Application.Debug = ParseBoolWithFallback(debug, true)
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return &ConfigError{Field: "database.url", Message: "DATABASE_URL must be set"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}
	if c.Database.MaxConns < 1 {
		return &ConfigError{Field: "database.max_conns", Message: "max connections must be at least 1"}
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return &ConfigError{Field: "database.min_conns", Message: "min connections must be between 0 and max connections"}
	}

	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}
	if c.Server.MaxBodyBytes <= 0 {
		return &ConfigError{Field: "server.max_body_bytes", Message: "max body size must be positive"}
	}

	if c.Validation.ContentMaxLength < 1 {
		return &ConfigError{Field: "validation.content_max_length", Message: "content maximum length must be at least 1"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
