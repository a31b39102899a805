package config

import (
	"context"
	"fmt"
	"strings"

	"todo/internal/repository"
	"todo/internal/repository/postgres"
	"todo/internal/repository/sqlite"
)

// CreateRepository opens the store named by the database URL scheme:
// postgres:// and postgresql:// use Postgres, sqlite: and file: use SQLite.
func CreateRepository(ctx context.Context, config *Config) (repository.Repository, error) {
	url := config.Database.URL

	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		repo, err := postgres.New(ctx, url, postgres.Options{
			MaxConns: config.Database.MaxConns,
			MinConns: config.Database.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo, nil

	case strings.HasPrefix(url, "sqlite:"), strings.HasPrefix(url, "file:"):
		repo, err := sqlite.New(ctx, sqlite.PathFromURL(url))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo, nil

	default:
		return nil, &ConfigError{Field: "database.url", Message: fmt.Sprintf("unsupported database URL scheme in %q", redact(url))}
	}
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository(ctx context.Context) (repository.Repository, error) {
	repo, err := sqlite.New(ctx, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return repo, nil
}

// redact keeps only the scheme so credentials never reach an error message
func redact(url string) string {
	if i := strings.Index(url, ":"); i >= 0 {
		return url[:i] + ":..."
	}
	return "..."
}
