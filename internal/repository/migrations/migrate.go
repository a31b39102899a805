// Package migrations bootstraps the tasks schema from versioned SQL files
// embedded per dialect. Only forward migrations exist.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

// Dialect selects the SQL flavour of the embedded migrations
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// Migration represents a single schema step
type Migration struct {
	Version int
	Name    string
	Up      string
}

// RunMigrations applies every embedded migration for the dialect that is
// not yet recorded in schema_migrations. Each one runs in its own transaction.
func RunMigrations(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if err := createMigrationsTable(ctx, db, dialect); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := LoadMigrations(dialect)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, err := getAppliedMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := applyMigration(ctx, db, dialect, migration); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}

	return nil
}

func createMigrationsTable(ctx context.Context, db *sql.DB, dialect Dialect) error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if dialect == Postgres {
		query = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMPTZ DEFAULT now()
	)`
	}
	_, err := db.ExecContext(ctx, query)
	return err
}

// LoadMigrations returns the dialect's migrations ordered by version
func LoadMigrations(dialect Dialect) ([]Migration, error) {
	dir := string(dialect)
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		version := extractVersion(entry.Name())
		if version == 0 {
			continue
		}

		upSQL, err := fs.ReadFile(migrationsFS, dir+"/"+entry.Name())
		if err != nil {
			return nil, err
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(entry.Name(), ".up.sql"),
			Up:      string(upSQL),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

func getAppliedMigrations(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func applyMigration(ctx context.Context, db *sql.DB, dialect Dialect, migration Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, migration.Up); err != nil {
		tx.Rollback()
		return err
	}

	insert := "INSERT INTO schema_migrations (version) VALUES (?)"
	if dialect == Postgres {
		insert = "INSERT INTO schema_migrations (version) VALUES ($1)"
	}
	if _, err := tx.ExecContext(ctx, insert, migration.Version); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func extractVersion(filename string) int {
	var version int
	fmt.Sscanf(filename, "%d_", &version)
	return version
}
