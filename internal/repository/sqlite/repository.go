package sqlite

import (
	"context"
	"database/sql"
	"strings"

	apperrors "todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/repository"
	"todo/internal/repository/migrations"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements repository.Repository on an SQLite file
type SQLiteRepository struct {
	db *sql.DB
}

var _ repository.Repository = (*SQLiteRepository)(nil)

// New opens (creating if needed) the database at dbPath and applies migrations.
// dbPath may also be ":memory:".
func New(ctx context.Context, dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, apperrors.NewStorageError("open database", err)
	}

	// A single connection serialises writers and keeps ":memory:" databases
	// from splitting into one database per pooled connection.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(ctx, db, migrations.SQLite); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("run migrations", err)
	}

	logging.Debugf("sqlite: opened %s", dbPath)
	return &SQLiteRepository{db: db}, nil
}

// PathFromURL extracts the file path from sqlite://path, sqlite:path or file:path
func PathFromURL(url string) string {
	for _, prefix := range []string{"sqlite://", "sqlite:", "file:"} {
		if strings.HasPrefix(url, prefix) {
			return strings.TrimPrefix(url, prefix)
		}
	}
	return url
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ping verifies the database is reachable
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return HandleDatabaseError("ping", err)
	}
	return nil
}

// CreateTask inserts a new task and sets its ID
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *repository.Record) error {
	query := `INSERT INTO tasks (content, done) VALUES (?, ?)`
	id, err := ExecuteWithLastInsertID(ctx, r.db, query, task.Content, task.Done)
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*repository.Record, error) {
	query := `SELECT id, content, done FROM tasks WHERE id = ?`
	return QuerySingle(ctx, r.db, query, "task", id, id)
}

// ListTasks retrieves all tasks
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*repository.Record, error) {
	query := `SELECT id, content, done FROM tasks ORDER BY id ASC`
	return QueryMultiple(ctx, r.db, query, "tasks")
}

// ToggleTask flips the done flag of a task
func (r *SQLiteRepository) ToggleTask(ctx context.Context, id int64) (*repository.Record, error) {
	query := `
	UPDATE tasks
	SET done = NOT done
	WHERE id = ?
	RETURNING id, content, done`
	return QuerySingle(ctx, r.db, query, "task", id, id)
}

// DeleteTask deletes a task by ID
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	query := `DELETE FROM tasks WHERE id = ?`
	return Execute(ctx, r.db, query, id)
}
