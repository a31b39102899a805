package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	apperrors "todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/repository"
	"todo/internal/repository/migrations"
)

// Options tunes the connection pool
type Options struct {
	MaxConns int32
	MinConns int32
}

// Storage is the Postgres task store
type Storage struct {
	pool *pgxpool.Pool
}

var _ repository.Repository = (*Storage)(nil)

// New connects to the database at connString, applies migrations and
// returns the store. The pool is shared by every request.
func New(ctx context.Context, connString string, opts Options) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, apperrors.NewStorageError("parse connection string", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, apperrors.NewStorageError("connect", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	err = migrations.RunMigrations(ctx, db, migrations.Postgres)
	db.Close()
	if err != nil {
		pool.Close()
		return nil, apperrors.NewStorageError("run migrations", err)
	}

	logging.Debugf("postgres: pool ready (max %d, min %d)", cfg.MaxConns, cfg.MinConns)
	return &Storage{pool: pool}, nil
}

// Close releases every pooled connection
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database is reachable
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return apperrors.NewStorageError("ping", err)
	}
	return nil
}

// CreateTask inserts a task and sets its ID from the sequence.
func (s *Storage) CreateTask(ctx context.Context, task *repository.Record) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (content, done)
		VALUES ($1, $2) RETURNING id;
	`,
		task.Content,
		task.Done,
	).Scan(&task.ID)
	if err != nil {
		return apperrors.NewStorageError("insert task", err)
	}
	return nil
}

// GetTask returns the task with the given ID.
func (s *Storage) GetTask(ctx context.Context, id int64) (*repository.Record, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, content, done
		FROM tasks
		WHERE id = $1;
	`,
		id,
	)
	return scanOne(row, id, "get task")
}

// ListTasks returns all tasks ordered by id.
func (s *Storage) ListTasks(ctx context.Context) ([]*repository.Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, content, done
		FROM tasks
		ORDER BY id;
	`)
	if err != nil {
		return nil, apperrors.NewStorageError("list tasks", err)
	}
	defer rows.Close()

	tasks, err := repository.ScanTasks(rows)
	if err != nil {
		return nil, apperrors.NewStorageError("scan tasks", err)
	}
	return tasks, nil
}

// ToggleTask flips done in a single statement and returns the new row.
func (s *Storage) ToggleTask(ctx context.Context, id int64) (*repository.Record, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE tasks
		SET done = NOT done
		WHERE id = $1
		RETURNING id, content, done;
	`,
		id,
	)
	return scanOne(row, id, "toggle task")
}

// DeleteTask removes the task by ID.
func (s *Storage) DeleteTask(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM tasks
		WHERE id = $1;
	`,
		id,
	)
	if err != nil {
		return apperrors.NewStorageError("delete task", err)
	}
	return nil
}

func scanOne(row pgx.Row, id int64, operation string) (*repository.Record, error) {
	task, err := repository.ScanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("task", strconv.FormatInt(id, 10))
		}
		return nil, apperrors.NewStorageError(operation, err)
	}
	return task, nil
}
