// Package repository defines the task store contract shared by the SQLite
// and Postgres implementations, plus the row scanning they both use.
package repository

import "context"

// Record is one row of the tasks table
type Record struct {
	ID      int64
	Content string
	Done    bool
}

// Repository defines the interface for task storage.
// Implementations return *errors.AppError values of type NotFound or Storage.
type Repository interface {
	// CreateTask inserts the record and sets its ID
	CreateTask(ctx context.Context, task *Record) error

	// GetTask returns a not found error when no row has the id
	GetTask(ctx context.Context, id int64) (*Record, error)

	// ListTasks returns every task ordered by ascending id, never nil
	ListTasks(ctx context.Context) ([]*Record, error)

	// ToggleTask flips done in a single statement and returns the updated row
	ToggleTask(ctx context.Context, id int64) (*Record, error)

	// DeleteTask removes the row; deleting a missing id is not an error
	DeleteTask(ctx context.Context, id int64) error

	Ping(ctx context.Context) error
	Close() error
}
