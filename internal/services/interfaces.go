package services

import (
	"context"

	"todo/internal/domain"
)

// TaskService is the task use-case layer the HTTP handlers call.
// Errors are *errors.AppError values of type Validation, NotFound or Storage.
type TaskService interface {
	CreateTask(ctx context.Context, content string, done bool) (*domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	ListTasks(ctx context.Context) ([]domain.Task, error)
	ToggleTask(ctx context.Context, id int64) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
