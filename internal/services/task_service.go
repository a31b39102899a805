package services

import (
	"context"
	"time"

	"todo/internal/config"
	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/repository"
	"todo/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          repository.Repository
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
	queryTimeout  time.Duration
	writeTimeout  time.Duration
}

// NewTaskService creates a new TaskService instance
func NewTaskService(repo repository.Repository, cfg *config.Config) TaskService {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &taskServiceImpl{
		repo:          repo,
		mapper:        domain.NewMapper(),
		taskValidator: validation.NewTaskValidatorWithConfig(cfg),
		queryTimeout:  cfg.Database.QueryTimeout,
		writeTimeout:  cfg.Database.WriteTimeout,
	}
}

// validateContent checks content and returns it unchanged
func (t *taskServiceImpl) validateContent(content string) (string, error) {
	valid, err := t.taskValidator.GetValidContent(content)
	if err != nil {
		message := "invalid task content"
		if ve, ok := err.(*validation.ValidationError); ok {
			message = ve.GetUserFriendlyMessage()
		}
		return "", errors.NewValidationError(message, err)
	}
	return valid, nil
}

// CreateTask validates the content and stores a new task
func (t *taskServiceImpl) CreateTask(ctx context.Context, content string, done bool) (*domain.Task, error) {
	valid, err := t.validateContent(content)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, t.writeTimeout)
	defer cancel()

	record := t.mapper.Task.ToRecord(domain.NewTask(valid, done))
	if err := t.repo.CreateTask(ctx, &record); err != nil {
		return nil, err
	}

	task := t.mapper.Task.FromRecord(record)
	logging.Debugf("created task %d %q", task.ID, task)
	return &task, nil
}

// GetTask retrieves a task by its ID
func (t *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, t.queryTimeout)
	defer cancel()

	record, err := t.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	task := t.mapper.Task.FromRecord(*record)
	return &task, nil
}

// ListTasks returns every task ordered by ascending id
func (t *taskServiceImpl) ListTasks(ctx context.Context) ([]domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, t.queryTimeout)
	defer cancel()

	records, err := t.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	return t.mapper.Task.FromRecords(records), nil
}

// ToggleTask flips the done flag and returns the updated task
func (t *taskServiceImpl) ToggleTask(ctx context.Context, id int64) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, t.writeTimeout)
	defer cancel()

	record, err := t.repo.ToggleTask(ctx, id)
	if err != nil {
		return nil, err
	}

	logging.Debugf("toggled task %d to done=%t", record.ID, record.Done)
	task := t.mapper.Task.FromRecord(*record)
	return &task, nil
}

// DeleteTask removes a task; a missing id is not an error
func (t *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, t.writeTimeout)
	defer cancel()

	if err := t.repo.DeleteTask(ctx, id); err != nil {
		return err
	}

	logging.Debugf("deleted task %d", id)
	return nil
}

// Ping checks that the store answers
func (t *taskServiceImpl) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.queryTimeout)
	defer cancel()
	return t.repo.Ping(ctx)
}
