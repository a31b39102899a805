package domain

import (
	"todo/internal/repository"
)

// TaskMapper handles conversion between domain Tasks and store records.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToRecord converts a domain Task to a store record.
func (m *TaskMapper) ToRecord(task Task) repository.Record {
	return repository.Record{
		ID:      task.ID,
		Content: task.Content,
		Done:    task.Done,
	}
}

// FromRecord converts a store record to a domain Task.
func (m *TaskMapper) FromRecord(record repository.Record) Task {
	return Task{
		ID:      record.ID,
		Content: record.Content,
		Done:    record.Done,
	}
}

// FromRecords converts store records to domain Tasks, preserving order.
// The result is never nil.
func (m *TaskMapper) FromRecords(records []*repository.Record) []Task {
	tasks := make([]Task, 0, len(records))
	for _, record := range records {
		tasks = append(tasks, m.FromRecord(*record))
	}
	return tasks
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task *TaskMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task: NewTaskMapper(),
	}
}
