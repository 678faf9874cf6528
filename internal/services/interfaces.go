package services

import (
	"context"

	"todo/internal/domain"
	"todo/internal/repository/sqlite"
)

// StoreOpener opens the Record Store backing a TaskService.
type StoreOpener func(ctx context.Context) (sqlite.Store, error)

// TaskService is the Task Repository: the only owner of the Record Store
// handle. It maps records to domain Tasks and back.
//
//go:generate mockgen -source=interfaces.go -destination=mocks/mock_task_service.go -package=mocks
type TaskService interface {
	// GetTasks returns every task, newest first.
	GetTasks(ctx context.Context) ([]domain.Task, error)
	// CreateTask persists a new task. Blank or over-long text fails validation.
	CreateTask(ctx context.Context, text string) (domain.Task, error)
	// CreateDraftTask persists a new task with empty text.
	CreateDraftTask(ctx context.Context) (domain.Task, error)
	// UpdateTask writes the task's text and completion back to its record.
	UpdateTask(ctx context.Context, task domain.Task) error
	// DeleteTask removes the task's record.
	DeleteTask(ctx context.Context, task domain.Task) error

	Close() error
}
