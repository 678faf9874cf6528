package services

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/repository/sqlite"
	"todo/internal/validation"
)

const openKey = "open"

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	open          StoreOpener
	mapper        *domain.TaskMapper
	taskValidator *validation.TaskValidator
	logger        *slog.Logger

	mu     sync.Mutex
	store  sqlite.Store
	closed bool
	opens  singleflight.Group
}

// NewTaskService creates a new TaskService. The store is opened on first use.
// A nil validator or logger selects the defaults.
func NewTaskService(open StoreOpener, taskValidator *validation.TaskValidator, logger *slog.Logger) TaskService {
	if taskValidator == nil {
		taskValidator = validation.NewTaskValidator()
	}
	return &taskServiceImpl{
		open:          open,
		mapper:        domain.NewTaskMapper(),
		taskValidator: taskValidator,
		logger:        logging.OrDiscard(logger).With("component", "task_service"),
	}
}

// NewTaskServiceWithStore creates a TaskService over an already open store.
func NewTaskServiceWithStore(store sqlite.Store, taskValidator *validation.TaskValidator, logger *slog.Logger) TaskService {
	return NewTaskService(func(context.Context) (sqlite.Store, error) {
		return store, nil
	}, taskValidator, logger)
}

// getStore returns the cached store, opening it if needed. Concurrent first
// calls share one open attempt; a failed attempt is not cached.
func (t *taskServiceImpl) getStore(ctx context.Context) (sqlite.Store, error) {
	if store, err := t.cachedStore(); store != nil || err != nil {
		return store, err
	}

	v, err, _ := t.opens.Do(openKey, func() (interface{}, error) {
		if store, err := t.cachedStore(); store != nil || err != nil {
			return store, err
		}

		// The open is shared, so one caller's cancellation must not fail the rest.
		store, err := t.open(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, errors.NewStoreUnavailableError("open store", stderrors.New("opener returned no store"))
		}

		t.mu.Lock()
		defer t.mu.Unlock()
		if t.closed {
			store.Close()
			return nil, errServiceClosed()
		}
		t.store = store
		t.logger.Debug("task store initialized")
		return store, nil
	})
	if err != nil {
		if !errors.IsErrorType(err, errors.ErrorTypeStoreUnavailable) {
			err = errors.NewStoreUnavailableError("open store", err)
		}
		t.logger.Error("task store initialization failed", "error", err)
		return nil, err
	}
	store, ok := v.(sqlite.Store)
	if !ok || store == nil {
		return nil, errors.NewStoreUnavailableError("open store", nil)
	}
	return store, nil
}

func (t *taskServiceImpl) cachedStore() (sqlite.Store, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, errServiceClosed()
	}
	return t.store, nil
}

func errServiceClosed() error {
	return errors.NewStoreUnavailableError("task service closed", nil)
}

// GetTasks retrieves all tasks, newest first
func (t *taskServiceImpl) GetTasks(ctx context.Context) ([]domain.Task, error) {
	const op = "get tasks"
	store, err := t.getStore(ctx)
	if err != nil {
		return nil, errors.Annotate(err, op)
	}

	records, err := store.FetchAll(ctx)
	if err != nil {
		return nil, t.fail(op, err)
	}

	tasks := t.mapper.FromRecords(records)
	domain.SortNewestFirst(tasks)
	t.logger.Debug("tasks fetched", "count", len(tasks))
	return tasks, nil
}

// CreateTask creates a new task with the given text
func (t *taskServiceImpl) CreateTask(ctx context.Context, text string) (domain.Task, error) {
	const op = "create task"
	if err := t.taskValidator.ValidateTaskText(text); err != nil {
		return domain.Task{}, t.fail(op, validationFailed(err))
	}
	return t.insert(ctx, op, text)
}

// CreateDraftTask creates a task with no text
func (t *taskServiceImpl) CreateDraftTask(ctx context.Context) (domain.Task, error) {
	return t.insert(ctx, "create draft task", "")
}

func (t *taskServiceImpl) insert(ctx context.Context, op, text string) (domain.Task, error) {
	store, err := t.getStore(ctx)
	if err != nil {
		return domain.Task{}, errors.Annotate(err, op)
	}

	record, err := store.Insert(ctx, text)
	if err != nil {
		return domain.Task{}, t.fail(op, err)
	}

	task := t.mapper.FromRecord(*record)
	t.logger.Debug("task created", "id", task.ID, "key", task.StorageKey)
	return task, nil
}

// UpdateTask updates a task's text and completion state
func (t *taskServiceImpl) UpdateTask(ctx context.Context, task domain.Task) error {
	const op = "update task"
	if !task.IsPersisted() {
		return t.fail(op, errors.NewTaskNotFoundError(task.ID, nil))
	}
	if err := t.taskValidator.ValidateTaskForUpdate(task); err != nil {
		return t.fail(op, validationFailed(err))
	}

	store, err := t.getStore(ctx)
	if err != nil {
		return errors.Annotate(err, op)
	}

	record := t.mapper.ToRecord(task)
	if err := store.Update(ctx, record.Key, record.Text, record.IsCompleted); err != nil {
		return t.fail(op, taskNotFound(task, err))
	}
	t.logger.Debug("task updated", "id", task.ID, "key", task.StorageKey)
	return nil
}

// DeleteTask removes a task
func (t *taskServiceImpl) DeleteTask(ctx context.Context, task domain.Task) error {
	const op = "delete task"
	if !task.IsPersisted() {
		return t.fail(op, errors.NewTaskNotFoundError(task.ID, nil))
	}

	store, err := t.getStore(ctx)
	if err != nil {
		return errors.Annotate(err, op)
	}

	if err := store.Delete(ctx, int64(task.StorageKey)); err != nil {
		return t.fail(op, taskNotFound(task, err))
	}
	t.logger.Debug("task deleted", "id", task.ID, "key", task.StorageKey)
	return nil
}

// Close closes the store if it was opened. Later calls fail with StoreUnavailable.
func (t *taskServiceImpl) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.store == nil {
		return nil
	}
	err := t.store.Close()
	t.store = nil
	return err
}

// fail annotates err with the operation and logs it at a level matching its kind.
func (t *taskServiceImpl) fail(op string, err error) error {
	err = errors.Annotate(err, op)
	if errors.ShouldLogError(err) {
		t.logger.Error("task operation failed", "operation", op, "error", err)
	} else {
		t.logger.Warn("task operation rejected", "operation", op, "error", err)
	}
	return err
}

func validationFailed(err error) error {
	message := err.Error()
	var ve *validation.ValidationError
	if stderrors.As(err, &ve) {
		message = ve.GetUserFriendlyMessage()
	}
	return errors.NewValidationError(message, err)
}

// taskNotFound surfaces a missing record as a missing task.
func taskNotFound(task domain.Task, err error) error {
	if stderrors.Is(err, errors.ErrRecordNotFound) {
		return errors.NewTaskNotFoundError(task.ID, err).
			WithContext("storage_key", task.StorageKey.String())
	}
	return err
}
