package state

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/services"
)

// Container is the in-memory authority over the task list shown to users.
// The list changes only through TaskService results, and every change is
// published to subscribers as a full Snapshot. Snapshots copy the list, so
// the list itself is edited in place under mu.
type Container struct {
	service services.TaskService
	logger  *slog.Logger

	mu           sync.Mutex
	tasks        []domain.Task
	notice       *Notice
	loading      int
	inFlight     int
	version      uint64
	tasksVersion uint64
	deleting     map[string]struct{}
	subs         map[*Subscription]struct{}
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for operation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// WithInitialTasks seeds the list, sorted newest first.
func WithInitialTasks(tasks []domain.Task) Option {
	return func(c *Container) {
		c.tasks = domain.Clone(tasks)
		domain.SortNewestFirst(c.tasks)
	}
}

// New creates a Container over service.
func New(service services.TaskService, opts ...Option) *Container {
	c := &Container{
		service:  service,
		tasks:    []domain.Task{},
		deleting: make(map[string]struct{}),
		subs:     make(map[*Subscription]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDiscard(c.logger).With("component", "state")
	return c
}

// Snapshot returns the current state.
func (c *Container) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Tasks returns a copy of the current list, newest first.
func (c *Container) Tasks() []domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Clone(c.tasks)
}

// Refresh replaces the list with the store's contents.
func (c *Container) Refresh(ctx context.Context) Result {
	c.begin(OpRefresh)
	tasks, err := c.service.GetTasks(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if err != nil {
		return c.failLocked(OpRefresh, domain.Task{}, err)
	}
	c.tasks = domain.Clone(tasks)
	domain.SortNewestFirst(c.tasks)
	c.tasksVersion++
	return c.succeedLocked(OpRefresh, domain.Task{})
}

// Create persists a new task and adds it to the list. A fresh task is the
// newest, so it normally lands first.
func (c *Container) Create(ctx context.Context, text string) Result {
	c.begin(OpCreate)
	task, err := c.service.CreateTask(ctx, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return c.failLocked(OpCreate, domain.NewDraft(text), err)
	}
	c.tasks = domain.InsertNewestFirst(c.tasks, task)
	c.tasksVersion++
	return c.succeedLocked(OpCreate, task)
}

// Update writes task back to the store and copies its text and completion
// onto the entry with the same ID. A task no longer in the list is persisted
// but not re-added. A task whose storage key differs from the listed entry's
// is rejected as not found.
func (c *Container) Update(ctx context.Context, task domain.Task) Result {
	c.mu.Lock()
	c.beginLocked(OpUpdate)
	if err := c.checkIdentityLocked(task); err != nil {
		defer c.mu.Unlock()
		return c.failLocked(OpUpdate, task, err)
	}
	c.mu.Unlock()

	err := c.service.UpdateTask(ctx, task)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return c.failLocked(OpUpdate, task, err)
	}
	if i := domain.IndexOf(c.tasks, task.ID); i >= 0 {
		c.tasks[i].Text = task.Text
		c.tasks[i].IsCompleted = task.IsCompleted
		task = c.tasks[i]
		c.tasksVersion++
	}
	return c.succeedLocked(OpUpdate, task)
}

// Delete removes task from the store and the list. Deleting a task that is
// not in the list, or whose delete is already running, does nothing; such a
// task's record is left in the store.
func (c *Container) Delete(ctx context.Context, task domain.Task) Result {
	c.mu.Lock()
	_, pending := c.deleting[task.ID]
	if pending || domain.IndexOf(c.tasks, task.ID) < 0 {
		c.mu.Unlock()
		c.logger.Debug("delete skipped", "id", task.ID, "pending", pending)
		return Result{Kind: OpDelete, Phase: PhaseIdle, Task: task}
	}
	c.beginLocked(OpDelete)
	if err := c.checkIdentityLocked(task); err != nil {
		defer c.mu.Unlock()
		return c.failLocked(OpDelete, task, err)
	}
	c.deleting[task.ID] = struct{}{}
	c.mu.Unlock()

	err := c.service.DeleteTask(ctx, task)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.deleting, task.ID)
	if err != nil {
		return c.failLocked(OpDelete, task, err)
	}
	if i := domain.IndexOf(c.tasks, task.ID); i >= 0 {
		c.tasks = slices.Delete(c.tasks, i, i+1)
		c.tasksVersion++
	}
	return c.succeedLocked(OpDelete, task)
}

// checkIdentityLocked rejects a task whose ID names a listed entry stored
// under a different key.
func (c *Container) checkIdentityLocked(task domain.Task) error {
	i := domain.IndexOf(c.tasks, task.ID)
	if i < 0 || c.tasks[i].StorageKey == task.StorageKey {
		return nil
	}
	return errors.NewTaskNotFoundError(task.ID, nil).
		WithContext("storage_key", task.StorageKey.String())
}

// Retry re-issues a refresh when the current notice allows it.
func (c *Container) Retry(ctx context.Context) Result {
	c.mu.Lock()
	if c.notice == nil || !c.notice.Retryable {
		c.mu.Unlock()
		return Result{Kind: OpRefresh, Phase: PhaseIdle}
	}
	c.notice = nil
	c.publishLocked()
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// DismissNotice clears the current notice.
func (c *Container) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notice == nil {
		return
	}
	c.notice = nil
	c.publishLocked()
}

// Close ends every subscription. The service is not closed.
func (c *Container) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for sub := range c.subs {
		delete(c.subs, sub)
		close(sub.ch)
	}
}

func (c *Container) begin(kind OpKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beginLocked(kind)
}

func (c *Container) beginLocked(kind OpKind) {
	c.inFlight++
	if kind == OpRefresh {
		c.loading++
	}
	c.logger.Debug("operation started", "operation", kind.String(), "phase", kind.running().String())
	c.publishLocked()
}

func (c *Container) succeedLocked(kind OpKind, task domain.Task) Result {
	c.inFlight--
	phase := kind.succeeded()
	c.logger.Debug("operation finished", "operation", kind.String(), "phase", phase.String(), "tasks", len(c.tasks))
	c.publishLocked()
	return Result{Kind: kind, Phase: phase, Task: task}
}

// failLocked leaves the list unchanged and raises a notice for err.
func (c *Container) failLocked(kind OpKind, task domain.Task, err error) Result {
	c.inFlight--
	c.notice = &Notice{
		Seq:       c.version + 1,
		Kind:      kind,
		Title:     kind.Title(),
		Message:   errors.GetUserMessage(err),
		Retryable: kind.Retryable(),
		Err:       err,
	}
	attrs := []any{"operation", kind.String(), "error", err}
	if appErr, ok := errors.AsAppError(err); ok && appErr.Operation() != "" {
		attrs = append(attrs, "step", appErr.Operation())
	}
	if errors.ShouldLogError(err) {
		c.logger.Error("operation failed", attrs...)
	} else {
		c.logger.Warn("operation failed", attrs...)
	}
	c.publishLocked()
	return Result{Kind: kind, Phase: PhaseFailed, Task: task, Err: err}
}

func (c *Container) snapshotLocked() Snapshot {
	var notice *Notice
	if c.notice != nil {
		n := *c.notice
		notice = &n
	}
	return Snapshot{
		Tasks:        domain.Clone(c.tasks),
		Notice:       notice,
		Loading:      c.loading > 0,
		InFlight:     c.inFlight,
		Version:      c.version,
		TasksVersion: c.tasksVersion,
	}
}

// publishLocked bumps the version and hands the snapshot to every subscriber.
func (c *Container) publishLocked() {
	c.version++
	if len(c.subs) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for sub := range c.subs {
		sub.offer(snap)
	}
}
