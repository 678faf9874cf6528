package state

import (
	"context"
	"sync"

	"todo/internal/domain"
)

// Editor holds a working copy of one task until it is committed.
type Editor struct {
	container *Container

	mu       sync.Mutex
	original domain.Task
	draft    domain.Task
	isNew    bool
}

// Open starts editing an existing task.
func (c *Container) Open(task domain.Task) *Editor {
	return &Editor{container: c, original: task, draft: task}
}

// NewTask starts editing a task that does not exist yet.
func (c *Container) NewTask() *Editor {
	draft := domain.NewDraft("")
	return &Editor{container: c, original: draft, draft: draft, isNew: true}
}

// SetText replaces the working text.
func (e *Editor) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = e.draft.WithText(text)
}

// SetCompleted replaces the working completion flag.
func (e *Editor) SetCompleted(completed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = e.draft.WithCompleted(completed)
}

// Text returns the working text.
func (e *Editor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Text
}

// Task returns the working copy.
func (e *Editor) Task() domain.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// IsNew reports whether committing will create a task.
func (e *Editor) IsNew() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isNew
}

// Changed reports whether the working copy differs from the last committed state.
func (e *Editor) Changed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.original.Equal(e.draft)
}

// Commit saves the working copy. A new task is created only when its text is
// not blank; an existing task is updated only when it changed. Otherwise
// Commit does nothing and reports PhaseIdle.
func (e *Editor) Commit(ctx context.Context) Result {
	e.mu.Lock()
	draft, original, isNew := e.draft, e.original, e.isNew
	e.mu.Unlock()

	if isNew {
		if !draft.HasText() {
			return Result{Kind: OpCreate, Phase: PhaseIdle, Task: draft}
		}
		result := e.container.Create(ctx, draft.Text)
		if !result.OK() {
			return result
		}
		created := result.Task
		if draft.IsCompleted {
			result = e.container.Update(ctx, created.WithCompleted(true))
			if result.OK() {
				created = result.Task
			}
		}
		e.mu.Lock()
		e.isNew = false
		e.original = created
		e.draft = created.WithCompleted(draft.IsCompleted)
		e.mu.Unlock()
		return result
	}

	if original.Equal(draft) {
		return Result{Kind: OpUpdate, Phase: PhaseIdle, Task: draft}
	}
	result := e.container.Update(ctx, draft)
	if result.OK() {
		e.mu.Lock()
		e.original = draft
		e.mu.Unlock()
	}
	return result
}
