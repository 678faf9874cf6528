package api

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"todo/internal/domain"
	"todo/internal/state"
)

// API is the contract between a presentation layer and the task state.
// Request methods return immediately; the work runs in the background.
type API interface {
	// Intents
	RequestRefresh()
	RequestCreate(text string)
	RequestUpdate(task domain.Task)
	RequestDelete(task domain.Task)
	RequestOpen(task domain.Task) *state.Editor
	RequestNew() *state.Editor
	RequestCommit(editor *state.Editor)
	RequestRetry()
	DismissError()

	// State
	Tasks() []domain.Task
	Snapshot() state.Snapshot
	Bind(listener Listener) (stop func())

	// Wait blocks until every intent issued so far has finished and returns
	// the first failure among them.
	Wait() error
}

type apiImpl struct {
	ctx       context.Context
	container *state.Container

	mu    sync.Mutex
	group *errgroup.Group
}

// New creates an API over container. ctx is passed to every operation.
func New(ctx context.Context, container *state.Container) API {
	return &apiImpl{
		ctx:       ctx,
		container: container,
		group:     new(errgroup.Group),
	}
}

func (a *apiImpl) dispatch(op func(ctx context.Context) state.Result) {
	a.mu.Lock()
	g := a.group
	a.mu.Unlock()

	g.Go(func() error {
		result := op(a.ctx)
		if result.Phase == state.PhaseFailed {
			return result.Err
		}
		return nil
	})
}

func (a *apiImpl) RequestRefresh() {
	a.dispatch(a.container.Refresh)
}

func (a *apiImpl) RequestCreate(text string) {
	a.dispatch(func(ctx context.Context) state.Result {
		return a.container.Create(ctx, text)
	})
}

func (a *apiImpl) RequestUpdate(task domain.Task) {
	a.dispatch(func(ctx context.Context) state.Result {
		return a.container.Update(ctx, task)
	})
}

func (a *apiImpl) RequestDelete(task domain.Task) {
	a.dispatch(func(ctx context.Context) state.Result {
		return a.container.Delete(ctx, task)
	})
}

// RequestOpen returns an editor for an existing task.
func (a *apiImpl) RequestOpen(task domain.Task) *state.Editor {
	return a.container.Open(task)
}

// RequestNew returns an editor for a task that does not exist yet.
func (a *apiImpl) RequestNew() *state.Editor {
	return a.container.NewTask()
}

func (a *apiImpl) RequestCommit(editor *state.Editor) {
	a.dispatch(editor.Commit)
}

func (a *apiImpl) RequestRetry() {
	a.dispatch(a.container.Retry)
}

func (a *apiImpl) DismissError() {
	a.container.DismissNotice()
}

func (a *apiImpl) Tasks() []domain.Task {
	return a.container.Tasks()
}

func (a *apiImpl) Snapshot() state.Snapshot {
	return a.container.Snapshot()
}

func (a *apiImpl) Bind(listener Listener) func() {
	return Bind(a.container, listener)
}

func (a *apiImpl) Wait() error {
	a.mu.Lock()
	g := a.group
	a.group = new(errgroup.Group)
	a.mu.Unlock()
	return g.Wait()
}
