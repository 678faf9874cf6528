package sqlite

import (
	"context"
	"database/sql"
	"sync"

	"todo/internal/errors"
)

type job struct {
	ctx    context.Context
	run    func(ctx context.Context, db *sql.DB) error
	result chan error
}

// executor owns the database handle and runs jobs one at a time in the
// order they were handed over. The job channel is unbuffered, so a
// successful send means the loop has accepted the job.
type executor struct {
	db   *sql.DB
	jobs chan job
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

func newExecutor(db *sql.DB) *executor {
	e := &executor{
		db:   db,
		jobs: make(chan job),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go e.loop()
	return e
}

func (e *executor) loop() {
	defer close(e.done)
	for {
		select {
		case j := <-e.jobs:
			j.result <- j.run(j.ctx, e.db)
		case <-e.quit:
			return
		}
	}
}

// submit hands fn to the executor and waits for it to finish. ctx bounds
// only the wait for acceptance; an accepted job always runs to completion.
func (e *executor) submit(ctx context.Context, operation string, fn func(ctx context.Context, db *sql.DB) error) error {
	j := job{
		ctx:    context.WithoutCancel(ctx),
		run:    fn,
		result: make(chan error, 1),
	}

	select {
	case e.jobs <- j:
	case <-e.quit:
		return errors.NewStoreUnavailableError(operation, errStoreClosed)
	case <-ctx.Done():
		return errors.NewStoreUnavailableError(operation, ctx.Err())
	}

	return <-j.result
}

// stop waits for the job in progress, if any, and stops the loop.
func (e *executor) stop() {
	e.once.Do(func() {
		close(e.quit)
	})
	<-e.done
}
