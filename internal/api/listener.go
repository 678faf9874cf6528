package api

import (
	"sync"

	"todo/internal/domain"
	"todo/internal/state"
)

// Listener receives state changes. Calls arrive on a single goroutine, in
// publish order, and may skip intermediate states.
type Listener interface {
	OnTasksChanged(tasks []domain.Task)
	OnError(title, message string, retryable bool)
}

// Bind feeds container snapshots to listener until stop is called. The
// current list is delivered first. Only notices raised after Bind are
// reported; a standing one is available from Snapshot. stop waits for any
// callback in progress and for the last published state to be delivered.
func Bind(container *state.Container, listener Listener) (stop func()) {
	var noticeSeq uint64
	if n := container.Snapshot().Notice; n != nil {
		noticeSeq = n.Seq
	}
	sub := container.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		first := true
		var tasksVersion uint64
		for snap := range sub.C {
			if first || snap.TasksVersion != tasksVersion {
				listener.OnTasksChanged(snap.Tasks)
				tasksVersion = snap.TasksVersion
			}
			if n := snap.Notice; n != nil && n.Seq != noticeSeq {
				listener.OnError(n.Title, n.Message, n.Retryable)
				noticeSeq = n.Seq
			}
			first = false
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.Close()
			<-done
		})
	}
}
