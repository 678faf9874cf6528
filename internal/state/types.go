package state

import (
	"todo/internal/domain"
)

// OpKind identifies the container operation a Result or Notice belongs to.
type OpKind int

const (
	OpRefresh OpKind = iota
	OpCreate
	OpUpdate
	OpDelete
)

// String returns the string representation of the operation kind
func (k OpKind) String() string {
	switch k {
	case OpRefresh:
		return "refresh"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Title is the heading shown to the user when the operation fails.
func (k OpKind) Title() string {
	switch k {
	case OpRefresh:
		return "Failed to get tasks"
	case OpCreate:
		return "Failed to create task"
	case OpUpdate:
		return "Failed to update task"
	case OpDelete:
		return "Failed to delete task"
	default:
		return "Operation failed"
	}
}

// Retryable reports whether a failure of this kind may be re-issued by the user.
func (k OpKind) Retryable() bool {
	return k == OpRefresh
}

// Phase is a state of a single operation's lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseCreating
	PhaseUpdating
	PhaseDeleting
	PhaseLoaded
	PhaseInserted
	PhaseReplaced
	PhaseRemoved
	PhaseFailed
)

var phaseNames = map[Phase]string{
	PhaseIdle:     "idle",
	PhaseLoading:  "loading",
	PhaseCreating: "creating",
	PhaseUpdating: "updating",
	PhaseDeleting: "deleting",
	PhaseLoaded:   "loaded",
	PhaseInserted: "inserted",
	PhaseReplaced: "replaced",
	PhaseRemoved:  "removed",
	PhaseFailed:   "failed",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

func (k OpKind) running() Phase {
	switch k {
	case OpRefresh:
		return PhaseLoading
	case OpCreate:
		return PhaseCreating
	case OpUpdate:
		return PhaseUpdating
	default:
		return PhaseDeleting
	}
}

func (k OpKind) succeeded() Phase {
	switch k {
	case OpRefresh:
		return PhaseLoaded
	case OpCreate:
		return PhaseInserted
	case OpUpdate:
		return PhaseReplaced
	default:
		return PhaseRemoved
	}
}

// Notice is the latest failure, kept until dismissed or replaced.
type Notice struct {
	// Seq is the snapshot version that raised the notice.
	Seq       uint64
	Kind      OpKind
	Title     string
	Message   string
	Retryable bool
	Err       error
}

// Result is the outcome of one container operation.
type Result struct {
	Kind  OpKind
	Phase Phase
	// Task is the created or targeted task.
	Task domain.Task
	Err  error
}

// OK reports whether the operation did not fail.
func (r Result) OK() bool {
	return r.Phase != PhaseFailed
}

// Snapshot is a consistent view of the container. Tasks must not be modified.
type Snapshot struct {
	Tasks        []domain.Task
	Notice       *Notice
	Loading      bool
	InFlight     int
	Version      uint64
	TasksVersion uint64
}
