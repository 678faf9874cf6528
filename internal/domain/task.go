package domain

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

// StorageKey correlates an in-memory Task with its persisted record.
// The zero value means the task has not been persisted.
type StorageKey int64

// NoStorageKey is the key of a draft that was never persisted.
const NoStorageKey StorageKey = 0

// IsAssigned reports whether the store has assigned this key.
func (k StorageKey) IsAssigned() bool {
	return k > 0
}

// String returns the key for display and error context.
func (k StorageKey) String() string {
	return strconv.FormatInt(int64(k), 10)
}

// Task represents a to-do item in the domain model.
// This is a pure domain model without database-specific concerns.
type Task struct {
	ID          string
	Text        string
	CreatedAt   time.Time
	IsCompleted bool
	StorageKey  StorageKey
}

// NewDraft creates an unsaved Task holding text.
func NewDraft(text string) Task {
	return Task{
		Text: text,
	}
}

// IsPersisted reports whether the task exists in the store.
func (t Task) IsPersisted() bool {
	return t.StorageKey.IsAssigned()
}

// HasText reports whether the task text is non-blank.
func (t Task) HasText() bool {
	return strings.TrimSpace(t.Text) != ""
}

// Equal compares content only: ID, Text and IsCompleted. CreatedAt and
// StorageKey are identity and are not compared.
func (t Task) Equal(other Task) bool {
	return t.ID == other.ID &&
		t.Text == other.Text &&
		t.IsCompleted == other.IsCompleted
}

// WithText returns a copy of the task with its text replaced.
func (t Task) WithText(text string) Task {
	t.Text = text
	return t
}

// WithCompleted returns a copy of the task with its completion flag replaced.
func (t Task) WithCompleted(completed bool) Task {
	t.IsCompleted = completed
	return t
}

// String returns the task text for display purposes.
func (t Task) String() string {
	return t.Text
}

// newer reports whether a sorts before b: later CreatedAt first, and on a
// tie the later-stored task first.
func newer(a, b Task) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.StorageKey > b.StorageKey
}

// SortNewestFirst orders tasks by CreatedAt descending.
func SortNewestFirst(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return newer(tasks[i], tasks[j])
	})
}

// InsertNewestFirst inserts task into a list already sorted newest first and
// returns the result. A task newer than every entry is prepended.
func InsertNewestFirst(tasks []Task, task Task) []Task {
	i := sort.Search(len(tasks), func(i int) bool {
		return !newer(tasks[i], task)
	})
	return slices.Insert(tasks, i, task)
}

// IndexOf returns the position of the task with id, or -1.
func IndexOf(tasks []Task, id string) int {
	for i, task := range tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy of tasks that shares no backing array.
func Clone(tasks []Task) []Task {
	if tasks == nil {
		return []Task{}
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
