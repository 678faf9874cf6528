package sqlite

import "time"

// Record is the persisted representation of a task.
//
// Key is assigned by the store on insert and is never reused after a
// delete. ID and CreatedAt are immutable once the record exists.
type Record struct {
	Key         int64
	ID          string
	Text        string
	CreatedAt   time.Time
	IsCompleted bool
}
