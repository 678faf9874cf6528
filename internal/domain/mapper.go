package domain

import (
	"todo/internal/repository/sqlite"
)

// TaskMapper handles conversion between domain Tasks and store records.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToRecord converts a domain Task to a store record.
func (m *TaskMapper) ToRecord(task Task) sqlite.Record {
	return sqlite.Record{
		Key:         int64(task.StorageKey),
		ID:          task.ID,
		Text:        task.Text,
		CreatedAt:   task.CreatedAt,
		IsCompleted: task.IsCompleted,
	}
}

// FromRecord converts a store record to a domain Task.
func (m *TaskMapper) FromRecord(record sqlite.Record) Task {
	return Task{
		ID:          record.ID,
		Text:        record.Text,
		CreatedAt:   record.CreatedAt,
		IsCompleted: record.IsCompleted,
		StorageKey:  StorageKey(record.Key),
	}
}

// FromRecords converts store records to domain Tasks, skipping nil entries.
func (m *TaskMapper) FromRecords(records []*sqlite.Record) []Task {
	tasks := make([]Task, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		tasks = append(tasks, m.FromRecord(*record))
	}
	return tasks
}
