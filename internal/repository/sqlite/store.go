package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

var errStoreClosed = stderrors.New("store is closed")

// Store defines the record-level operations of the task store.
// Every operation on one Store runs strictly one at a time, in arrival order.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type Store interface {
	// FetchAll returns every record, newest first.
	FetchAll(ctx context.Context) ([]*Record, error)
	// Insert durably creates a record with a fresh ID and the current time.
	Insert(ctx context.Context, text string) (*Record, error)
	// Update durably rewrites the mutable fields of the record at key.
	Update(ctx context.Context, key int64, text string, isCompleted bool) error
	// Delete durably removes the record at key.
	Delete(ctx context.Context, key int64) error

	Close() error
}

// Option configures a SQLiteStore.
type Option func(*options)

type options struct {
	now         func() time.Time
	logger      *slog.Logger
	busyTimeout time.Duration
	dirPerm     os.FileMode
}

// WithClock replaces time.Now as the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithBusyTimeout sets how long SQLite waits on a locked database file.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) { o.busyTimeout = d }
}

// WithDirPermissions sets the mode used when creating the database directory.
func WithDirPermissions(perm os.FileMode) Option {
	return func(o *options) { o.dirPerm = perm }
}

// SQLiteStore implements the Store interface
type SQLiteStore struct {
	exec   *executor
	now    func() time.Time
	logger *slog.Logger
	path   string
	claim  string

	closeOnce sync.Once
	closeErr  error
}

// New opens (creating if needed) the task database at dbPath.
func New(dbPath string, opts ...Option) (*SQLiteStore, error) {
	o := options{
		now:         time.Now,
		busyTimeout: 5 * time.Second,
		dirPerm:     0o755,
	}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.OrDiscard(o.logger).With("component", "sqlite", "path", dbPath)

	claim, err := claimPath(dbPath)
	if err != nil {
		return nil, errors.NewStoreUnavailableError("open store", err)
	}

	db, err := openDatabase(dbPath, o)
	if err != nil {
		releasePath(claim)
		logger.Error("failed to open task store", "error", err)
		return nil, errors.NewStoreUnavailableError("open store", err)
	}

	logger.Debug("task store opened")
	return &SQLiteStore{
		exec:   newExecutor(db),
		now:    o.now,
		logger: logger,
		path:   dbPath,
		claim:  claim,
	}, nil
}

func openDatabase(dbPath string, o options) (*sql.DB, error) {
	if dbPath != memoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), o.dirPerm); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One connection: pragmas stick and an in-memory database is not lost
	// when the pool recycles a connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", o.busyTimeout.Milliseconds()),
		"PRAGMA synchronous = FULL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := migrations.Bootstrap(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return db, nil
}

// Path returns the location the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close stops the executor after the running operation and closes the database.
func (s *SQLiteStore) Close() error {
	s.closeOnce.Do(func() {
		s.exec.stop()
		s.closeErr = s.exec.db.Close()
		releasePath(s.claim)
		s.logger.Debug("task store closed")
	})
	return s.closeErr
}

var _ Store = (*SQLiteStore)(nil)

const recordColumns = `key, id, text, created_at, is_completed`

// FetchAll retrieves all records, newest first
func (s *SQLiteStore) FetchAll(ctx context.Context) ([]*Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM tasks
	ORDER BY created_at DESC, key DESC`

	var records []*Record
	err := s.exec.submit(ctx, "fetch records", func(ctx context.Context, db *sql.DB) error {
		var err error
		records, err = QueryMultiple(ctx, db, "fetch records", query, ScanRecords)
		return err
	})
	if err != nil {
		s.logger.Error("fetch records failed", "error", err)
		return nil, err
	}
	s.logger.Debug("fetched records", "count", len(records))
	return records, nil
}

// Insert creates a new record
func (s *SQLiteStore) Insert(ctx context.Context, text string) (*Record, error) {
	query := `
	INSERT INTO tasks (id, text, created_at, is_completed)
	VALUES (?, ?, ?, 0)`

	var record *Record
	err := s.exec.submit(ctx, "insert record", func(ctx context.Context, db *sql.DB) error {
		r := &Record{
			ID:        uuid.NewString(),
			Text:      text,
			CreatedAt: s.now().UTC(),
		}
		key, err := ExecuteWithLastInsertID(ctx, db, "insert record", query, r.ID, r.Text, FormatTimeForDB(r.CreatedAt))
		if err != nil {
			return err
		}
		r.Key = key
		record = r
		return nil
	})
	if err != nil {
		s.logger.Error("insert record failed", "error", err)
		return nil, err
	}
	s.logger.Debug("inserted record", "key", record.Key, "id", record.ID)
	return record, nil
}

// Update rewrites the text and completion flag of an existing record
func (s *SQLiteStore) Update(ctx context.Context, key int64, text string, isCompleted bool) error {
	query := `UPDATE tasks SET text = ?, is_completed = ? WHERE key = ?`

	err := s.exec.submit(ctx, "update record", func(ctx context.Context, db *sql.DB) error {
		return ExecuteWithRowsAffected(ctx, db, "update record", key, query, text, isCompleted, key)
	})
	if err != nil {
		s.logger.Warn("update record failed", "key", key, "error", err)
		return err
	}
	s.logger.Debug("updated record", "key", key)
	return nil
}

// Delete removes a record by key
func (s *SQLiteStore) Delete(ctx context.Context, key int64) error {
	query := `DELETE FROM tasks WHERE key = ?`

	err := s.exec.submit(ctx, "delete record", func(ctx context.Context, db *sql.DB) error {
		return ExecuteWithRowsAffected(ctx, db, "delete record", key, query, key)
	})
	if err != nil {
		s.logger.Warn("delete record failed", "key", key, "error", err)
		return err
	}
	s.logger.Debug("deleted record", "key", key)
	return nil
}
