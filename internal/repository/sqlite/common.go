package sqlite

import (
	"context"
	"database/sql"
	"strconv"

	"todo/internal/errors"
)

// ValidateRowsAffected checks that a write touched a record; zero rows means
// the key did not resolve.
func ValidateRowsAffected(result sql.Result, operation string, key int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewWriteFailedError(operation, err)
	}
	if rows == 0 {
		return errors.NewRecordNotFoundError(strconv.FormatInt(key, 10))
	}
	return nil
}

// ExecuteWithLastInsertID executes an insert and returns the new row key
func ExecuteWithLastInsertID(ctx context.Context, db *sql.DB, operation string, query string, args ...any) (int64, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.NewWriteFailedError(operation, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewWriteFailedError(operation, err)
	}

	return id, nil
}

// ExecuteWithRowsAffected executes a write against one key and reports
// RecordNotFound when nothing matched.
func ExecuteWithRowsAffected(ctx context.Context, db *sql.DB, operation string, key int64, query string, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.NewWriteFailedError(operation, err)
	}

	return ValidateRowsAffected(result, operation, key)
}

// QueryMultiple executes a query that returns multiple rows and scans them
func QueryMultiple[T any](ctx context.Context, db *sql.DB, operation string, query string, scanFunc func(Rows) ([]*T, error), args ...any) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStoreUnavailableError(operation, err)
	}
	defer rows.Close()

	results, err := scanFunc(rows)
	if err != nil {
		return nil, errors.NewStoreUnavailableError(operation, err)
	}

	return results, nil
}
