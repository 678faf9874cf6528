package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/errors"
)

// MockResult implements sql.Result for testing
type MockResult struct {
	lastInsertID int64
	rowsAffected int64
	insertErr    error
	rowsErr      error
}

func (mr *MockResult) LastInsertId() (int64, error) {
	return mr.lastInsertID, mr.insertErr
}

func (mr *MockResult) RowsAffected() (int64, error) {
	return mr.rowsAffected, mr.rowsErr
}

func TestValidateRowsAffected(t *testing.T) {
	tests := []struct {
		name         string
		result       sql.Result
		expectedKind error
	}{
		{
			name:   "Successful update",
			result: &MockResult{rowsAffected: 1},
		},
		{
			name:         "No rows affected",
			result:       &MockResult{rowsAffected: 0},
			expectedKind: errors.ErrRecordNotFound,
		},
		{
			name:         "Error getting rows affected",
			result:       &MockResult{rowsErr: stderrors.New("database error")},
			expectedKind: errors.ErrWriteFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRowsAffected(tt.result, "update record", 7)
			if tt.expectedKind == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expectedKind)
		})
	}
}

func TestQueryMultiple_InvalidQuery(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = QueryMultiple(context.Background(), db, "fetch records", "SELECT * FROM missing_table", ScanRecords)
	assert.ErrorIs(t, err, errors.ErrStoreUnavailable)
}

func TestExecuteWithRowsAffected_WriteFailure(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	err = ExecuteWithRowsAffected(context.Background(), db, "update record", 1, "UPDATE missing_table SET x = 1")
	assert.ErrorIs(t, err, errors.ErrWriteFailed)
}
