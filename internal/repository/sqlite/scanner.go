package sqlite

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...any) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// ScanRecord scans a single record from a row selected with recordColumns.
func ScanRecord(scanner Scanner) (*Record, error) {
	record := &Record{}
	var createdAt int64

	err := scanner.Scan(
		&record.Key,
		&record.ID,
		&record.Text,
		&createdAt,
		&record.IsCompleted,
	)
	if err != nil {
		return nil, err
	}

	record.CreatedAt = ParseTimeFromDB(createdAt)
	return record, nil
}

// ScanRecords scans every remaining row into records
func ScanRecords(rows Rows) ([]*Record, error) {
	records := make([]*Record, 0)
	for rows.Next() {
		record, err := ScanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
