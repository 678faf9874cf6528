package sqlite

import (
	"time"
)

// FormatTimeForDB encodes a time as UTC unix nanoseconds so that ORDER BY on
// the column sorts chronologically at full precision.
func FormatTimeForDB(t time.Time) int64 {
	return t.UTC().UnixNano()
}

// ParseTimeFromDB decodes a value written by FormatTimeForDB.
func ParseTimeFromDB(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
