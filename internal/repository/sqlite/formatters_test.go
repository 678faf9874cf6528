package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimeForDB_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
	}{
		{"UTC time", time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)},
		{"Nanoseconds", time.Date(2024, 3, 10, 9, 15, 30, 123456789, time.UTC)},
		{"Offset zone", time.Date(2024, 6, 15, 14, 30, 0, 0, time.FixedZone("EST", -5*3600))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseTimeFromDB(FormatTimeForDB(tt.input))
			assert.True(t, tt.input.Equal(result), "got %v, want %v", result, tt.input)
			assert.Equal(t, time.UTC, result.Location())
		})
	}
}

func TestFormatTimeForDB_Ordering(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	earlier := FormatTimeForDB(base)
	later := FormatTimeForDB(base.Add(time.Nanosecond))

	assert.Less(t, earlier, later)
}
