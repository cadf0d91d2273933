package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fixedNow pins "now" to 2024-06-10 10:00 in the formatter's zone.
func fixedNow(t *testing.T) func() time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	now := time.Date(2024, 6, 10, 10, 0, 0, 0, loc)
	return func() time.Time { return now }
}

func TestRelative(t *testing.T) {
	f, err := NewWithClock("Asia/Kolkata", fixedNow(t))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"same day", "2024-06-10T14:00:00", "Today at 02:00 PM"},
		{"yesterday", "2024-06-09T14:00:00", "Yesterday you missed alarm at 02:00 PM"},
		{"tomorrow", "2024-06-11T08:30:00", "Tomorrow at 08:30 AM"},
		{"two days ago", "2024-06-08T14:00:00", "2 days ago you missed the alarm at 02:00 PM"},
		{"three days ago", "2024-06-07T09:15:00", "3 days ago you missed the alarm at 09:15 AM"},
		{"within the next week", "2024-06-15T09:00:00", "Next week Saturday at 09:00 AM"},
		{"exactly seven days out", "2024-06-17T18:00:00", "Next week Monday at 06:00 PM"},
		{"beyond a week", "2025-01-01T00:00:00", "January 1, 2025 at 12:00 AM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, f.Relative(tt.input))
		})
	}
}

func TestRelativePinnedZoneIgnoresInputOffset(t *testing.T) {
	f, err := NewWithClock("Asia/Kolkata", fixedNow(t))
	require.NoError(t, err)

	// 08:30 UTC is 14:00 in the pinned zone.
	require.Equal(t, "Today at 02:00 PM", f.Relative("2024-06-10T08:30:00Z"))
}

func TestRelativeUnparseableInputReturnedVerbatim(t *testing.T) {
	f, err := NewWithClock("Asia/Kolkata", fixedNow(t))
	require.NoError(t, err)

	require.Equal(t, "not-a-date", f.Relative("not-a-date"))
}

func TestNewRejectsUnknownZone(t *testing.T) {
	_, err := New("Nowhere/Invalid")
	require.Error(t, err)
}
