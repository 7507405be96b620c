package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

// TestParseRelativeTimeUnit covers various valid and invalid cases.
func TestParseRelativeTimeUnit(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{name: "plural months mixed case", input: "3 MoNtHs AgO", expected: fixedNow.AddDate(0, -3, 0)},
		{name: "singular week", input: "1 Week Ago", expected: fixedNow.AddDate(0, 0, -7)},
		{name: "upper case days", input: "10 DAYS AGO", expected: fixedNow.AddDate(0, 0, -10)},
		{name: "years", input: "2 years ago", expected: fixedNow.AddDate(-2, 0, 0)},
		{name: "hours", input: "5 hours ago", expected: fixedNow.Add(-5 * time.Hour)},
		{name: "minutes", input: "30 minutes ago", expected: fixedNow.Add(-30 * time.Minute)},
		{name: "missing ago", input: "2 years", expectError: true},
		{name: "bad unit", input: "4 decades ago", expectError: true},
		{name: "non-numeric value", input: "one year ago", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, fixedNow)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseTimeInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"rfc3339 keeps offset", "2024-05-01T08:30:00+02:00", time.Date(2024, time.May, 1, 6, 30, 0, 0, time.UTC), false},
		{"date only is utc midnight", "2024-05-01", time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), false},
		{"relative", " 1 day ago ", fixedNow.AddDate(0, 0, -1), false},
		{"garbage", "last tuesday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeInput(tt.input, fixedNow)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "want %s, got %s", tt.expected, got)
		})
	}
}

// FuzzParseRelativeTime fuzzes the ParseRelativeTime function with random inputs.
func FuzzParseRelativeTime(f *testing.F) {
	for _, seed := range []string{"1 year ago", "2 months ago", "3 weeks ago", "4 days ago", "0 years ago"} {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, input string) {
		_, _ = ParseRelativeTime(input, fixedNow)
	})
}
