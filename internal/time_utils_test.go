package internal

import (
	"testing"
	"time"
)

func TestSentinelTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want int64
	}{
		{
			name: "mid month",
			in:   time.Date(2026, 1, 15, 10, 30, 10, 0, time.UTC),
			// 10 + 1800 + 36000 + 15*86400 + 1*2678400 + 26*32140800
			want: 10 + 1800 + 36000 + 1296000 + 2678400 + 835660800,
		},
		{
			name: "day 31 and december wrap to zero",
			in:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
			want: 25 * 32140800,
		},
		{
			name: "converted to UTC",
			in:   time.Date(2026, 1, 15, 12, 30, 10, 0, time.FixedZone("UTC+2", 2*60*60)),
			want: 10 + 1800 + 36000 + 1296000 + 2678400 + 835660800,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SentinelTimestamp(tc.in); got != tc.want {
				t.Errorf("SentinelTimestamp(%v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatRemaining(t *testing.T) {
	if got := FormatRemaining(2*time.Hour + 5*time.Minute); got != "2h5m left" {
		t.Errorf("got %q", got)
	}
	if got := FormatRemaining(-time.Minute); got != "Expired" {
		t.Errorf("got %q", got)
	}
}
