package internal

import (
	"fmt"
	"time"
)

const (
	// DisplayTimeFormat is the standard time format used across the application
	DisplayTimeFormat = "2006-01-02 15:04:05"
	// LogTimeFormat is the short time format used by watch output
	LogTimeFormat = "15:04:05"
)

// FormatLocal formats t in the local zone using the display format.
func FormatLocal(t time.Time) string {
	return t.Local().Format(DisplayTimeFormat)
}

// FormatRemaining renders a duration as "XhYm left", or "Expired".
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "Expired"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm left", h, m)
}

// SentinelTimestamp packs t (in UTC) into the start value the history
// endpoints expect. Every calendar field is reduced modulo the next one's
// span, so day 31 and month 12 wrap to zero.
func SentinelTimestamp(t time.Time) int64 {
	t = t.UTC()
	sec := int64(t.Second())
	min := int64(t.Minute())
	hour := int64(t.Hour())
	day := int64(t.Day())
	month := int64(t.Month())
	year := int64(t.Year())

	return sec%60 +
		(min*60)%3600 +
		(hour*3600)%86400 +
		(day*86400)%2678400 +
		(month*2678400)%32140800 +
		(year%100)*32140800
}
