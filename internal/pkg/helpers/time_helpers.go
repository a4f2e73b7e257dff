package helpers

import "time"

// DateOnly truncates t to midnight UTC. Enrollment and start dates are
// date-only values; truncating on write keeps comparisons stable regardless
// of the time component the caller submitted.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
