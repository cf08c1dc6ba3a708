package utils

import "time"

// DayStart truncates a timestamp to midnight UTC. All daily records are keyed
// by these normalized dates.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b, both normalized
// to midnight UTC. Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(DayStart(b).Sub(DayStart(a)) / (24 * time.Hour))
}
