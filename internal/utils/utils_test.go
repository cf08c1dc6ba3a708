package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayStart(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 14, 15, 9, 26, 535, time.FixedZone("UTC+5", 5*3600))
	got := DayStart(ts)

	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	a := time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 8, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 7, DaysBetween(a, b))
	assert.Equal(t, -7, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}
