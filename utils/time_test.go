package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-27")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.August, d.Month())
	assert.Equal(t, 27, d.Day())

	_, err = ParseDate("27/08/2026")
	assert.Error(t, err)
}

func TestSameCalendarDay(t *testing.T) {
	a := time.Date(2026, 8, 27, 0, 1, 0, 0, time.UTC)
	b := time.Date(2026, 8, 27, 23, 59, 0, 0, time.UTC)
	c := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameCalendarDay(a, b))
	assert.False(t, SameCalendarDay(a, c))
}

func TestIsBirthdayToday(t *testing.T) {
	dob := time.Date(1995, 8, 27, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsBirthdayToday(dob, time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)))
	assert.False(t, IsBirthdayToday(dob, time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)))
}
