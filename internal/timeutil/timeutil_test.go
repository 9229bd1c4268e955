package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation(t *testing.T) {
	loc, err := Location("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = Location("UTC")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = Location("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())

	_, err = Location("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestMinutesBetweenIsSymmetric(t *testing.T) {
	a := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	b := a.Add(3*time.Minute + 30*time.Second)

	assert.InDelta(t, 3.5, MinutesBetween(a, b), 1e-9)
	assert.InDelta(t, 3.5, MinutesBetween(b, a), 1e-9)
	assert.Zero(t, MinutesBetween(a, a))
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, time.March, 10, 0, 1, 0, 0, time.UTC)
	night := time.Date(2026, time.March, 10, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, night))
	assert.False(t, SameDay(night, nextDay))
}

func TestSameDayDependsOnProjection(t *testing.T) {
	ny, err := Location("America/New_York")
	require.NoError(t, err)

	// 02:00 UTC on the 11th is still the evening of the 10th in New York.
	instant := time.Date(2026, time.March, 11, 2, 0, 0, 0, time.UTC)
	reference := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.False(t, SameDay(instant, reference))
	assert.True(t, SameDay(instant.In(ny), reference.In(ny)))
}

func TestStartOfDay(t *testing.T) {
	now := time.Date(2026, time.March, 10, 17, 42, 13, 500, time.UTC)
	start := StartOfDay(now)

	assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, now.Location(), start.Location())
}

func TestAt(t *testing.T) {
	ny, err := Location("America/New_York")
	require.NoError(t, err)

	now := time.Date(2026, time.July, 15, 9, 2, 30, 0, ny)
	target := At(now, 9, 0)

	assert.Equal(t, time.Date(2026, time.July, 15, 9, 0, 0, 0, ny), target)
	assert.InDelta(t, 2.5, MinutesBetween(now, target), 1e-9)
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2026-03-10", DateKey(time.Date(2026, time.March, 10, 23, 59, 0, 0, time.UTC)))
}
