package daterange

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday, 18 March 2026, 15:30 UTC.
var fixedNow = time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)

func newTestResolver() *Resolver {
	return New(func() time.Time { return fixedNow })
}

func TestExplicitDateFromBound(t *testing.T) {
	r := newTestResolver()

	got, err := r.Resolve("2026-03-10", BoundFrom)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestExplicitDateToBoundSnapsToEndOfDay(t *testing.T) {
	r := newTestResolver()

	got, err := r.Resolve("2026-03-10", BoundTo)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), got)
}

func TestExplicitDateTime(t *testing.T) {
	r := newTestResolver()

	got, err := r.Resolve("2026-03-10 14:45", BoundFrom)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 14, 45, 0, 0, time.UTC), got)
}

func TestRFC3339WithOffset(t *testing.T) {
	r := newTestResolver()

	got, err := r.Resolve("2026-03-10T12:00:00+02:00", BoundFrom)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), got)
}

func TestToday(t *testing.T) {
	r := newTestResolver()

	from, err := r.Resolve("today", BoundFrom)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC), from)

	to, err := r.Resolve("today", BoundTo)
	require.NoError(t, err)
	assert.True(t, to.After(from))
	assert.Equal(t, 18, to.Day())
}

func TestYesterdayAndTomorrow(t *testing.T) {
	r := newTestResolver()

	y, err := r.Resolve("yesterday", BoundFrom)
	require.NoError(t, err)
	assert.Equal(t, 17, y.Day())

	tm, err := r.Resolve("tomorrow", BoundFrom)
	require.NoError(t, err)
	assert.Equal(t, 19, tm.Day())
}

func TestRelativeOffsets(t *testing.T) {
	r := newTestResolver()

	got, err := r.Resolve("3 days ago", BoundFrom)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(-3*24*time.Hour), got)

	got, err = r.Resolve("2 weeks ago", BoundFrom)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(-14*24*time.Hour), got)

	// Month is 30 days by convention.
	got, err = r.Resolve("1 month ago", BoundFrom)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(-30*24*time.Hour), got)

	got, err = r.Resolve("1 day from now", BoundFrom)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(24*time.Hour), got)
}

func TestStartOfWeekIsMonday(t *testing.T) {
	r := newTestResolver()

	got, err := r.Resolve("start of week", BoundFrom)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, got.Weekday())
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), got)
}

func TestStartAndEndOfMonth(t *testing.T) {
	r := newTestResolver()

	start, err := r.Resolve("start of month", BoundFrom)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), start)

	end, err := r.Resolve("end of month", BoundTo)
	require.NoError(t, err)
	assert.Equal(t, time.March, end.Month())
	assert.Equal(t, 31, end.Day())
}

func TestUnrecognizedExpressionFails(t *testing.T) {
	r := newTestResolver()

	_, err := r.Resolve("a fortnight hence", BoundFrom)
	require.Error(t, err)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestEmptyExpressionFails(t *testing.T) {
	r := newTestResolver()

	_, err := r.Resolve("   ", BoundFrom)
	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestResolveRangeLastMonthToToday(t *testing.T) {
	r := newTestResolver()

	start, end, err := r.ResolveRange("last month", "today")
	require.NoError(t, err)
	assert.True(t, start.Before(end) || start.Equal(end), "start must not be after end")
}

func TestResolveRangeInvertedFails(t *testing.T) {
	r := newTestResolver()

	_, _, err := r.ResolveRange("today", "last month")
	require.Error(t, err)

	var rangeErr *RangeError
	assert.True(t, errors.As(err, &rangeErr))
}

func TestResolveRangeDefaults(t *testing.T) {
	r := newTestResolver()

	start, end, err := r.ResolveRange("", "")
	require.NoError(t, err)
	assert.True(t, start.IsZero(), "absent start means beginning of time")
	assert.Equal(t, fixedNow, end)
}
