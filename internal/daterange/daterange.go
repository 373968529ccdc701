// Package daterange resolves human-supplied date expressions into UTC instants
// for historical queries. The vocabulary is a small closed set: explicit
// calendar dates plus relative phrases like "yesterday", "last week", or
// "3 days ago". Anything else is a ParseError.
package daterange

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Bound says which end of a range an expression is resolving, which decides
// whether a date-only input snaps to start-of-day or end-of-day.
type Bound int

const (
	BoundFrom Bound = iota
	BoundTo
)

// By convention a month is 30 days and a year 365 days for relative offsets.
const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

// ParseError reports an expression outside the recognized vocabulary.
type ParseError struct {
	Expr string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized date expression %q", e.Expr)
}

// RangeError reports a resolved start falling after the resolved end.
type RangeError struct {
	Start, End time.Time
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range: start %s is after end %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// dateLayouts are the accepted explicit-date formats, tried in order.
// The bare layouts carry no zone and are interpreted as UTC.
var dateLayouts = []struct {
	layout   string
	dateOnly bool
}{
	{time.RFC3339, false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", true},
	{"02/01/2006", true},
	{"January 2, 2006", true},
	{"Jan 2, 2006", true},
}

var relativeRe = regexp.MustCompile(`^(\d+)\s+(day|week|month|year)s?\s+(ago|from now)$`)

// Resolver converts date expressions to UTC instants. The clock is injectable
// for tests.
type Resolver struct {
	now func() time.Time
}

// New creates a Resolver using the given time source (nil means time.Now).
func New(now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{now: now}
}

// Resolve turns an expression into a concrete UTC instant. Date-only inputs
// resolve to start-of-day for BoundFrom and end-of-day for BoundTo.
func (r *Resolver) Resolve(expr string, bound Bound) (time.Time, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return time.Time{}, &ParseError{Expr: expr}
	}

	// Explicit calendar dates first.
	for _, l := range dateLayouts {
		if t, err := time.Parse(l.layout, trimmed); err == nil {
			t = t.UTC()
			if l.dateOnly {
				return snapToDay(t, bound), nil
			}
			return t, nil
		}
	}

	return r.resolveRelative(strings.ToLower(trimmed), bound)
}

// ResolveRange resolves both bounds and validates their ordering. An empty
// start means "the beginning of time"; an empty end means "now".
func (r *Resolver) ResolveRange(startExpr, endExpr string) (start, end time.Time, err error) {
	end = r.now().UTC()
	if endExpr != "" {
		end, err = r.Resolve(endExpr, BoundTo)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if startExpr != "" {
		start, err = r.Resolve(startExpr, BoundFrom)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if startExpr != "" && endExpr != "" && start.After(end) {
		return time.Time{}, time.Time{}, &RangeError{Start: start, End: end}
	}
	return start, end, nil
}

// resolveRelative handles the fixed natural-language vocabulary.
func (r *Resolver) resolveRelative(expr string, bound Bound) (time.Time, error) {
	now := r.now().UTC()

	switch expr {
	case "now":
		return now, nil
	case "today":
		return snapToDay(now, bound), nil
	case "yesterday":
		return snapToDay(now.Add(-day), bound), nil
	case "tomorrow":
		return snapToDay(now.Add(day), bound), nil
	case "last week":
		return snapToDay(now.Add(-week), bound), nil
	case "last month":
		return snapToDay(now.Add(-month), bound), nil
	case "last year":
		return snapToDay(now.Add(-year), bound), nil
	case "start of week":
		return startOfWeek(now), nil
	case "end of week":
		return startOfWeek(now).Add(week - time.Nanosecond), nil
	case "start of month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	case "end of month":
		firstOfNext := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		return firstOfNext.Add(-time.Nanosecond), nil
	}

	if m := relativeRe.FindStringSubmatch(expr); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, &ParseError{Expr: expr}
		}
		var unit time.Duration
		switch m[2] {
		case "day":
			unit = day
		case "week":
			unit = week
		case "month":
			unit = month
		case "year":
			unit = year
		}
		offset := time.Duration(n) * unit
		if m[3] == "ago" {
			return now.Add(-offset), nil
		}
		return now.Add(offset), nil
	}

	return time.Time{}, &ParseError{Expr: expr}
}

// snapToDay moves t to the start of its UTC day for a "from" bound, or the
// end of it for a "to" bound.
func snapToDay(t time.Time, bound Bound) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if bound == BoundTo {
		return d.Add(day - time.Nanosecond)
	}
	return d
}

// startOfWeek returns 00:00 UTC on the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // Sunday belongs to the week that started the previous Monday
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Add(-time.Duration(wd-1) * day)
}
