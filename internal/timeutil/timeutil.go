// Package timeutil projects instants into per-user timezones and compares
// the resulting wall-clock times. All DST and offset handling is delegated
// to the tzdata-backed time package; nothing here does raw offset math.
package timeutil

import (
	"errors"
	"time"
)

// ErrInvalidTimezone marks an unknown IANA zone name. Callers fall back to
// UTC rather than abort.
var ErrInvalidTimezone = errors.New("invalid timezone")

// Location resolves an IANA zone name. An empty name means UTC.
func Location(zone string) (*time.Location, error) {
	if zone == "" || zone == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return loc, nil
}

// MinutesBetween returns the absolute distance between two instants in
// minutes. It is symmetric in its arguments.
func MinutesBetween(a, b time.Time) float64 {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d.Minutes()
}

// SameDay reports whether a and b fall on the same calendar day. Both must
// already be projected into the location that matters for the comparison.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// At returns the given wall-clock time on now's calendar day, in now's
// location.
func At(now time.Time, hour, minute int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, now.Location())
}

// DateKey formats t's calendar day as "YYYY-MM-DD", the marker format used
// to record when a recurring reminder last fired.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
