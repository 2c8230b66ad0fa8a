// Package dates normalizes the heterogeneous date strings arriving from the
// upstream systems onto a single zone-naive timeline. Timestamps are first
// interpreted as absolute UTC-anchored instants and then stripped of their
// zone, so subtraction across originally-mixed aware/naive inputs is well
// defined. The naive timeline is represented as time.Time values pinned to
// time.UTC.
package dates

import (
	"math"
	"strings"
	"time"
)

// zonedLayouts carry an explicit offset or zone designator; the parsed
// instant is converted to UTC before stripping.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02 15:04:05Z07:00",
	time.RFC1123Z,
	time.RFC1123,
}

// naiveLayouts carry no zone information and are read as already-naive.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
}

// Parse attempts a best-effort parse of a free-form date string and returns
// the normalized naive instant. The second return value is false when the
// input is empty or unparseable; callers treat that as an absent date, never
// as an error.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Normalize(t), true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Normalize(t), true
		}
	}
	return time.Time{}, false
}

// Normalize maps an instant onto the naive timeline: the absolute instant is
// expressed in UTC and re-pinned there, discarding the original zone.
// Normalize is idempotent: Normalize(Normalize(t)) == Normalize(t).
func Normalize(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), time.UTC)
}

// Today returns the per-request "now" reference: the current instant
// truncated to the calendar day on the naive timeline. Callers compute it
// once per request and reuse it for every date delta in that request.
func Today() time.Time {
	u := time.Now().UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed whole-day delta from `from` to `to`,
// flooring toward negative infinity so a deadline due less than a day ago
// already counts as one day overdue.
func DaysBetween(from, to time.Time) int {
	delta := to.Sub(from)
	return int(math.Floor(delta.Hours() / 24.0))
}
