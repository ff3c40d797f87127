// Package stats turns a raw collection of log entries into streak metrics,
// per-exercise aggregates with lifetime baselines, and an overall
// period-vs-history comparison. Everything here is a pure computation over a
// snapshot fetched per request; the only I/O happens through the Store
// interface the Engine holds.
package stats

import "time"

// dayFormat is the canonical calendar-day key layout.
const dayFormat = "2006-01-02"

// Day strips the time-of-day from t, returning midnight UTC of the same
// calendar day. Every date comparison and grouping in this package goes
// through Day so that two entries logged at different times (or with
// different sub-day precision) land on the same day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey returns the canonical string key for t's calendar day.
func DayKey(t time.Time) string {
	return Day(t).Format(dayFormat)
}

// spanDays returns the inclusive day count between first and last,
// so spanDays(d, d) == 1.
func spanDays(first, last time.Time) int {
	return int(Day(last).Sub(Day(first)).Hours()/24) + 1
}
