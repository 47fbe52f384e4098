// Package window computes canonical calendar windows relative to a
// reference instant and timezone. All arithmetic is calendar-correct
// (AddDate, month rollback across year boundaries, leap years); fixed
// offsets like "30 days = 1 month" are never used.
package window

import (
	"time"

	gatewaydomain "github.com/fixlane/fixlane/internal/gateway/domain"
)

// Windows holds the canonical calendar windows for one reference
// instant. All windows are half-open [From, To).
type Windows struct {
	// Today covers the reference instant's local calendar day.
	Today gatewaydomain.Window
	// CurrentMonth runs from the first instant of the reference
	// month up to the reference instant. Like every Window it is
	// half-open, so a record stamped exactly at the reference
	// instant falls outside; real rows are always stamped strictly
	// before the instant the dashboard is assembled.
	CurrentMonth gatewaydomain.Window
	// PreviousMonth covers the prior calendar month in full.
	PreviousMonth gatewaydomain.Window

	ref time.Time
	loc *time.Location
}

// Resolve computes the canonical windows for ref in loc. Pure and
// deterministic; a nil loc falls back to UTC.
func Resolve(ref time.Time, loc *time.Location) Windows {
	if loc == nil {
		loc = time.UTC
	}
	local := ref.In(loc)

	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	// AddDate rolls January back to the previous December.
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	return Windows{
		Today:         gatewaydomain.Window{From: dayStart, To: dayStart.AddDate(0, 0, 1)},
		CurrentMonth:  gatewaydomain.Window{From: monthStart, To: local},
		PreviousMonth: gatewaydomain.Window{From: prevMonthStart, To: monthStart},
		ref:           local,
		loc:           loc,
	}
}

// TrailingDays returns [ref − n days, ref), anchored to the reference
// instant itself. Used for the 28-day efficiency sample.
func (w Windows) TrailingDays(n int) gatewaydomain.Window {
	return gatewaydomain.Window{From: w.ref.AddDate(0, 0, -n), To: w.ref}
}

// LastDays returns the day-aligned window covering the n calendar days
// ending with today. Bucket boundaries derived from this window are
// aligned to local midnight, not to the instant of the call, so series
// do not jitter when resolved at different times within a reporting run.
func (w Windows) LastDays(n int) gatewaydomain.Window {
	return gatewaydomain.Window{
		From: w.Today.To.AddDate(0, 0, -n),
		To:   w.Today.To,
	}
}

// DailyBuckets partitions the day-aligned last-n-days window into n
// calendar-day buckets, oldest first.
func (w Windows) DailyBuckets(n int) []gatewaydomain.Window {
	buckets := make([]gatewaydomain.Window, 0, n)
	start := w.Today.To.AddDate(0, 0, -n)
	for i := 0; i < n; i++ {
		next := start.AddDate(0, 0, 1)
		buckets = append(buckets, gatewaydomain.Window{From: start, To: next})
		start = next
	}
	return buckets
}

// WeeklyBuckets partitions the day-aligned trailing window into n
// contiguous 7-day buckets, oldest first.
func (w Windows) WeeklyBuckets(n int) []gatewaydomain.Window {
	buckets := make([]gatewaydomain.Window, 0, n)
	start := w.Today.To.AddDate(0, 0, -7*n)
	for i := 0; i < n; i++ {
		next := start.AddDate(0, 0, 7)
		buckets = append(buckets, gatewaydomain.Window{From: start, To: next})
		start = next
	}
	return buckets
}
