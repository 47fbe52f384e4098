package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func TestResolveCurrentAndPreviousMonth(t *testing.T) {
	ref := time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
	w := Resolve(ref, time.UTC)

	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), w.CurrentMonth.From)
	assert.Equal(t, ref, w.CurrentMonth.To)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), w.PreviousMonth.From)
	assert.Equal(t, w.CurrentMonth.From, w.PreviousMonth.To)
}

func TestResolveJanuaryRollsBackToDecember(t *testing.T) {
	ref := time.Date(2025, time.January, 10, 8, 0, 0, 0, time.UTC)
	w := Resolve(ref, time.UTC)

	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), w.PreviousMonth.From)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), w.PreviousMonth.To)
}

func TestResolveLeapFebruary(t *testing.T) {
	// March 2024 follows a 29-day February.
	ref := time.Date(2024, time.March, 1, 0, 0, 1, 0, time.UTC)
	w := Resolve(ref, time.UTC)

	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), w.PreviousMonth.From)
	assert.Equal(t, 29*24*time.Hour, w.PreviousMonth.To.Sub(w.PreviousMonth.From))
}

func TestResolveRespectsTimezone(t *testing.T) {
	loc := mustLoc(t, "America/Mexico_City")
	// 02:00 UTC on June 2 is still June 1 locally.
	ref := time.Date(2025, time.June, 2, 2, 0, 0, 0, time.UTC)
	w := Resolve(ref, loc)

	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, loc), w.Today.From)
	assert.Equal(t, time.Date(2025, time.June, 2, 0, 0, 0, 0, loc), w.Today.To)
}

func TestCurrentMonthExcludesReferenceInstant(t *testing.T) {
	ref := time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
	w := Resolve(ref, time.UTC)

	// Half-open at the reference instant, like every other window.
	assert.True(t, w.CurrentMonth.Contains(ref.Add(-time.Nanosecond)))
	assert.False(t, w.CurrentMonth.Contains(ref))
}

func TestTrailingDaysAnchoredToInstant(t *testing.T) {
	ref := time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
	w := Resolve(ref, time.UTC)

	tw := w.TrailingDays(28)
	assert.Equal(t, time.Date(2025, time.February, 15, 14, 30, 0, 0, time.UTC), tw.From)
	assert.Equal(t, ref, tw.To)
}

func TestLastDaysAlignedToMidnight(t *testing.T) {
	morning := Resolve(time.Date(2025, time.March, 15, 7, 0, 0, 0, time.UTC), time.UTC)
	evening := Resolve(time.Date(2025, time.March, 15, 22, 45, 0, 0, time.UTC), time.UTC)

	// Same reporting day, different instants: identical buckets.
	assert.Equal(t, morning.LastDays(7), evening.LastDays(7))
	assert.Equal(t, morning.DailyBuckets(7), evening.DailyBuckets(7))
}

func TestDailyBucketsContiguousHalfOpen(t *testing.T) {
	w := Resolve(time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC), time.UTC)
	buckets := w.DailyBuckets(7)

	assert.Len(t, buckets, 7)
	for i := 1; i < len(buckets); i++ {
		assert.Equal(t, buckets[i-1].To, buckets[i].From)
	}
	boundary := buckets[3].To
	assert.False(t, buckets[3].Contains(boundary))
	assert.True(t, buckets[4].Contains(boundary))
}

func TestWeeklyBucketsCoverTrailingWindow(t *testing.T) {
	w := Resolve(time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC), time.UTC)
	buckets := w.WeeklyBuckets(4)

	assert.Len(t, buckets, 4)
	assert.Equal(t, w.LastDays(28).From, buckets[0].From)
	assert.Equal(t, w.Today.To, buckets[3].To)
	for i := 1; i < len(buckets); i++ {
		assert.Equal(t, buckets[i-1].To, buckets[i].From)
	}
}
