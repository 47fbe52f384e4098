package series

import (
	"fmt"
	"testing"
	"time"

	"github.com/fixlane/fixlane/internal/dashboard/window"
	gatewaydomain "github.com/fixlane/fixlane/internal/gateway/domain"
	"github.com/stretchr/testify/assert"
)

type stamped struct {
	at   time.Time
	done bool
}

func stampedAt(s stamped) time.Time { return s.at }

func countReducer(items []stamped) int { return len(items) }

func percentDone(items []stamped) int {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, item := range items {
		if item.done {
			done++
		}
	}
	return int(float64(done)/float64(len(items))*100 + 0.5)
}

func indexLabel() func(gatewaydomain.Window) string {
	i := 0
	return func(gatewaydomain.Window) string {
		i++
		return fmt.Sprintf("W%d", i)
	}
}

func TestBuildFixedLengthWithSparseData(t *testing.T) {
	w := window.Resolve(time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC), time.UTC)
	buckets := w.WeeklyBuckets(4)

	// One lone event in the second week.
	items := []stamped{{at: buckets[1].From.Add(3 * time.Hour), done: true}}

	points := Build(items, stampedAt, buckets, indexLabel(), percentDone)
	assert.Len(t, points, 4)
	assert.Equal(t, []int{0, 100, 0, 0}, []int{points[0].Value, points[1].Value, points[2].Value, points[3].Value})
	assert.Equal(t, "W1", points[0].Label)
	assert.Equal(t, "W4", points[3].Label)
}

func TestBuildEmptyInputStillFullLength(t *testing.T) {
	w := window.Resolve(time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC), time.UTC)
	points := Build(nil, stampedAt, w.DailyBuckets(7), WeekdayLabel, countReducer)

	assert.Len(t, points, 7)
	for _, p := range points {
		assert.Equal(t, 0, p.Value)
	}
}

func TestBoundaryEventAssignedToExactlyOneBucket(t *testing.T) {
	w := window.Resolve(time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC), time.UTC)
	buckets := w.DailyBuckets(7)

	// Midnight between day 3 and day 4 belongs to day 4 only.
	boundary := buckets[3].To
	points := Build([]stamped{{at: boundary}}, stampedAt, buckets, WeekdayLabel, countReducer)

	total := 0
	for _, p := range points {
		total += p.Value
	}
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, points[4].Value)
}

func TestEventsOutsideAllBucketsAreDropped(t *testing.T) {
	w := window.Resolve(time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC), time.UTC)
	buckets := w.DailyBuckets(7)

	old := stamped{at: buckets[0].From.AddDate(0, 0, -1)}
	points := Build([]stamped{old}, stampedAt, buckets, WeekdayLabel, countReducer)
	for _, p := range points {
		assert.Equal(t, 0, p.Value)
	}
}

func TestWeekdayLabelFromBucketStart(t *testing.T) {
	// 2025-03-10 is a Monday.
	monday := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	label := WeekdayLabel(gatewaydomain.Window{From: monday, To: monday.AddDate(0, 0, 1)})
	assert.Equal(t, "Mon", label)
}

func TestDailyLabelsFollowCalendar(t *testing.T) {
	// Saturday 2025-03-15: the 7-day timeline runs Sun..Sat.
	w := window.Resolve(time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC), time.UTC)
	points := Build(nil, stampedAt, w.DailyBuckets(7), WeekdayLabel, countReducer)

	labels := make([]string, 0, len(points))
	for _, p := range points {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, labels)
}
