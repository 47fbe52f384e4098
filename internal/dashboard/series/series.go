// Package series builds fixed-length, ordered bucket series. The
// builder is generic over the item type and the reducer so the weekly
// efficiency trend and the daily completion timeline share one tested
// implementation.
package series

import (
	"time"

	"github.com/fixlane/fixlane/internal/dashboard/domain"
	gatewaydomain "github.com/fixlane/fixlane/internal/gateway/domain"
)

// Build assigns each item to the single half-open bucket containing its
// timestamp, then reduces every bucket to one value. The output always
// has exactly len(buckets) points, oldest first; empty buckets reduce
// over a nil slice and must yield a neutral value, since the series is
// charted as-is.
func Build[T any](
	items []T,
	at func(T) time.Time,
	buckets []gatewaydomain.Window,
	label func(gatewaydomain.Window) string,
	reduce func([]T) int,
) []domain.SeriesPoint {
	grouped := make([][]T, len(buckets))
	for _, item := range items {
		ts := at(item)
		for i, bucket := range buckets {
			if bucket.Contains(ts) {
				grouped[i] = append(grouped[i], item)
				break
			}
		}
	}

	points := make([]domain.SeriesPoint, 0, len(buckets))
	for i, bucket := range buckets {
		points = append(points, domain.SeriesPoint{
			Label: label(bucket),
			Value: reduce(grouped[i]),
		})
	}
	return points
}

// WeekdayLabel labels a bucket with the day-of-week of its start
// instant. Deriving the label from the bucket itself, not from "now
// minus n", keeps labels correct even when resolver and builder run at
// different instants.
func WeekdayLabel(bucket gatewaydomain.Window) string {
	return bucket.From.Format("Mon")
}
