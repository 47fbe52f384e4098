// Package feed merges normalized activity events from all source kinds
// into one bounded, deterministically ordered feed.
package feed

import (
	"sort"

	"github.com/fixlane/fixlane/internal/dashboard/domain"
)

// Merge orders events newest first and truncates to limit. Ties on the
// timestamp break by (kind, subject ID) lexical order so identical
// inputs always produce the identical sequence. Truncation happens
// after the sort: a recent event from a quiet kind outranks older
// events from a busy one.
func Merge(events []domain.ActivityEvent, limit int) []domain.ActivityEvent {
	merged := make([]domain.ActivityEvent, len(events))
	copy(merged, events)

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.After(b.OccurredAt)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.SubjectID < b.SubjectID
	})

	if limit >= 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
