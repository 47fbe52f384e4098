package feed

import (
	"math/rand"
	"testing"
	"time"

	"github.com/fixlane/fixlane/internal/dashboard/domain"
	"github.com/stretchr/testify/assert"
)

func event(kind domain.SourceKind, subject string, at time.Time) domain.ActivityEvent {
	return domain.ActivityEvent{
		Kind:       kind,
		Title:      "t",
		SubjectID:  subject,
		OccurredAt: at,
	}
}

func TestMergeOrdersNewestFirst(t *testing.T) {
	base := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	events := []domain.ActivityEvent{
		event(domain.KindWorkOrder, "1", base.Add(-2*time.Hour)),
		event(domain.KindSale, "2", base),
		event(domain.KindUnlockJob, "3", base.Add(-time.Hour)),
	}

	merged := Merge(events, 5)
	assert.Len(t, merged, 3)
	for i := 1; i < len(merged); i++ {
		assert.False(t, merged[i-1].OccurredAt.Before(merged[i].OccurredAt))
	}
	assert.Equal(t, "2", merged[0].SubjectID)
}

func TestMergeTieBreakIsDeterministic(t *testing.T) {
	at := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	events := []domain.ActivityEvent{
		event(domain.KindWorkOrder, "b", at),
		event(domain.KindWorkOrder, "a", at),
		event(domain.KindSale, "a", at),
		event(domain.KindUnlockJob, "a", at),
	}

	want := Merge(events, 10)
	// Kind ascends (sale < unlock_job < work_order), then subject.
	assert.Equal(t, domain.KindSale, want[0].Kind)
	assert.Equal(t, domain.KindUnlockJob, want[1].Kind)
	assert.Equal(t, "a", want[2].SubjectID)
	assert.Equal(t, "b", want[3].SubjectID)

	// Same inputs in any order produce the same sequence, every run.
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]domain.ActivityEvent, len(events))
		copy(shuffled, events)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, Merge(shuffled, 10))
	}
}

func TestMergeTruncatesAfterSort(t *testing.T) {
	base := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)

	// Five older work orders and one fresher sale: the sale must
	// survive truncation.
	events := make([]domain.ActivityEvent, 0, 6)
	for i := 0; i < 5; i++ {
		events = append(events, event(domain.KindWorkOrder, string(rune('a'+i)), base.Add(-time.Duration(i+1)*time.Hour)))
	}
	events = append(events, event(domain.KindSale, "fresh", base))

	merged := Merge(events, 5)
	assert.Len(t, merged, 5)
	assert.Equal(t, "fresh", merged[0].SubjectID)
}

func TestMergeTruncationLength(t *testing.T) {
	base := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	events := []domain.ActivityEvent{
		event(domain.KindSale, "1", base),
		event(domain.KindSale, "2", base.Add(time.Minute)),
	}

	assert.Len(t, Merge(events, 5), 2)
	assert.Len(t, Merge(events, 1), 1)
	assert.Len(t, Merge(nil, 5), 0)
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	base := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	events := []domain.ActivityEvent{
		event(domain.KindWorkOrder, "old", base.Add(-time.Hour)),
		event(domain.KindSale, "new", base),
	}

	Merge(events, 5)
	assert.Equal(t, "old", events[0].SubjectID)
}
