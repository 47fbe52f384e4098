package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceKind identifies which source entity a derived event came from.
type SourceKind string

const (
	KindWorkOrder SourceKind = "work_order"
	KindUnlockJob SourceKind = "unlock_job"
	KindSale      SourceKind = "sale"
)

// RevenueEvent is a normalized (amount, timestamp) pair derived from a
// completed unit of work of any kind. Amount is never negative.
type RevenueEvent struct {
	Kind       SourceKind
	Amount     decimal.Decimal
	OccurredAt time.Time
}

// ActivityEvent is a normalized human-readable entry for the recent
// activity feed. OccurredAt is always non-zero; records lacking a
// timestamp are excluded during normalization, never defaulted.
type ActivityEvent struct {
	Kind        SourceKind `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	SubjectID   string     `json:"subject_id"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

// StatusCounts is a sparse frequency map over a kind's status field:
// keys are present only for statuses actually observed.
type StatusCounts map[string]int

// SeriesPoint is one chartable bucket value.
type SeriesPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// RevenueTotals carries per-kind revenue sums plus the combined total.
// Amounts use exact decimal arithmetic; Total always equals
// Repairs + Unlocks + Sales.
type RevenueTotals struct {
	Repairs decimal.Decimal `json:"repairs"`
	Unlocks decimal.Decimal `json:"unlocks"`
	Sales   decimal.Decimal `json:"sales"`
	Total   decimal.Decimal `json:"total"`
}

// Stats holds the dashboard statistic cards.
//
// Efficiency is the calendar-month ratio (completed this month over
// started this month); TrailingEfficiency is the 28-day trailing
// variant. The two are deliberately distinct business definitions and
// are never merged.
type Stats struct {
	CountsByStatus     map[SourceKind]StatusCounts `json:"counts_by_status"`
	Revenue            RevenueTotals               `json:"revenue"`
	Efficiency         int                         `json:"efficiency"`
	TrailingEfficiency int                         `json:"trailing_efficiency"`
}

// Series holds the two fixed-length chart series: 4 weekly efficiency
// buckets and 7 daily completion buckets, oldest first.
type Series struct {
	WeeklyEfficiency []SeriesPoint `json:"weekly_efficiency"`
	DailyCompletions []SeriesPoint `json:"daily_completions"`
}

// DashboardStats is the assembled, immutable aggregation result.
type DashboardStats struct {
	Stats          Stats           `json:"stats"`
	Series         Series          `json:"series"`
	RecentActivity []ActivityEvent `json:"recent_activity"`
}
