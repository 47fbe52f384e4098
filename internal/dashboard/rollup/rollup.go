// Package rollup reduces raw per-kind record sets and normalized
// revenue events into counts, revenue totals and efficiency ratios.
// Every function is pure; all state lives in the arguments.
package rollup

import (
	"math"

	"github.com/fixlane/fixlane/internal/dashboard/domain"
	"github.com/fixlane/fixlane/internal/dashboard/normalize"
	gatewaydomain "github.com/fixlane/fixlane/internal/gateway/domain"
	saledomain "github.com/fixlane/fixlane/internal/sale/domain"
	unlockjobdomain "github.com/fixlane/fixlane/internal/unlockjob/domain"
	workorderdomain "github.com/fixlane/fixlane/internal/workorder/domain"
	"github.com/shopspring/decimal"
)

// Records is one window's worth of raw rows for all three kinds.
type Records struct {
	WorkOrders []workorderdomain.WorkOrder
	UnlockJobs []unlockjobdomain.UnlockJob
	Sales      []saledomain.SaleTransaction
}

// CountStatuses produces the per-kind status frequency maps. Maps are
// sparse: a status appears only when observed. Sales carry no status
// column; each row counts as "completed".
func CountStatuses(r Records) map[domain.SourceKind]domain.StatusCounts {
	counts := map[domain.SourceKind]domain.StatusCounts{
		domain.KindWorkOrder: {},
		domain.KindUnlockJob: {},
		domain.KindSale:      {},
	}
	for _, wo := range r.WorkOrders {
		counts[domain.KindWorkOrder][string(wo.Status)]++
	}
	for _, uj := range r.UnlockJobs {
		counts[domain.KindUnlockJob][string(uj.Status)]++
	}
	for range r.Sales {
		counts[domain.KindSale]["completed"]++
	}
	return counts
}

// RevenueEvents normalizes every revenue-bearing record in r.
func RevenueEvents(r Records) []domain.RevenueEvent {
	events := make([]domain.RevenueEvent, 0, len(r.WorkOrders)+len(r.UnlockJobs)+len(r.Sales))
	for _, wo := range r.WorkOrders {
		if ev, ok := normalize.WorkOrderRevenue(wo); ok {
			events = append(events, ev)
		}
	}
	for _, uj := range r.UnlockJobs {
		if ev, ok := normalize.UnlockJobRevenue(uj); ok {
			events = append(events, ev)
		}
	}
	for _, sale := range r.Sales {
		if ev, ok := normalize.SaleRevenue(sale); ok {
			events = append(events, ev)
		}
	}
	return events
}

// ActivityEvents normalizes every feed-worthy record in r.
func ActivityEvents(r Records) []domain.ActivityEvent {
	events := make([]domain.ActivityEvent, 0, len(r.WorkOrders)+len(r.UnlockJobs)+len(r.Sales))
	for _, wo := range r.WorkOrders {
		if ev, ok := normalize.WorkOrderActivity(wo); ok {
			events = append(events, ev)
		}
	}
	for _, uj := range r.UnlockJobs {
		if ev, ok := normalize.UnlockJobActivity(uj); ok {
			events = append(events, ev)
		}
	}
	for _, sale := range r.Sales {
		if ev, ok := normalize.SaleActivity(sale); ok {
			events = append(events, ev)
		}
	}
	return events
}

// SumRevenue sums event amounts per kind plus the combined total using
// exact decimal arithmetic. Binary floating point would drift by
// fractions of a cent over enough rows; that is a correctness bug here,
// not a style choice.
func SumRevenue(events []domain.RevenueEvent) domain.RevenueTotals {
	totals := domain.RevenueTotals{
		Repairs: decimal.Zero,
		Unlocks: decimal.Zero,
		Sales:   decimal.Zero,
		Total:   decimal.Zero,
	}
	for _, ev := range events {
		switch ev.Kind {
		case domain.KindWorkOrder:
			totals.Repairs = totals.Repairs.Add(ev.Amount)
		case domain.KindUnlockJob:
			totals.Unlocks = totals.Unlocks.Add(ev.Amount)
		case domain.KindSale:
			totals.Sales = totals.Sales.Add(ev.Amount)
		}
	}
	totals.Total = totals.Repairs.Add(totals.Unlocks).Add(totals.Sales)
	return totals
}

// EfficiencyResult carries the clamped ratio plus whether clamping
// fired, so callers can log the invariant violation.
type EfficiencyResult struct {
	Value   int
	Clamped bool
}

// Efficiency computes completed-in-window over started-in-window as a
// percentage. Started counts records of any kind created within w;
// completed counts records whose terminal state was reached within w.
// A zero denominator yields exactly 0, never NaN and never an error.
func Efficiency(r Records, w gatewaydomain.Window) EfficiencyResult {
	var started, completed int

	for _, wo := range r.WorkOrders {
		if w.Contains(wo.CreatedAt) {
			started++
		}
		if wo.Status.IsTerminal() && w.Contains(wo.UpdatedAt) {
			completed++
		}
	}
	for _, uj := range r.UnlockJobs {
		if w.Contains(uj.CreatedAt) {
			started++
		}
		if uj.Status.IsTerminal() && w.Contains(uj.UpdatedAt) {
			completed++
		}
	}
	for _, sale := range r.Sales {
		if w.Contains(sale.CreatedAt) {
			started++
			completed++
		}
	}

	if started == 0 {
		return EfficiencyResult{Value: 0}
	}

	value := int(math.Round(float64(completed) / float64(started) * 100))
	if value > 100 {
		return EfficiencyResult{Value: 100, Clamped: true}
	}
	if value < 0 {
		return EfficiencyResult{Value: 0, Clamped: true}
	}
	return EfficiencyResult{Value: value}
}
