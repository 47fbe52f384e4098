// Package normalize maps the three heterogeneous source-entity kinds
// into the two common derived shapes consumed by the aggregation
// pipeline: RevenueEvent and ActivityEvent.
//
// Malformed records (missing timestamps, negative amounts) are dropped,
// never raised: one bad row must never blank an entire dashboard.
package normalize

import (
	"fmt"
	"strings"

	"github.com/fixlane/fixlane/internal/dashboard/domain"
	saledomain "github.com/fixlane/fixlane/internal/sale/domain"
	unlockjobdomain "github.com/fixlane/fixlane/internal/unlockjob/domain"
	workorderdomain "github.com/fixlane/fixlane/internal/workorder/domain"
)

// activityText drives the status → feed-text mapping. Adding a status
// is a one-line table edit.
type activityText struct {
	title    string
	template string
}

var workOrderActivity = map[workorderdomain.Status]activityText{
	workorderdomain.StatusReceived:     {"Repair received", "Intake registered for %s"},
	workorderdomain.StatusDiagnosed:    {"Device diagnosed", "Diagnosis recorded for %s"},
	workorderdomain.StatusInProgress:   {"Repair in progress", "Work started on %s"},
	workorderdomain.StatusWaitingParts: {"Waiting for parts", "Parts ordered for %s"},
	workorderdomain.StatusCompleted:    {"Repair completed", "Work finished on %s"},
	workorderdomain.StatusDelivered:    {"Device delivered", "%s returned to customer"},
	workorderdomain.StatusCancelled:    {"Repair cancelled", "Work order %s cancelled"},
}

var unlockJobActivity = map[unlockjobdomain.Status]activityText{
	unlockjobdomain.StatusPending:    {"Unlock requested", "Unlock queued for %s"},
	unlockjobdomain.StatusInProgress: {"Unlock in progress", "Unlocking %s"},
	unlockjobdomain.StatusCompleted:  {"Unlock completed", "%s unlocked"},
	unlockjobdomain.StatusFailed:     {"Unlock failed", "Unlock failed for %s"},
}

// WorkOrderRevenue derives a revenue event from a work order. Only
// terminal orders with a positive cost produce revenue; the
// completion-relevant timestamp is UpdatedAt.
func WorkOrderRevenue(wo workorderdomain.WorkOrder) (domain.RevenueEvent, bool) {
	if !wo.Status.IsTerminal() {
		return domain.RevenueEvent{}, false
	}
	if wo.Cost == nil || !wo.Cost.IsPositive() {
		return domain.RevenueEvent{}, false
	}
	if wo.UpdatedAt.IsZero() {
		return domain.RevenueEvent{}, false
	}
	return domain.RevenueEvent{
		Kind:       domain.KindWorkOrder,
		Amount:     *wo.Cost,
		OccurredAt: wo.UpdatedAt,
	}, true
}

// UnlockJobRevenue derives a revenue event from an unlock job.
func UnlockJobRevenue(uj unlockjobdomain.UnlockJob) (domain.RevenueEvent, bool) {
	if uj.Status != unlockjobdomain.StatusCompleted {
		return domain.RevenueEvent{}, false
	}
	if uj.Cost == nil || !uj.Cost.IsPositive() {
		return domain.RevenueEvent{}, false
	}
	if uj.UpdatedAt.IsZero() {
		return domain.RevenueEvent{}, false
	}
	return domain.RevenueEvent{
		Kind:       domain.KindUnlockJob,
		Amount:     *uj.Cost,
		OccurredAt: uj.UpdatedAt,
	}, true
}

// SaleRevenue derives a revenue event from a sale. A sale's existence
// denotes a completed transaction, so the timestamp is CreatedAt.
func SaleRevenue(sale saledomain.SaleTransaction) (domain.RevenueEvent, bool) {
	if sale.CreatedAt.IsZero() || sale.Total.IsNegative() {
		return domain.RevenueEvent{}, false
	}
	return domain.RevenueEvent{
		Kind:       domain.KindSale,
		Amount:     sale.Total,
		OccurredAt: sale.CreatedAt,
	}, true
}

// WorkOrderActivity derives a feed entry from a work order.
func WorkOrderActivity(wo workorderdomain.WorkOrder) (domain.ActivityEvent, bool) {
	text, ok := workOrderActivity[wo.Status]
	if !ok || wo.UpdatedAt.IsZero() {
		return domain.ActivityEvent{}, false
	}
	subject := strings.TrimSpace(wo.Title)
	if subject == "" {
		subject = "device"
	}
	return domain.ActivityEvent{
		Kind:        domain.KindWorkOrder,
		Title:       text.title,
		Description: fmt.Sprintf(text.template, subject),
		SubjectID:   wo.ID.String(),
		OccurredAt:  wo.UpdatedAt,
	}, true
}

// UnlockJobActivity derives a feed entry from an unlock job.
func UnlockJobActivity(uj unlockjobdomain.UnlockJob) (domain.ActivityEvent, bool) {
	text, ok := unlockJobActivity[uj.Status]
	if !ok || uj.UpdatedAt.IsZero() {
		return domain.ActivityEvent{}, false
	}
	device := strings.TrimSpace(strings.Join([]string{uj.Brand, uj.Model}, " "))
	if device == "" {
		device = "device"
	}
	return domain.ActivityEvent{
		Kind:        domain.KindUnlockJob,
		Title:       text.title,
		Description: fmt.Sprintf(text.template, device),
		SubjectID:   uj.ID.String(),
		OccurredAt:  uj.UpdatedAt,
	}, true
}

// SaleActivity derives a feed entry from a sale.
func SaleActivity(sale saledomain.SaleTransaction) (domain.ActivityEvent, bool) {
	if sale.CreatedAt.IsZero() {
		return domain.ActivityEvent{}, false
	}
	return domain.ActivityEvent{
		Kind:        domain.KindSale,
		Title:       "Sale completed",
		Description: fmt.Sprintf("Sale of %s paid by %s", sale.Total.StringFixed(2), sale.PaymentMethod),
		SubjectID:   sale.ID.String(),
		OccurredAt:  sale.CreatedAt,
	}, true
}
