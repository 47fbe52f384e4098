package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	saledomain "github.com/fixlane/fixlane/internal/sale/domain"
	unlockjobdomain "github.com/fixlane/fixlane/internal/unlockjob/domain"
	workorderdomain "github.com/fixlane/fixlane/internal/workorder/domain"
)

// Window is a half-open time interval [From, To) used to scope which
// records participate in a metric.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// Query scopes a fetch. OrgID is mandatory; OwnerID narrows to a single
// technician's records; a nil Window requests all-time records.
type Query struct {
	OrgID   snowflake.ID
	OwnerID *snowflake.ID
	Window  *Window
}

// Gateway is the engine's only external collaborator. Implementations
// must return an empty slice, not an error, when no rows match.
type Gateway interface {
	FetchWorkOrders(ctx context.Context, q Query) ([]workorderdomain.WorkOrder, error)
	FetchUnlockJobs(ctx context.Context, q Query) ([]unlockjobdomain.UnlockJob, error)
	FetchSales(ctx context.Context, q Query) ([]saledomain.SaleTransaction, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
)
