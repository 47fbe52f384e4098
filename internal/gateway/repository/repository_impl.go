package repository

import (
	"context"
	"fmt"

	"github.com/fixlane/fixlane/internal/gateway/domain"
	saledomain "github.com/fixlane/fixlane/internal/sale/domain"
	unlockjobdomain "github.com/fixlane/fixlane/internal/unlockjob/domain"
	workorderdomain "github.com/fixlane/fixlane/internal/workorder/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type repo struct {
	db  *gorm.DB
	log *zap.Logger
}

// Provide builds the gorm-backed data gateway.
func Provide(p Params) domain.Gateway {
	return &repo{
		db:  p.DB,
		log: p.Log.Named("gateway.repository"),
	}
}

func (r *repo) FetchWorkOrders(ctx context.Context, q domain.Query) ([]workorderdomain.WorkOrder, error) {
	if q.OrgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	rows := make([]workorderdomain.WorkOrder, 0)
	stmt := r.scope(ctx, q, &workorderdomain.WorkOrder{}, "updated_at")
	if err := stmt.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch work orders: %w", err)
	}
	return rows, nil
}

func (r *repo) FetchUnlockJobs(ctx context.Context, q domain.Query) ([]unlockjobdomain.UnlockJob, error) {
	if q.OrgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	rows := make([]unlockjobdomain.UnlockJob, 0)
	stmt := r.scope(ctx, q, &unlockjobdomain.UnlockJob{}, "updated_at")
	if err := stmt.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch unlock jobs: %w", err)
	}
	return rows, nil
}

func (r *repo) FetchSales(ctx context.Context, q domain.Query) ([]saledomain.SaleTransaction, error) {
	if q.OrgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	rows := make([]saledomain.SaleTransaction, 0)
	stmt := r.scope(ctx, q, &saledomain.SaleTransaction{}, "created_at")
	if err := stmt.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch sales: %w", err)
	}
	return rows, nil
}

// scope applies org/owner filters and the optional half-open window on
// the column carrying the metric-relevant timestamp for the kind.
func (r *repo) scope(ctx context.Context, q domain.Query, model any, timeColumn string) *gorm.DB {
	stmt := r.db.WithContext(ctx).
		Model(model).
		Where("org_id = ?", q.OrgID)
	if q.OwnerID != nil && *q.OwnerID != 0 {
		stmt = stmt.Where("owner_id = ?", *q.OwnerID)
	}
	if q.Window != nil {
		stmt = stmt.
			Where(timeColumn+" >= ?", q.Window.From).
			Where(timeColumn+" < ?", q.Window.To)
	}
	return stmt.Order("created_at asc, id asc")
}
