package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fixlane/fixlane/internal/gateway/domain"
	saledomain "github.com/fixlane/fixlane/internal/sale/domain"
	unlockjobdomain "github.com/fixlane/fixlane/internal/unlockjob/domain"
	workorderdomain "github.com/fixlane/fixlane/internal/workorder/domain"
	"github.com/fixlane/fixlane/pkg/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	orgA = snowflake.ID(100)
	orgB = snowflake.ID(200)
)

func newTestRepo(t *testing.T) (domain.Gateway, *gorm.DB) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&workorderdomain.WorkOrder{},
		&unlockjobdomain.UnlockJob{},
		&saledomain.SaleTransaction{},
	))

	return Provide(Params{DB: conn, Log: zap.NewNop()}), conn
}

func ts(day, hour int) time.Time {
	return time.Date(2025, time.March, day, hour, 0, 0, 0, time.UTC)
}

func seed(t *testing.T, conn *gorm.DB) {
	t.Helper()

	cost := decimal.RequireFromString("120.00")
	meta := datatypes.JSONMap{}
	require.NoError(t, conn.Create(&[]workorderdomain.WorkOrder{
		{ID: 1, OrgID: orgA, OwnerID: 7, Status: workorderdomain.StatusCompleted, Title: "screen", Cost: &cost, Metadata: meta, CreatedAt: ts(1, 9), UpdatedAt: ts(5, 12)},
		{ID: 2, OrgID: orgA, OwnerID: 8, Status: workorderdomain.StatusInProgress, Title: "battery", Metadata: meta, CreatedAt: ts(3, 9), UpdatedAt: ts(10, 12)},
		{ID: 3, OrgID: orgB, OwnerID: 7, Status: workorderdomain.StatusReceived, Title: "other org", Metadata: meta, CreatedAt: ts(2, 9), UpdatedAt: ts(2, 9)},
	}).Error)

	require.NoError(t, conn.Create(&[]unlockjobdomain.UnlockJob{
		{ID: 10, OrgID: orgA, OwnerID: 7, Status: unlockjobdomain.StatusCompleted, Brand: "Samsung", CreatedAt: ts(4, 9), UpdatedAt: ts(6, 12)},
		{ID: 11, OrgID: orgB, OwnerID: 7, Status: unlockjobdomain.StatusPending, Brand: "Xiaomi", CreatedAt: ts(4, 9), UpdatedAt: ts(4, 9)},
	}).Error)

	require.NoError(t, conn.Create(&[]saledomain.SaleTransaction{
		{ID: 20, OrgID: orgA, OwnerID: 7, Total: decimal.RequireFromString("9.99"), PaymentMethod: saledomain.PaymentCash, CreatedAt: ts(7, 13)},
		{ID: 21, OrgID: orgA, OwnerID: 8, Total: decimal.RequireFromString("5.00"), PaymentMethod: saledomain.PaymentCard, CreatedAt: ts(8, 13)},
		{ID: 22, OrgID: orgB, OwnerID: 7, Total: decimal.RequireFromString("1.00"), PaymentMethod: saledomain.PaymentCash, CreatedAt: ts(7, 13)},
	}).Error)
}

func TestFetchRequiresOrganization(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.FetchWorkOrders(context.Background(), domain.Query{})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestFetchScopesToOrganization(t *testing.T) {
	repo, conn := newTestRepo(t)
	seed(t, conn)

	rows, err := repo.FetchWorkOrders(context.Background(), domain.Query{OrgID: orgA})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, orgA, row.OrgID)
	}

	sales, err := repo.FetchSales(context.Background(), domain.Query{OrgID: orgA})
	require.NoError(t, err)
	assert.Len(t, sales, 2)
}

func TestFetchNarrowsToOwner(t *testing.T) {
	repo, conn := newTestRepo(t)
	seed(t, conn)

	owner := snowflake.ID(7)
	rows, err := repo.FetchWorkOrders(context.Background(), domain.Query{OrgID: orgA, OwnerID: &owner})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, snowflake.ID(1), rows[0].ID)
}

func TestFetchAppliesHalfOpenWindow(t *testing.T) {
	repo, conn := newTestRepo(t)
	seed(t, conn)

	// Work orders filter on updated_at. The window ends exactly at work
	// order 2's update instant, which must be excluded.
	w := domain.Window{From: ts(5, 12), To: ts(10, 12)}
	rows, err := repo.FetchWorkOrders(context.Background(), domain.Query{OrgID: orgA, Window: &w})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, snowflake.ID(1), rows[0].ID)

	// Sales filter on created_at.
	sw := domain.Window{From: ts(8, 0), To: ts(9, 0)}
	sales, err := repo.FetchSales(context.Background(), domain.Query{OrgID: orgA, Window: &sw})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, snowflake.ID(21), sales[0].ID)
}

func TestFetchEmptyResultIsNotError(t *testing.T) {
	repo, conn := newTestRepo(t)
	seed(t, conn)

	w := domain.Window{From: ts(20, 0), To: ts(21, 0)}
	rows, err := repo.FetchUnlockJobs(context.Background(), domain.Query{OrgID: orgA, Window: &w})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestFetchOrdersByCreation(t *testing.T) {
	repo, conn := newTestRepo(t)
	seed(t, conn)

	rows, err := repo.FetchWorkOrders(context.Background(), domain.Query{OrgID: orgA})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, !rows[0].CreatedAt.After(rows[1].CreatedAt))
}

func TestFetchRoundTripsDecimalCost(t *testing.T) {
	repo, conn := newTestRepo(t)
	seed(t, conn)

	rows, err := repo.FetchWorkOrders(context.Background(), domain.Query{OrgID: orgA})
	require.NoError(t, err)
	require.NotNil(t, rows[0].Cost)
	assert.True(t, rows[0].Cost.Equal(decimal.RequireFromString("120.00")))
}
