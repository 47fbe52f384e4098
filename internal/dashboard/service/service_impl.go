package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fixlane/fixlane/internal/clock"
	"github.com/fixlane/fixlane/internal/config"
	"github.com/fixlane/fixlane/internal/dashboard/domain"
	"github.com/fixlane/fixlane/internal/dashboard/feed"
	"github.com/fixlane/fixlane/internal/dashboard/rollup"
	"github.com/fixlane/fixlane/internal/dashboard/series"
	"github.com/fixlane/fixlane/internal/dashboard/window"
	gatewaydomain "github.com/fixlane/fixlane/internal/gateway/domain"
	obsmetrics "github.com/fixlane/fixlane/internal/observability/metrics"
	"github.com/fixlane/fixlane/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Params struct {
	fx.In

	Gateway gatewaydomain.Gateway
	Clock   clock.Clock
	Log     *zap.Logger
	Config  config.Config
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	gateway      gatewaydomain.Gateway
	clock        clock.Clock
	log          *zap.Logger
	metrics      *obsmetrics.Metrics
	loc          *time.Location
	feedLimit    int
	fetchTimeout time.Duration
}

func NewService(p Params) domain.Service {
	log := p.Log.Named("dashboard.service")

	loc, err := time.LoadLocation(p.Config.Dashboard.Timezone)
	if err != nil {
		log.Warn("invalid dashboard timezone, using UTC",
			zap.String("timezone", p.Config.Dashboard.Timezone),
			zap.Error(err),
		)
		loc = time.UTC
	}

	return &Service{
		gateway:      p.Gateway,
		clock:        p.Clock,
		log:          log,
		metrics:      p.Metrics,
		loc:          loc,
		feedLimit:    p.Config.Dashboard.FeedLimit,
		fetchTimeout: p.Config.Dashboard.FetchTimeout,
	}
}

// recordSet is one window's fetch result. Work order failures abort the
// whole assembly; unlock and sale failures are recorded here instead so
// the caller can degrade that source to an empty contribution.
type recordSet struct {
	records   rollup.Records
	unlockErr error
	saleErr   error
}

func (s *Service) GetStats(ctx context.Context) (domain.DashboardStats, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.DashboardStats{}, domain.ErrInvalidOrganization
	}

	var owner *snowflake.ID
	if ownerID, ok := orgcontext.OwnerIDFromContext(ctx); ok && ownerID != 0 {
		owner = &ownerID
	}

	start := s.clock.Now()
	ws := window.Resolve(start, s.loc)

	trailing := ws.TrailingDays(28)
	weeklySpan := ws.LastDays(28)
	// The trailing window starts before the day-aligned one and the
	// day-aligned one ends later; one fetch covers both and each metric
	// re-filters against its own window.
	trailingSpan := gatewaydomain.Window{From: trailing.From, To: weeklySpan.To}
	if weeklySpan.From.Before(trailingSpan.From) {
		trailingSpan.From = weeklySpan.From
	}
	weekSpan := ws.LastDays(7)

	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	var allTime, month, trailing28, week recordSet
	g, gctx := errgroup.WithContext(ctx)
	s.fetchWindow(gctx, g, query(orgID, owner, nil), &allTime)
	s.fetchWindow(gctx, g, query(orgID, owner, &ws.CurrentMonth), &month)
	s.fetchWindow(gctx, g, query(orgID, owner, &trailingSpan), &trailing28)
	s.fetchWindow(gctx, g, query(orgID, owner, &weekSpan), &week)

	if err := g.Wait(); err != nil {
		s.metrics.RecordFetchError(ctx, string(domain.KindWorkOrder))
		s.observe(ctx, start, "error")
		return domain.DashboardStats{}, errors.Join(domain.ErrGatewayFailure, err)
	}

	degraded := s.reportDegraded(ctx, []namedSet{
		{"all_time", &allTime},
		{"current_month", &month},
		{"trailing_28d", &trailing28},
		{"last_7d", &week},
	})

	monthEff := rollup.Efficiency(month.records, ws.CurrentMonth)
	trailingEff := rollup.Efficiency(trailing28.records, trailing)
	s.logClamped(monthEff, "current_month")
	s.logClamped(trailingEff, "trailing_28d")

	weekNum := 0
	weeklySeries := series.Build(
		lifecycleEvents(trailing28.records),
		func(ev lifecycleEvent) time.Time { return ev.at },
		ws.WeeklyBuckets(4),
		func(gatewaydomain.Window) string {
			weekNum++
			return fmt.Sprintf("W%d", weekNum)
		},
		reduceEfficiency,
	)

	dailySeries := series.Build(
		rollup.RevenueEvents(week.records),
		func(ev domain.RevenueEvent) time.Time { return ev.OccurredAt },
		ws.DailyBuckets(7),
		series.WeekdayLabel,
		func(events []domain.RevenueEvent) int { return len(events) },
	)

	stats := domain.DashboardStats{
		Stats: domain.Stats{
			CountsByStatus:     rollup.CountStatuses(allTime.records),
			Revenue:            rollup.SumRevenue(rollup.RevenueEvents(month.records)),
			Efficiency:         monthEff.Value,
			TrailingEfficiency: trailingEff.Value,
		},
		Series: domain.Series{
			WeeklyEfficiency: weeklySeries,
			DailyCompletions: dailySeries,
		},
		RecentActivity: feed.Merge(rollup.ActivityEvents(allTime.records), s.feedLimit),
	}

	outcome := "ok"
	if degraded {
		outcome = "degraded"
	}
	s.observe(ctx, start, outcome)

	return stats, nil
}

func query(orgID snowflake.ID, owner *snowflake.ID, w *gatewaydomain.Window) gatewaydomain.Query {
	return gatewaydomain.Query{OrgID: orgID, OwnerID: owner, Window: w}
}

// fetchWindow launches the three per-kind fetches for one window. Only
// a work order failure propagates through the group; the other kinds
// park their error in the slot and leave its records empty.
func (s *Service) fetchWindow(ctx context.Context, g *errgroup.Group, q gatewaydomain.Query, slot *recordSet) {
	g.Go(func() error {
		rows, err := s.gateway.FetchWorkOrders(ctx, q)
		if err != nil {
			return fmt.Errorf("fetch work orders: %w", err)
		}
		slot.records.WorkOrders = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.gateway.FetchUnlockJobs(ctx, q)
		if err != nil {
			slot.unlockErr = err
			return nil
		}
		slot.records.UnlockJobs = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.gateway.FetchSales(ctx, q)
		if err != nil {
			slot.saleErr = err
			return nil
		}
		slot.records.Sales = rows
		return nil
	})
}

type namedSet struct {
	name string
	set  *recordSet
}

func (s *Service) reportDegraded(ctx context.Context, sets []namedSet) bool {
	degraded := false
	for _, ns := range sets {
		if ns.set.unlockErr != nil {
			degraded = true
			s.log.Warn("source degraded, contributing empty set",
				zap.String("source_kind", string(domain.KindUnlockJob)),
				zap.String("window", ns.name),
				zap.Error(ns.set.unlockErr),
			)
			s.metrics.RecordDegradedSource(ctx, string(domain.KindUnlockJob))
		}
		if ns.set.saleErr != nil {
			degraded = true
			s.log.Warn("source degraded, contributing empty set",
				zap.String("source_kind", string(domain.KindSale)),
				zap.String("window", ns.name),
				zap.Error(ns.set.saleErr),
			)
			s.metrics.RecordDegradedSource(ctx, string(domain.KindSale))
		}
	}
	return degraded
}

func (s *Service) logClamped(result rollup.EfficiencyResult, windowName string) {
	if !result.Clamped {
		return
	}
	s.log.Warn("efficiency ratio clamped",
		zap.String("window", windowName),
		zap.Int("value", result.Value),
	)
}

func (s *Service) observe(ctx context.Context, start time.Time, outcome string) {
	s.metrics.RecordStatsRequest(ctx, outcome)
	s.metrics.RecordAssembleDuration(ctx, s.clock.Now().Sub(start), outcome)
}

// lifecycleEvent marks a unit of work entering the pipeline or reaching
// its terminal state, pinned to the instant the transition happened.
type lifecycleEvent struct {
	at        time.Time
	started   bool
	completed bool
}

func lifecycleEvents(r rollup.Records) []lifecycleEvent {
	events := make([]lifecycleEvent, 0, len(r.WorkOrders)+len(r.UnlockJobs)+len(r.Sales))
	for _, wo := range r.WorkOrders {
		events = append(events, lifecycleEvent{at: wo.CreatedAt, started: true})
		if wo.Status.IsTerminal() {
			events = append(events, lifecycleEvent{at: wo.UpdatedAt, completed: true})
		}
	}
	for _, uj := range r.UnlockJobs {
		events = append(events, lifecycleEvent{at: uj.CreatedAt, started: true})
		if uj.Status.IsTerminal() {
			events = append(events, lifecycleEvent{at: uj.UpdatedAt, completed: true})
		}
	}
	for _, sale := range r.Sales {
		events = append(events, lifecycleEvent{at: sale.CreatedAt, started: true, completed: true})
	}
	return events
}

func reduceEfficiency(events []lifecycleEvent) int {
	var started, completed int
	for _, ev := range events {
		if ev.started {
			started++
		}
		if ev.completed {
			completed++
		}
	}
	if started == 0 {
		return 0
	}
	value := int(math.Round(float64(completed) / float64(started) * 100))
	if value > 100 {
		return 100
	}
	if value < 0 {
		return 0
	}
	return value
}
