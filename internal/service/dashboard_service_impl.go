package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/api"
	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/alexanderramin/twelveweeks/internal/repository"
	"github.com/alexanderramin/twelveweeks/internal/stats"
)

type dashboardService struct {
	plans    PlanService
	api      PlansAPI
	cache    *Cache
	prefs    repository.PreferenceRepo
	observer UseCaseObserver
}

func NewDashboardService(
	plans PlanService,
	client PlansAPI,
	cache *Cache,
	prefs repository.PreferenceRepo,
	observers ...UseCaseObserver,
) DashboardService {
	return &dashboardService{
		plans:    plans,
		api:      client,
		cache:    cache,
		prefs:    prefs,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *dashboardService) Overview(ctx context.Context, now time.Time) (_ *Overview, err error) {
	defer track(ctx, s.observer, "dashboard.overview", nil)(&err)

	list, err := s.plans.List(ctx, api.PlanFilter{})
	if err != nil {
		return nil, err
	}
	ov := &Overview{
		Plans:       list.Value,
		PlansSource: list.Source,
		Offline:     list.Source == SourceDemo,
		Cause:       list.Cause,
		TotalWeeks:  domain.WeeksPerPlan,
	}

	summary, err := s.summary(ctx, list)
	if err != nil {
		return nil, err
	}
	ov.Summary = summary.Value
	ov.SummarySource = summary.Source
	if ov.Cause == nil {
		ov.Cause = summary.Cause
	}

	selected, err := s.selectPlan(ctx, list.Value)
	if err != nil {
		return nil, err
	}
	if selected == nil {
		return ov, nil
	}

	plan, err := s.plans.Get(ctx, selected.ID)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case api.IsUnavailable(err):
		// Show the list entry and its rollups.
		plan = selected
		ov.Offline = true
		if ov.Cause == nil {
			ov.Cause = err
		}
	default:
		return nil, err
	}

	ov.Plan = plan
	ov.Progress = stats.PlanTotals(*plan)
	ov.Categories = stats.CategoryBreakdown([]domain.Plan{*plan})
	ov.TotalWeeks = plan.TotalWeeks()
	ov.CurrentWeek = stats.CurrentWeek(plan.StartDate, now, ov.TotalWeeks)
	ov.CompletedWeeks = stats.CompletedWeeks(*plan, now)
	return ov, nil
}

// summary prefers the server's global stats and computes them from the
// plan list otherwise. Demo data is never sent to the server.
func (s *dashboardService) summary(ctx context.Context, list Result[[]domain.Plan]) (Result[stats.Summary], error) {
	computed := fallbackStep[stats.Summary]{when: isRecoverable, run: func(context.Context) (stats.Summary, Source, error) {
		return stats.Aggregate(list.Value), SourceComputed, nil
	}}
	if list.Source == SourceDemo {
		return runChain(ctx, fallbackStep[stats.Summary]{run: computed.run})
	}
	return runChain(ctx,
		fallbackStep[stats.Summary]{run: func(ctx context.Context) (stats.Summary, Source, error) {
			sum, origin, err := s.cache.summary.Load(ctx, summaryIdentity, s.api.PlansSummary)
			return sum, sourceOf(origin), err
		}},
		computed,
	)
}

// selectPlan picks the stored selection when it is still listed, then the
// first active plan, then the first plan.
func (s *dashboardService) selectPlan(ctx context.Context, plans []domain.Plan) (*domain.Plan, error) {
	if len(plans) == 0 {
		return nil, nil
	}
	id, err := s.CurrentPlanID(ctx)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		if id != "" && plans[i].ID == id {
			return &plans[i], nil
		}
	}
	for i := range plans {
		if plans[i].Status == domain.PlanActive {
			return &plans[i], nil
		}
	}
	return &plans[0], nil
}

func (s *dashboardService) SetCurrentPlan(ctx context.Context, id string) (err error) {
	defer track(ctx, s.observer, "dashboard.set_current_plan", map[string]any{"plan_id": id})(&err)

	if id == "" {
		return s.prefs.Delete(ctx, repository.PrefCurrentPlan)
	}
	if _, err := s.plans.Get(ctx, id); err != nil {
		return fmt.Errorf("selecting plan %s: %w", id, err)
	}
	return s.prefs.Set(ctx, repository.PrefCurrentPlan, id)
}

func (s *dashboardService) CurrentPlanID(ctx context.Context) (string, error) {
	id, err := s.prefs.Get(ctx, repository.PrefCurrentPlan)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	return id, err
}
