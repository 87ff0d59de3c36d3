package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/api"
	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/alexanderramin/twelveweeks/internal/stats"
	"golang.org/x/sync/errgroup"
)

// PlanOptions tunes how a plan detail is assembled.
type PlanOptions struct {
	// WeekGoalsTimeout bounds each per-week goal fetch. A week that does
	// not answer in time is shown without goals.
	WeekGoalsTimeout time.Duration
	// WeekConcurrency caps parallel per-week goal fetches.
	WeekConcurrency int
	// DemoFallback serves a sample plan when the API is unreachable.
	DemoFallback bool
	Clock        func() time.Time
}

func DefaultPlanOptions() PlanOptions {
	return PlanOptions{WeekGoalsTimeout: 3 * time.Second, WeekConcurrency: 4, DemoFallback: true}
}

type planService struct {
	api      PlansAPI
	cache    *Cache
	opts     PlanOptions
	observer UseCaseObserver
}

func NewPlanService(client PlansAPI, cache *Cache, opts PlanOptions, observers ...UseCaseObserver) PlanService {
	def := DefaultPlanOptions()
	if opts.WeekGoalsTimeout <= 0 {
		opts.WeekGoalsTimeout = def.WeekGoalsTimeout
	}
	if opts.WeekConcurrency <= 0 {
		opts.WeekConcurrency = def.WeekConcurrency
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &planService{api: client, cache: cache, opts: opts, observer: useCaseObserverOrNoop(observers)}
}

func (s *planService) demoAllowed(err error) bool {
	return s.opts.DemoFallback && api.IsUnavailable(err)
}

func (s *planService) List(ctx context.Context, f api.PlanFilter) (res Result[[]domain.Plan], err error) {
	fields := map[string]any{"query": f.Query()}
	defer track(ctx, s.observer, "plan.list", fields)(&err)
	defer func() { fields["source"] = string(res.Source) }()

	return runChain(ctx,
		fallbackStep[[]domain.Plan]{run: func(ctx context.Context) ([]domain.Plan, Source, error) {
			plans, origin, err := s.cache.lists.Load(ctx, listKey(f), func(ctx context.Context) ([]domain.Plan, error) {
				return s.api.ListPlans(ctx, f)
			})
			return plans, sourceOf(origin), err
		}},
		fallbackStep[[]domain.Plan]{when: s.demoAllowed, run: func(ctx context.Context) ([]domain.Plan, Source, error) {
			now := s.opts.Clock()
			if !demoMatches(f, now) {
				return []domain.Plan{}, SourceDemo, nil
			}
			return []domain.Plan{DemoPlan(now)}, SourceDemo, nil
		}},
	)
}

func (s *planService) Get(ctx context.Context, id string) (_ *domain.Plan, err error) {
	defer track(ctx, s.observer, "plan.get", map[string]any{"plan_id": id})(&err)

	if IsDemoPlan(id) {
		p := DemoPlan(s.opts.Clock())
		return &p, nil
	}
	p, _, err := s.cache.plans.Load(ctx, planKey(id), func(ctx context.Context) (domain.Plan, error) {
		return s.loadDetail(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// loadDetail fetches the plan, its weeks when the plan came without them,
// and the goals of every week that did not embed them.
func (s *planService) loadDetail(ctx context.Context, id string) (domain.Plan, error) {
	p, err := s.api.GetPlan(ctx, id)
	if err != nil {
		return domain.Plan{}, err
	}
	if len(p.Weeks) == 0 {
		weeks, err := s.Weeks(ctx, id)
		switch {
		case err == nil:
			p.Weeks = weeks
		case ctx.Err() != nil:
			return domain.Plan{}, ctx.Err()
		default:
			// Rollups on the plan still describe it.
			return p, nil
		}
	}
	p.Weeks = append([]domain.Week(nil), p.Weeks...)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.WeekConcurrency)
	for i := range p.Weeks {
		if p.Weeks[i].Goals != nil {
			continue
		}
		w := &p.Weeks[i]
		g.Go(func() error {
			w.Goals = s.weekGoals(gctx, id, w.ID)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Plan{}, err
	}
	return p, nil
}

// weekGoals never fails: a week whose goals cannot be fetched in time is
// treated as having none.
func (s *planService) weekGoals(ctx context.Context, planID, weekID string) []domain.Goal {
	wctx, cancel := context.WithTimeout(ctx, s.opts.WeekGoalsTimeout)
	defer cancel()
	goals, _, err := s.cache.goals.Load(wctx, goalsKey(planID, weekID), func(ctx context.Context) ([]domain.Goal, error) {
		return s.api.ListGoals(ctx, planID, weekID)
	})
	if err != nil || goals == nil {
		return []domain.Goal{}
	}
	return goals
}

func (s *planService) Weeks(ctx context.Context, id string) ([]domain.Week, error) {
	if IsDemoPlan(id) {
		return DemoPlan(s.opts.Clock()).Weeks, nil
	}
	weeks, _, err := s.cache.weeks.Load(ctx, weeksKey(id), func(ctx context.Context) ([]domain.Week, error) {
		return s.api.ListWeeks(ctx, id)
	})
	return weeks, err
}

func (s *planService) ResolveWeek(ctx context.Context, planID string, number int) (domain.Week, error) {
	if number < 1 || number > domain.WeeksPerPlan {
		return domain.Week{}, fmt.Errorf("week %d: %w", number, ErrWeekNotFound)
	}
	weeks, err := s.Weeks(ctx, planID)
	if err != nil {
		return domain.Week{}, err
	}
	for _, w := range weeks {
		if w.Number == number {
			return w, nil
		}
	}
	return domain.Week{}, fmt.Errorf("week %d of plan %s: %w", number, planID, ErrWeekNotFound)
}

func (s *planService) Create(ctx context.Context, in domain.PlanInput) (_ *domain.Plan, err error) {
	defer track(ctx, s.observer, "plan.create", nil)(&err)

	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.api.CreatePlan(ctx, in)
	if err != nil {
		return nil, err
	}
	s.cache.invalidateLists()
	return &p, nil
}

func (s *planService) Update(ctx context.Context, id string, u domain.PlanUpdate) (_ *domain.Plan, err error) {
	defer track(ctx, s.observer, "plan.update", map[string]any{"plan_id": id})(&err)

	if IsDemoPlan(id) {
		return nil, ErrDemoPlan
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	p, err := s.api.UpdatePlan(ctx, id, u)
	if err != nil {
		return nil, err
	}
	s.cache.invalidatePlan(id)
	return &p, nil
}

func (s *planService) setStatus(ctx context.Context, id string, status domain.PlanStatus) (*domain.Plan, error) {
	return s.Update(ctx, id, domain.PlanUpdate{Status: &status})
}

func (s *planService) Archive(ctx context.Context, id string) (*domain.Plan, error) {
	return s.setStatus(ctx, id, domain.PlanArchived)
}

func (s *planService) Complete(ctx context.Context, id string) (*domain.Plan, error) {
	return s.setStatus(ctx, id, domain.PlanCompleted)
}

func (s *planService) Activate(ctx context.Context, id string) (_ *domain.Plan, err error) {
	defer track(ctx, s.observer, "plan.activate", map[string]any{"plan_id": id})(&err)

	if IsDemoPlan(id) {
		return nil, ErrDemoPlan
	}
	p, err := s.api.ActivatePlan(ctx, id)
	if err != nil {
		return nil, err
	}
	// The server may change the status of other plans too.
	s.cache.plans.Store().Clear()
	s.cache.invalidatePlan(id)
	return &p, nil
}

func (s *planService) Delete(ctx context.Context, id string) (err error) {
	defer track(ctx, s.observer, "plan.delete", map[string]any{"plan_id": id})(&err)

	if IsDemoPlan(id) {
		return ErrDemoPlan
	}
	if err := s.api.DeletePlan(ctx, id); err != nil {
		return err
	}
	s.cache.invalidatePlan(id)
	return nil
}

func (s *planService) Stats(ctx context.Context, id string) (_ *stats.Analytics, err error) {
	defer track(ctx, s.observer, "plan.stats", map[string]any{"plan_id": id})(&err)

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	a := stats.PlanAnalytics(*p)
	if p.HasDetail() || IsDemoPlan(id) {
		return &a, nil
	}

	res, err := runChain(ctx,
		fallbackStep[stats.Totals]{run: func(ctx context.Context) (stats.Totals, Source, error) {
			t, origin, err := s.cache.totals.Load(ctx, totalsKey(id), func(ctx context.Context) (stats.Totals, error) {
				return s.api.PlanTotals(ctx, id)
			})
			return t, sourceOf(origin), err
		}},
		fallbackStep[stats.Totals]{when: isRecoverable, run: func(context.Context) (stats.Totals, Source, error) {
			return stats.PlanTotals(*p), SourceComputed, nil
		}},
	)
	if err != nil {
		return nil, err
	}
	a.Totals = res.Value
	a.CompletionRate = res.Value.GoalRate()
	if a.TotalGoals > 0 {
		a.AverageTasksPerGoal = float64(a.TotalTasks) / float64(a.TotalGoals)
	}
	a.AverageGoalsPerWeek = float64(a.TotalGoals) / float64(p.TotalWeeks())
	return &a, nil
}

// isRecoverable reports whether a computed fallback may stand in for a
// failed server call. Auth failures are surfaced so the user can log in.
func isRecoverable(err error) bool {
	return !errors.Is(err, api.ErrUnauthorized) && !errors.Is(err, api.ErrForbidden)
}
