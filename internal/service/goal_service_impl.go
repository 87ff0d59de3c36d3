package service

import (
	"context"

	"github.com/alexanderramin/twelveweeks/internal/domain"
)

type goalService struct {
	api      GoalsAPI
	cache    *Cache
	observer UseCaseObserver
}

func NewGoalService(client GoalsAPI, cache *Cache, observers ...UseCaseObserver) GoalService {
	return &goalService{api: client, cache: cache, observer: useCaseObserverOrNoop(observers)}
}

func (s *goalService) List(ctx context.Context, planID, weekID string) ([]domain.Goal, error) {
	if IsDemoPlan(planID) {
		return []domain.Goal{}, nil
	}
	goals, _, err := s.cache.goals.Load(ctx, goalsKey(planID, weekID), func(ctx context.Context) ([]domain.Goal, error) {
		return s.api.ListGoals(ctx, planID, weekID)
	})
	return goals, err
}

func (s *goalService) Get(ctx context.Context, planID, weekID, goalID string) (*domain.Goal, error) {
	g, err := s.api.GetGoal(ctx, planID, weekID, goalID)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *goalService) Create(ctx context.Context, planID, weekID string, in domain.GoalInput) (_ *domain.Goal, err error) {
	defer track(ctx, s.observer, "goal.create", map[string]any{"plan_id": planID, "week_id": weekID})(&err)

	if IsDemoPlan(planID) {
		return nil, ErrDemoPlan
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	g, err := s.api.CreateGoal(ctx, planID, weekID, in)
	if err != nil {
		return nil, err
	}
	s.cache.invalidatePlan(planID)
	return &g, nil
}

func (s *goalService) Update(ctx context.Context, planID, weekID, goalID string, u domain.GoalUpdate) (_ *domain.Goal, err error) {
	defer track(ctx, s.observer, "goal.update", map[string]any{"plan_id": planID, "goal_id": goalID})(&err)

	if IsDemoPlan(planID) {
		return nil, ErrDemoPlan
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	g, err := s.api.UpdateGoal(ctx, planID, weekID, goalID, u)
	if err != nil {
		return nil, err
	}
	s.cache.invalidatePlan(planID)
	return &g, nil
}

func (s *goalService) SetCompleted(ctx context.Context, planID, weekID, goalID string, done bool) (_ *domain.Goal, err error) {
	defer track(ctx, s.observer, "goal.set_completed", map[string]any{"goal_id": goalID, "done": done})(&err)

	if IsDemoPlan(planID) {
		return nil, ErrDemoPlan
	}
	g, err := s.api.SetGoalCompleted(ctx, planID, weekID, goalID, done)
	if err != nil {
		return nil, err
	}
	s.cache.invalidatePlan(planID)
	return &g, nil
}

func (s *goalService) Delete(ctx context.Context, planID, weekID, goalID string) (err error) {
	defer track(ctx, s.observer, "goal.delete", map[string]any{"goal_id": goalID})(&err)

	if IsDemoPlan(planID) {
		return ErrDemoPlan
	}
	if err := s.api.DeleteGoal(ctx, planID, weekID, goalID); err != nil {
		return err
	}
	s.cache.invalidatePlan(planID)
	return nil
}
