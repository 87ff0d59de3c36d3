package service

import (
	"context"

	"github.com/alexanderramin/twelveweeks/internal/domain"
)

type taskService struct {
	api      TasksAPI
	cache    *Cache
	observer UseCaseObserver
}

func NewTaskService(client TasksAPI, cache *Cache, observers ...UseCaseObserver) TaskService {
	return &taskService{api: client, cache: cache, observer: useCaseObserverOrNoop(observers)}
}

func (s *taskService) List(ctx context.Context, planID, weekID, goalID string) ([]domain.Task, error) {
	if IsDemoPlan(planID) {
		return []domain.Task{}, nil
	}
	tasks, _, err := s.cache.tasks.Load(ctx, tasksKey(planID, weekID, goalID), func(ctx context.Context) ([]domain.Task, error) {
		return s.api.ListTasks(ctx, planID, weekID, goalID)
	})
	return tasks, err
}

func (s *taskService) Get(ctx context.Context, planID, weekID, goalID, taskID string) (*domain.Task, error) {
	t, err := s.api.GetTask(ctx, planID, weekID, goalID, taskID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *taskService) Create(ctx context.Context, planID, weekID, goalID string, in domain.TaskInput) (_ *domain.Task, err error) {
	defer track(ctx, s.observer, "task.create", map[string]any{"goal_id": goalID})(&err)

	if IsDemoPlan(planID) {
		return nil, ErrDemoPlan
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t, err := s.api.CreateTask(ctx, planID, weekID, goalID, in)
	if err != nil {
		return nil, err
	}
	s.cache.invalidatePlan(planID)
	return &t, nil
}

func (s *taskService) Update(ctx context.Context, planID, weekID, goalID, taskID string, u domain.TaskUpdate) (_ *domain.Task, err error) {
	defer track(ctx, s.observer, "task.update", map[string]any{"task_id": taskID})(&err)

	if IsDemoPlan(planID) {
		return nil, ErrDemoPlan
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	t, err := s.api.UpdateTask(ctx, planID, weekID, goalID, taskID, u)
	if err != nil {
		return nil, err
	}
	s.cache.invalidatePlan(planID)
	return &t, nil
}

func (s *taskService) SetCompleted(ctx context.Context, planID, weekID, goalID, taskID string, done bool) (_ *domain.Task, err error) {
	defer track(ctx, s.observer, "task.set_completed", map[string]any{"task_id": taskID, "done": done})(&err)

	if IsDemoPlan(planID) {
		return nil, ErrDemoPlan
	}
	t, err := s.api.SetTaskCompleted(ctx, planID, weekID, goalID, taskID, done)
	if err != nil {
		return nil, err
	}
	s.cache.invalidatePlan(planID)
	return &t, nil
}

func (s *taskService) Delete(ctx context.Context, planID, weekID, goalID, taskID string) (err error) {
	defer track(ctx, s.observer, "task.delete", map[string]any{"task_id": taskID})(&err)

	if IsDemoPlan(planID) {
		return ErrDemoPlan
	}
	if err := s.api.DeleteTask(ctx, planID, weekID, goalID, taskID); err != nil {
		return err
	}
	s.cache.invalidatePlan(planID)
	return nil
}
