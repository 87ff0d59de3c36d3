package service

import (
	"context"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/api"
	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/alexanderramin/twelveweeks/internal/stats"
)

type PlanService interface {
	List(ctx context.Context, f api.PlanFilter) (Result[[]domain.Plan], error)
	// Get returns the plan with weeks, goals and tasks loaded.
	Get(ctx context.Context, id string) (*domain.Plan, error)
	Weeks(ctx context.Context, id string) ([]domain.Week, error)
	// ResolveWeek finds the week of a plan by its 1-based number.
	ResolveWeek(ctx context.Context, planID string, number int) (domain.Week, error)
	Create(ctx context.Context, in domain.PlanInput) (*domain.Plan, error)
	Update(ctx context.Context, id string, u domain.PlanUpdate) (*domain.Plan, error)
	Archive(ctx context.Context, id string) (*domain.Plan, error)
	Complete(ctx context.Context, id string) (*domain.Plan, error)
	Activate(ctx context.Context, id string) (*domain.Plan, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, id string) (*stats.Analytics, error)
}

type GoalService interface {
	List(ctx context.Context, planID, weekID string) ([]domain.Goal, error)
	Get(ctx context.Context, planID, weekID, goalID string) (*domain.Goal, error)
	Create(ctx context.Context, planID, weekID string, in domain.GoalInput) (*domain.Goal, error)
	Update(ctx context.Context, planID, weekID, goalID string, u domain.GoalUpdate) (*domain.Goal, error)
	SetCompleted(ctx context.Context, planID, weekID, goalID string, done bool) (*domain.Goal, error)
	Delete(ctx context.Context, planID, weekID, goalID string) error
}

type TaskService interface {
	List(ctx context.Context, planID, weekID, goalID string) ([]domain.Task, error)
	Get(ctx context.Context, planID, weekID, goalID, taskID string) (*domain.Task, error)
	Create(ctx context.Context, planID, weekID, goalID string, in domain.TaskInput) (*domain.Task, error)
	Update(ctx context.Context, planID, weekID, goalID, taskID string, u domain.TaskUpdate) (*domain.Task, error)
	SetCompleted(ctx context.Context, planID, weekID, goalID, taskID string, done bool) (*domain.Task, error)
	Delete(ctx context.Context, planID, weekID, goalID, taskID string) error
}

type AuthService interface {
	Login(ctx context.Context, c domain.Credentials) (*domain.Session, error)
	Register(ctx context.Context, r domain.Registration) (*domain.Session, error)
	// Logout always clears local state, even when the server call fails.
	Logout(ctx context.Context) error
	// Restore loads the stored session and arms the token source.
	Restore(ctx context.Context) (*domain.Session, error)
	Me(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, u domain.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, p domain.PasswordChange) error
}

// Overview is everything the dashboard shows.
type Overview struct {
	// Plan is the selected plan, nil when the user has none.
	Plan  *domain.Plan
	Plans []domain.Plan

	PlansSource   Source
	Summary       stats.Summary
	SummarySource Source

	Progress       stats.Totals
	Categories     []stats.CategoryStats
	CurrentWeek    int
	CompletedWeeks int
	TotalWeeks     int

	// Offline is set when the API could not be reached and the data shown
	// is not live.
	Offline bool
	// Cause is the first error that forced a fallback.
	Cause error
}

type DashboardService interface {
	Overview(ctx context.Context, now time.Time) (*Overview, error)
	SetCurrentPlan(ctx context.Context, id string) error
	// CurrentPlanID returns "" when no plan was selected.
	CurrentPlanID(ctx context.Context) (string, error)
}

// PlansAPI is the subset of the API client the plan and dashboard
// services use. *api.Client satisfies it, as it does the interfaces below.
type PlansAPI interface {
	ListPlans(ctx context.Context, f api.PlanFilter) ([]domain.Plan, error)
	GetPlan(ctx context.Context, id string) (domain.Plan, error)
	ListWeeks(ctx context.Context, planID string) ([]domain.Week, error)
	CreatePlan(ctx context.Context, in domain.PlanInput) (domain.Plan, error)
	UpdatePlan(ctx context.Context, id string, u domain.PlanUpdate) (domain.Plan, error)
	ActivatePlan(ctx context.Context, id string) (domain.Plan, error)
	DeletePlan(ctx context.Context, id string) error
	PlansSummary(ctx context.Context) (stats.Summary, error)
	PlanTotals(ctx context.Context, id string) (stats.Totals, error)
	ListGoals(ctx context.Context, planID, weekID string) ([]domain.Goal, error)
}

type GoalsAPI interface {
	ListGoals(ctx context.Context, planID, weekID string) ([]domain.Goal, error)
	GetGoal(ctx context.Context, planID, weekID, goalID string) (domain.Goal, error)
	CreateGoal(ctx context.Context, planID, weekID string, in domain.GoalInput) (domain.Goal, error)
	UpdateGoal(ctx context.Context, planID, weekID, goalID string, u domain.GoalUpdate) (domain.Goal, error)
	SetGoalCompleted(ctx context.Context, planID, weekID, goalID string, done bool) (domain.Goal, error)
	DeleteGoal(ctx context.Context, planID, weekID, goalID string) error
}

type TasksAPI interface {
	ListTasks(ctx context.Context, planID, weekID, goalID string) ([]domain.Task, error)
	GetTask(ctx context.Context, planID, weekID, goalID, taskID string) (domain.Task, error)
	CreateTask(ctx context.Context, planID, weekID, goalID string, in domain.TaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, planID, weekID, goalID, taskID string, u domain.TaskUpdate) (domain.Task, error)
	SetTaskCompleted(ctx context.Context, planID, weekID, goalID, taskID string, done bool) (domain.Task, error)
	DeleteTask(ctx context.Context, planID, weekID, goalID, taskID string) error
}

type AuthAPI interface {
	Login(ctx context.Context, c domain.Credentials) (api.AuthResult, error)
	Register(ctx context.Context, r domain.Registration) (api.AuthResult, error)
	Me(ctx context.Context) (domain.User, error)
	UpdateProfile(ctx context.Context, u domain.ProfileUpdate) (domain.User, error)
	ChangePassword(ctx context.Context, p domain.PasswordChange) error
	Logout(ctx context.Context) error
}

var (
	_ PlansAPI = (*api.Client)(nil)
	_ GoalsAPI = (*api.Client)(nil)
	_ TasksAPI = (*api.Client)(nil)
	_ AuthAPI  = (*api.Client)(nil)
)
