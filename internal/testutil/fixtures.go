package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/google/uuid"
)

// Plan options
type PlanOption func(*domain.Plan)

func WithPlanStatus(s domain.PlanStatus) PlanOption {
	return func(p *domain.Plan) {
		p.Status = s
	}
}

// WithStartDate moves the plan and recomputes its week dates.
func WithStartDate(d time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.StartDate = d
		p.EndDate = d.AddDate(0, 0, 7*domain.WeeksPerPlan)
		p.Year = d.Year()
		for i := range p.Weeks {
			p.Weeks[i].StartDate = d.AddDate(0, 0, 7*i)
			p.Weeks[i].EndDate = d.AddDate(0, 0, 7*i+6)
		}
	}
}

// WithGoals appends goals to the week with the given number.
func WithGoals(week int, goals ...domain.Goal) PlanOption {
	return func(p *domain.Plan) {
		w, ok := p.WeekByNumber(week)
		if !ok {
			panic(fmt.Sprintf("plan has no week %d", week))
		}
		for _, g := range goals {
			g.WeekID = w.ID
			w.Goals = append(w.Goals, g)
		}
	}
}

// WithoutWeeks drops nested data, leaving a summary-only plan.
func WithoutWeeks() PlanOption {
	return func(p *domain.Plan) {
		p.Weeks = nil
	}
}

// WithRollups sets the API-computed counters.
func WithRollups(totalGoals, completedGoals, totalTasks, completedTasks int) PlanOption {
	return func(p *domain.Plan) {
		p.TotalGoals = totalGoals
		p.CompletedGoals = completedGoals
		p.TotalTasks = totalTasks
		p.CompletedTasks = completedTasks
	}
}

// NewTestPlan builds an active plan that started two weeks ago, with twelve
// empty weeks.
func NewTestPlan(title string, opts ...PlanOption) *domain.Plan {
	now := time.Now().UTC()
	p := &domain.Plan{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    domain.PlanActive,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := 1; i <= domain.WeeksPerPlan; i++ {
		p.Weeks = append(p.Weeks, domain.Week{
			ID:     uuid.New().String(),
			PlanID: p.ID,
			Number: i,
		})
	}
	WithStartDate(now.AddDate(0, 0, -14))(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Goal options
type GoalOption func(*domain.Goal)

func WithGoalCompleted() GoalOption {
	return func(g *domain.Goal) {
		g.Completed = true
	}
}

func WithCategory(c domain.Category) GoalOption {
	return func(g *domain.Goal) {
		g.Category = c
	}
}

// WithTasks adds total tasks, the first completed of which are done.
func WithTasks(total, completed int) GoalOption {
	return func(g *domain.Goal) {
		if g.Tasks == nil {
			g.Tasks = []domain.Task{}
		}
		for i := 0; i < total; i++ {
			g.Tasks = append(g.Tasks, domain.Task{
				ID:        uuid.New().String(),
				GoalID:    g.ID,
				Title:     fmt.Sprintf("%s task %d", g.Title, i+1),
				Priority:  domain.PriorityMedium,
				Completed: i < completed,
			})
		}
	}
}

func NewTestGoal(title string, opts ...GoalOption) domain.Goal {
	now := time.Now().UTC()
	g := domain.Goal{
		ID:        uuid.New().String(),
		Title:     title,
		Category:  domain.CategoryHealth,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

func NewTestUser(email string) domain.User {
	return domain.User{
		ID:    uuid.New().String(),
		Name:  "Test User",
		Email: email,
	}
}
