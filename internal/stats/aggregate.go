// Package stats folds plans, weeks, goals and tasks into dashboard counters.
// Every function here is pure.
package stats

import (
	"math"

	"github.com/alexanderramin/twelveweeks/internal/domain"
)

// Totals holds goal and task counts.
type Totals struct {
	TotalGoals     int
	CompletedGoals int
	TotalTasks     int
	CompletedTasks int
}

func (t Totals) add(o Totals) Totals {
	return Totals{
		TotalGoals:     t.TotalGoals + o.TotalGoals,
		CompletedGoals: t.CompletedGoals + o.CompletedGoals,
		TotalTasks:     t.TotalTasks + o.TotalTasks,
		CompletedTasks: t.CompletedTasks + o.CompletedTasks,
	}
}

// GoalRate is the goal completion percentage.
func (t Totals) GoalRate() int {
	return CompletionRate(t.TotalGoals, t.CompletedGoals)
}

// TaskRate is the task completion percentage.
func (t Totals) TaskRate() int {
	return CompletionRate(t.TotalTasks, t.CompletedTasks)
}

// CompletionRate returns completed/total as a whole percentage rounded half
// up, or 0 when total is not positive. The result is clamped to [0, 100].
func CompletionRate(total, completed int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return int(math.Floor(float64(completed)*100/float64(total) + 0.5))
}

// GoalTotals counts a single goal and its tasks. A goal without a tasks
// field contributes no tasks.
func GoalTotals(g domain.Goal) Totals {
	t := Totals{TotalGoals: 1, TotalTasks: len(g.Tasks)}
	if g.Completed {
		t.CompletedGoals = 1
	}
	for _, task := range g.Tasks {
		if task.Completed {
			t.CompletedTasks++
		}
	}
	return t
}

// WeekTotals sums the goals of a week.
func WeekTotals(w domain.Week) Totals {
	var t Totals
	for _, g := range w.Goals {
		t = t.add(GoalTotals(g))
	}
	return t
}

// PlanTotals walks the plan's weeks when they are loaded. When the plan was
// fetched without nested data, the rollups reported by the API are returned
// as they are.
func PlanTotals(p domain.Plan) Totals {
	if !p.HasDetail() {
		return Totals{
			TotalGoals:     p.TotalGoals,
			CompletedGoals: p.CompletedGoals,
			TotalTasks:     p.TotalTasks,
			CompletedTasks: p.CompletedTasks,
		}
	}
	var t Totals
	for _, w := range p.Weeks {
		t = t.add(WeekTotals(w))
	}
	return t
}

// Summary is the dashboard view over a collection of plans.
type Summary struct {
	Totals
	TotalPlans     int
	DraftPlans     int
	ActivePlans    int
	CompletedPlans int
	ArchivedPlans  int

	GoalCompletionRate int
	TaskCompletionRate int
}

// Aggregate sums PlanTotals over plans and counts plans by status. The
// detailed or rollup path is chosen per plan, so a mix of fully loaded and
// summary-only plans is handled.
func Aggregate(plans []domain.Plan) Summary {
	var s Summary
	for _, p := range plans {
		s.Totals = s.Totals.add(PlanTotals(p))
		s.TotalPlans++
		switch p.Status {
		case domain.PlanDraft:
			s.DraftPlans++
		case domain.PlanActive:
			s.ActivePlans++
		case domain.PlanCompleted:
			s.CompletedPlans++
		case domain.PlanArchived:
			s.ArchivedPlans++
		}
	}
	s.GoalCompletionRate = s.GoalRate()
	s.TaskCompletionRate = s.TaskRate()
	return s
}

// CategoryStats holds counts for one goal category.
type CategoryStats struct {
	Category domain.Category
	Totals
	CompletionRate int
}

// CategoryBreakdown groups goals of loaded weeks by category. Categories
// without goals are omitted; the result follows domain.Categories order.
func CategoryBreakdown(plans []domain.Plan) []CategoryStats {
	byCat := make(map[domain.Category]Totals)
	for _, p := range plans {
		for _, w := range p.Weeks {
			for _, g := range w.Goals {
				cat := g.Category
				if cat == "" {
					cat = domain.CategoryOther
				}
				byCat[cat] = byCat[cat].add(GoalTotals(g))
			}
		}
	}

	var out []CategoryStats
	for _, cat := range domain.Categories {
		t, ok := byCat[cat]
		if !ok {
			continue
		}
		out = append(out, CategoryStats{
			Category:       cat,
			Totals:         t,
			CompletionRate: t.GoalRate(),
		})
	}
	return out
}
