package stats

import (
	"slices"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/domain"
)

const week = 7 * 24 * time.Hour

// CurrentWeek returns the 1-based week of a plan that contains now:
// floor((now-start)/7d)+1 clamped to [1, totalWeeks]. A non-positive
// totalWeeks is treated as a standard 12-week plan.
func CurrentWeek(start, now time.Time, totalWeeks int) int {
	if totalWeeks <= 0 {
		totalWeeks = domain.WeeksPerPlan
	}
	elapsed := now.Sub(start)
	n := 1
	if elapsed > 0 {
		n = int(elapsed/week) + 1
	}
	if n > totalWeeks {
		return totalWeeks
	}
	return n
}

// WeekEnd returns the week's end date, deriving it from the plan start when
// the API did not send one.
func WeekEnd(planStart time.Time, w domain.Week) time.Time {
	if !w.EndDate.IsZero() {
		return w.EndDate
	}
	start := planStart.AddDate(0, 0, (w.Number-1)*7)
	return start.AddDate(0, 0, 6)
}

// WeekCompleted reports whether a week counts as done: flagged by the API,
// every goal completed, or already over.
func WeekCompleted(planStart time.Time, w domain.Week, now time.Time) bool {
	if w.Completed {
		return true
	}
	if len(w.Goals) > 0 {
		all := true
		for _, g := range w.Goals {
			if !g.Completed {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return WeekEnd(planStart, w).Before(now)
}

// CompletedWeeks counts the plan's weeks for which WeekCompleted holds.
func CompletedWeeks(p domain.Plan, now time.Time) int {
	n := 0
	for _, w := range p.Weeks {
		if WeekCompleted(p.StartDate, w, now) {
			n++
		}
	}
	return n
}

// WeekProgress is one row of a plan's week-by-week report.
type WeekProgress struct {
	Number int
	Totals
	CompletionRate int
}

// WeeklyProgress reports goal and task counts per loaded week, in week order.
func WeeklyProgress(p domain.Plan) []WeekProgress {
	out := make([]WeekProgress, 0, len(p.Weeks))
	for _, w := range p.Weeks {
		t := WeekTotals(w)
		out = append(out, WeekProgress{Number: w.Number, Totals: t, CompletionRate: t.GoalRate()})
	}
	slices.SortStableFunc(out, func(a, b WeekProgress) int { return a.Number - b.Number })
	return out
}

// Analytics is the per-plan report.
type Analytics struct {
	PlanID string
	Totals
	CompletionRate      int
	AverageTasksPerGoal float64
	AverageGoalsPerWeek float64

	// Zero when no week has goals.
	MostProductiveWeek  int
	LeastProductiveWeek int

	Weeks      []WeekProgress
	Categories []CategoryStats
}

// PlanAnalytics builds the per-plan report. Productivity ranks weeks with
// goals by completion rate; ties go to the earlier week.
func PlanAnalytics(p domain.Plan) Analytics {
	t := PlanTotals(p)
	a := Analytics{
		PlanID:         p.ID,
		Totals:         t,
		CompletionRate: t.GoalRate(),
		Weeks:          WeeklyProgress(p),
		Categories:     CategoryBreakdown([]domain.Plan{p}),
	}
	if t.TotalGoals > 0 {
		a.AverageTasksPerGoal = float64(t.TotalTasks) / float64(t.TotalGoals)
	}
	if weeks := p.TotalWeeks(); weeks > 0 {
		a.AverageGoalsPerWeek = float64(t.TotalGoals) / float64(weeks)
	}

	best, worst := -1, -1
	for i, w := range a.Weeks {
		if w.TotalGoals == 0 {
			continue
		}
		if best < 0 || w.CompletionRate > a.Weeks[best].CompletionRate {
			best = i
		}
		if worst < 0 || w.CompletionRate < a.Weeks[worst].CompletionRate {
			worst = i
		}
	}
	if best >= 0 {
		a.MostProductiveWeek = a.Weeks[best].Number
		a.LeastProductiveWeek = a.Weeks[worst].Number
	}
	return a
}
