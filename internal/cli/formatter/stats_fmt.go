package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/twelveweeks/internal/stats"
)

const statsBarWidth = 20

// FormatSummary renders counters across every plan.
func FormatSummary(s stats.Summary) string {
	var b strings.Builder
	b.WriteString(Header("Overview"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %d  %s  %s  %s  %s\n",
		Dim("Plans:"), s.TotalPlans,
		StyleGreen.Render(fmt.Sprintf("%d active", s.ActivePlans)),
		StyleBlue.Render(fmt.Sprintf("%d draft", s.DraftPlans)),
		Dim(fmt.Sprintf("%d completed", s.CompletedPlans)),
		Dim(fmt.Sprintf("%d archived", s.ArchivedPlans)),
	)
	fmt.Fprintf(&b, "%s %s  %s\n", Dim("Goals:"),
		RenderProgress(s.GoalCompletionRate, statsBarWidth), Ratio(s.CompletedGoals, s.TotalGoals))
	fmt.Fprintf(&b, "%s %s  %s\n", Dim("Tasks:"),
		RenderProgress(s.TaskCompletionRate, statsBarWidth), Ratio(s.CompletedTasks, s.TotalTasks))
	return b.String()
}

// FormatAnalytics renders the per-plan report.
func FormatAnalytics(title string, a *stats.Analytics) string {
	var b strings.Builder
	b.WriteString(Header(title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s  %s\n", Dim("Goals:"),
		RenderProgress(a.CompletionRate, statsBarWidth), Ratio(a.CompletedGoals, a.TotalGoals))
	fmt.Fprintf(&b, "%s %s  %s\n", Dim("Tasks:"),
		RenderProgress(a.TaskRate(), statsBarWidth), Ratio(a.CompletedTasks, a.TotalTasks))
	fmt.Fprintf(&b, "%s %.1f goals/week, %.1f tasks/goal\n", Dim("Pace: "),
		a.AverageGoalsPerWeek, a.AverageTasksPerGoal)
	if a.MostProductiveWeek > 0 {
		fmt.Fprintf(&b, "%s week %d  %s week %d\n",
			Dim("Best: "), a.MostProductiveWeek, Dim("Weakest:"), a.LeastProductiveWeek)
	}

	if len(a.Categories) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatCategories(a.Categories))
	}

	if len(a.Weeks) > 0 {
		b.WriteString("\n")
		headers := []string{"WEEK", "GOALS", "TASKS", "PROGRESS"}
		rows := make([][]string, 0, len(a.Weeks))
		for _, w := range a.Weeks {
			rows = append(rows, []string{
				fmt.Sprintf("%2d", w.Number),
				Ratio(w.CompletedGoals, w.TotalGoals),
				Ratio(w.CompletedTasks, w.TotalTasks),
				RenderProgress(w.CompletionRate, planProgressBarWidth),
			})
		}
		b.WriteString(RenderTable(headers, rows))
	}
	return b.String()
}

// FormatCategories renders the goal breakdown by category.
func FormatCategories(cats []stats.CategoryStats) string {
	headers := []string{"CATEGORY", "GOALS", "PROGRESS"}
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{
			CategoryBadge(c.Category),
			Ratio(c.CompletedGoals, c.TotalGoals),
			RenderProgress(c.CompletionRate, planProgressBarWidth),
		})
	}
	return RenderTable(headers, rows)
}
