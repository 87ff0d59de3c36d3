package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/alexanderramin/twelveweeks/internal/stats"
)

const planProgressBarWidth = 10

// FormatPlanList renders plans as a table. The plan whose ID equals
// currentID is starred.
func FormatPlanList(plans []domain.Plan, currentID string) string {
	if len(plans) == 0 {
		return Dim("No plans yet. Create one with `twelveweeks plan create`.") + "\n"
	}

	headers := []string{"", "ID", "TITLE", "STATUS", "PERIOD", "GOALS", "PROGRESS"}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		t := stats.PlanTotals(p)
		marker := " "
		if p.ID == currentID {
			marker = StyleHeader.Render("*")
		}
		rows = append(rows, []string{
			marker,
			TruncID(p.ID),
			Bold(p.Title),
			StatusPill(p.Status),
			DateRange(p.StartDate, p.EndDate),
			Ratio(t.CompletedGoals, t.TotalGoals),
			RenderProgress(t.GoalRate(), planProgressBarWidth),
		})
	}
	return RenderTable(headers, rows)
}

// FormatPlanDetail renders a plan with its weeks and goals. The week that
// contains now is highlighted.
func FormatPlanDetail(p *domain.Plan, now time.Time) string {
	var b strings.Builder

	t := stats.PlanTotals(*p)
	var info strings.Builder
	fmt.Fprintf(&info, "%s  %s\n", StatusPill(p.Status), Dim(p.ID))
	fmt.Fprintf(&info, "%s %s\n", Dim("Period:"), DateRange(p.StartDate, p.EndDate))
	if p.Description != "" {
		fmt.Fprintf(&info, "%s %s\n", Dim("About: "), p.Description)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(&info, "%s %s\n", Dim("Tags:  "), StylePurple.Render(strings.Join(p.Tags, ", ")))
	}
	fmt.Fprintf(&info, "%s %s  %s tasks\n", Dim("Goals: "),
		RenderProgress(t.GoalRate(), planProgressBarWidth), Ratio(t.CompletedTasks, t.TotalTasks))
	b.WriteString(RenderBox(p.Title, strings.TrimRight(info.String(), "\n")))
	b.WriteString("\n\n")

	if !p.HasDetail() {
		b.WriteString(Dim("Week details are not available for this plan."))
		b.WriteString("\n")
		return b.String()
	}

	current := stats.CurrentWeek(p.StartDate, now, p.TotalWeeks())
	for _, w := range p.Weeks {
		b.WriteString(formatWeekHeading(p, w, current, now))
		b.WriteString("\n")
		if len(w.Goals) == 0 {
			b.WriteString("    " + Dim("no goals") + "\n")
			continue
		}
		for _, g := range w.Goals {
			b.WriteString("    " + formatGoalLine(g) + "\n")
		}
	}
	return b.String()
}

func formatWeekHeading(p *domain.Plan, w domain.Week, current int, now time.Time) string {
	start := w.StartDate
	if start.IsZero() {
		start = p.StartDate.AddDate(0, 0, 7*(w.Number-1))
	}
	label := fmt.Sprintf("Week %2d", w.Number)
	dates := Dim(DateRange(start, stats.WeekEnd(p.StartDate, w)))
	mark := Check(stats.WeekCompleted(p.StartDate, w, now))
	if w.Number == current {
		return fmt.Sprintf("%s %s %s %s", mark, StyleHeader.Render(label), dates, StyleYellow.Render("◀ this week"))
	}
	return fmt.Sprintf("%s %s %s", mark, Bold(label), dates)
}

func formatGoalLine(g domain.Goal) string {
	line := fmt.Sprintf("%s %s  %s  %s", Check(g.Completed), g.Title, CategoryBadge(g.Category), PriorityIndicator(g.Priority))
	if len(g.Tasks) > 0 {
		t := stats.GoalTotals(g)
		line += "  " + Dim(Ratio(t.CompletedTasks, t.TotalTasks)+" tasks")
	}
	return line
}

// FormatGoals renders the goals of one week as a table.
func FormatGoals(goals []domain.Goal) string {
	if len(goals) == 0 {
		return Dim("No goals for this week.") + "\n"
	}
	headers := []string{"", "ID", "GOAL", "CATEGORY", "PRIORITY", "TASKS"}
	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		t := stats.GoalTotals(g)
		rows = append(rows, []string{
			Check(g.Completed),
			TruncID(g.ID),
			g.Title,
			CategoryBadge(g.Category),
			PriorityIndicator(g.Priority),
			Ratio(t.CompletedTasks, t.TotalTasks),
		})
	}
	return RenderTable(headers, rows)
}

// FormatTasks renders the tasks of one goal as a table. Due dates of open
// tasks are shown relative to now.
func FormatTasks(tasks []domain.Task, now time.Time) string {
	if len(tasks) == 0 {
		return Dim("No tasks for this goal.") + "\n"
	}
	headers := []string{"", "ID", "TASK", "PRIORITY", "DUE"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		due := Dim("--")
		switch {
		case t.DueDate == nil:
		case t.Completed:
			due = Dim(ShortDate(*t.DueDate))
		case t.DueDate.Before(now):
			due = StyleRed.Render(RelativeDateFrom(*t.DueDate, now))
		default:
			due = RelativeDateFrom(*t.DueDate, now)
		}
		rows = append(rows, []string{
			Check(t.Completed),
			TruncID(t.ID),
			t.Title,
			PriorityIndicator(t.Priority),
			due,
		})
	}
	return RenderTable(headers, rows)
}
