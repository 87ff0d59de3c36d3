package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/alexanderramin/twelveweeks/internal/service"
)

// FormatDashboard renders the dashboard overview.
func FormatDashboard(ov *service.Overview) string {
	var b strings.Builder

	if ov.Offline {
		b.WriteString(StyleYellow.Render("⚠ API unreachable, showing offline data"))
		b.WriteString("\n\n")
	}

	if ov.Plan == nil {
		b.WriteString(RenderBox("12 weeks", Dim("No plans yet. Create one with `twelveweeks plan create`.")))
		b.WriteString("\n")
		return b.String()
	}

	p := ov.Plan
	var info strings.Builder
	fmt.Fprintf(&info, "%s  %s\n", Bold(p.Title), StatusPill(p.Status))
	fmt.Fprintf(&info, "%s %s\n", Dim("Period:"), DateRange(p.StartDate, p.EndDate))
	fmt.Fprintf(&info, "%s %s\n", Dim("Week:  "), WeekStrip(ov.CurrentWeek, ov.CompletedWeeks, ov.TotalWeeks))
	fmt.Fprintf(&info, "%s %s  %s\n", Dim("Goals: "),
		RenderProgress(ov.Progress.GoalRate(), statsBarWidth), Ratio(ov.Progress.CompletedGoals, ov.Progress.TotalGoals))
	fmt.Fprintf(&info, "%s %s  %s", Dim("Tasks: "),
		RenderProgress(ov.Progress.TaskRate(), statsBarWidth), Ratio(ov.Progress.CompletedTasks, ov.Progress.TotalTasks))
	b.WriteString(RenderBox(fmt.Sprintf("Week %d of %d", ov.CurrentWeek, ov.TotalWeeks), info.String()))
	b.WriteString("\n\n")

	if w, ok := p.WeekByNumber(ov.CurrentWeek); ok {
		b.WriteString(Header("This week"))
		b.WriteString("\n")
		b.WriteString(formatWeekGoals(w))
		b.WriteString("\n")
	}

	if len(ov.Categories) > 0 {
		b.WriteString(FormatCategories(ov.Categories))
		b.WriteString("\n")
	}

	b.WriteString(FormatSummary(ov.Summary))
	if ov.SummarySource == service.SourceComputed && !ov.Offline {
		b.WriteString(Dim("(computed locally)") + "\n")
	}
	return b.String()
}

func formatWeekGoals(w *domain.Week) string {
	if len(w.Goals) == 0 {
		return Dim("No goals planned for this week.") + "\n"
	}
	var b strings.Builder
	for _, g := range w.Goals {
		b.WriteString(formatGoalLine(g))
		b.WriteString("\n")
	}
	return b.String()
}

// WeekStrip renders one cell per week: done, current, upcoming.
func WeekStrip(current, completed, total int) string {
	var b strings.Builder
	for n := 1; n <= total; n++ {
		switch {
		case n == current:
			b.WriteString(StyleHeader.Render("◆"))
		case n <= completed:
			b.WriteString(StyleGreen.Render("■"))
		default:
			b.WriteString(StyleDim.Render("□"))
		}
	}
	return b.String()
}
