package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/twelveweeks/internal/api"
	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/alexanderramin/twelveweeks/internal/service"
	"github.com/alexanderramin/twelveweeks/internal/stats"
	"github.com/spf13/cobra"
)

// scope holds the --plan/--week/--goal flags shared by goal and task
// commands.
type scope struct {
	plan string
	week int
	goal string
}

func (s *scope) register(cmd *cobra.Command, withGoal bool) {
	cmd.Flags().StringVarP(&s.plan, "plan", "p", "", "Plan ID or prefix (default: current plan)")
	cmd.Flags().IntVarP(&s.week, "week", "w", 0, "Week number 1-12 (default: this week)")
	if withGoal {
		cmd.Flags().StringVarP(&s.goal, "goal", "g", "", "Goal ID or prefix")
		_ = cmd.MarkFlagRequired("goal")
	}
}

// resolvedScope is a scope translated to API IDs.
type resolvedScope struct {
	planID string
	week   domain.Week
	goalID string
}

func (s *scope) resolve(ctx context.Context, app *App, withGoal bool) (resolvedScope, error) {
	var rs resolvedScope
	planID, err := resolvePlanID(ctx, app, s.plan)
	if err != nil {
		return rs, err
	}
	rs.planID = planID

	number := s.week
	if number == 0 {
		number, err = currentWeekOf(ctx, app, planID)
		if err != nil {
			return rs, err
		}
	}
	rs.week, err = app.Plans.ResolveWeek(ctx, planID, number)
	if err != nil {
		return rs, err
	}

	if withGoal {
		rs.goalID, err = resolveGoalID(ctx, app, rs.planID, rs.week.ID, s.goal)
		if err != nil {
			return rs, err
		}
	}
	return rs, nil
}

func currentWeekOf(ctx context.Context, app *App, planID string) (int, error) {
	plan, err := app.Plans.Get(ctx, planID)
	if err != nil {
		return 0, err
	}
	return stats.CurrentWeek(plan.StartDate, app.now(), plan.TotalWeeks()), nil
}

// resolvePlanID resolves a plan identifier given as a full ID or a unique
// prefix. An empty input selects the current plan, falling back to the first
// active one.
func resolvePlanID(ctx context.Context, app *App, input string) (string, error) {
	if input == service.DemoPlanID {
		return input, nil
	}

	res, err := app.Plans.List(ctx, api.PlanFilter{})
	if err != nil {
		return "", err
	}
	plans := res.Value

	if input == "" {
		if current, err := app.Dashboard.CurrentPlanID(ctx); err == nil && current != "" {
			for _, p := range plans {
				if p.ID == current {
					return p.ID, nil
				}
			}
		}
		for _, p := range plans {
			if p.Status == domain.PlanActive {
				return p.ID, nil
			}
		}
		return "", fmt.Errorf("no plan selected (pass --plan or run 'twelveweeks plan use <id>')")
	}

	ids := make([]string, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}
	return matchID("plan", ids, input)
}

func resolveGoalID(ctx context.Context, app *App, planID, weekID, input string) (string, error) {
	goals, err := app.Goals.List(ctx, planID, weekID)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}
	return matchID("goal", ids, input)
}

func resolveTaskID(ctx context.Context, app *App, rs resolvedScope, input string) (string, error) {
	tasks, err := app.Tasks.List(ctx, rs.planID, rs.week.ID, rs.goalID)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return matchID("task", ids, input)
}

// matchID picks the ID equal to input, else the single ID starting with it.
func matchID(kind string, ids []string, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}
