package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/cli/formatter"
	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/spf13/cobra"
)

func newGoalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"goals"},
		Short:   "Manage the goals of a week",
	}
	cmd.AddCommand(
		newGoalListCmd(app),
		newGoalAddCmd(app),
		newGoalCompleteCmd(app, "done", "Mark a goal completed", true),
		newGoalCompleteCmd(app, "undo", "Mark a goal not completed", false),
		newGoalUpdateCmd(app),
		newGoalRemoveCmd(app),
	)
	return cmd
}

func newGoalListCmd(app *App) *cobra.Command {
	var sc scope

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the goals of a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rs, err := sc.resolve(ctx, app, false)
			if err != nil {
				return err
			}
			goals, err := app.Goals.List(ctx, rs.planID, rs.week.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Header(fmt.Sprintf("Week %d", rs.week.Number)))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGoals(goals))
			return nil
		},
	}
	sc.register(cmd, false)
	return cmd
}

func newGoalAddCmd(app *App) *cobra.Command {
	var (
		sc scope
		v  goalFormValues
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a goal to a week",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if t := optionalArg(args); t != "" {
				v.Title = t
			}
			if v.Title == "" {
				if !app.interactive() {
					return fmt.Errorf("goal title is required")
				}
				if err := wizardGoal(&v).Run(); err != nil {
					return err
				}
			}

			rs, err := sc.resolve(ctx, app, false)
			if err != nil {
				return err
			}
			goal, err := app.Goals.Create(ctx, rs.planID, rs.week.ID, domain.GoalInput{
				Title:       v.Title,
				Description: v.Description,
				Category:    v.Category,
				Priority:    v.Priority,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added goal %s to week %d %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(goal.Title), rs.week.Number,
				formatter.Dim(formatter.TruncID(goal.ID)))
			return nil
		},
	}
	sc.register(cmd, false)
	cmd.Flags().StringVarP(&v.Title, "title", "t", "", "Goal title")
	cmd.Flags().StringVarP(&v.Description, "description", "d", "", "Goal description")
	cmd.Flags().VarP(newCategoryValue(&v.Category), "category", "c", "Category ("+categoryNames()+")")
	cmd.Flags().Var(newPriorityValue(&v.Priority), "priority", "Priority (low, medium, high)")
	return cmd
}

func newGoalCompleteCmd(app *App, use, short string, done bool) *cobra.Command {
	var sc scope

	cmd := &cobra.Command{
		Use:   use + " <goal-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rs, err := sc.resolve(ctx, app, false)
			if err != nil {
				return err
			}
			goalID, err := resolveGoalID(ctx, app, rs.planID, rs.week.ID, args[0])
			if err != nil {
				return err
			}
			goal, err := app.Goals.SetCompleted(ctx, rs.planID, rs.week.ID, goalID, done)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Check(goal.Completed), goal.Title)
			return nil
		},
	}
	sc.register(cmd, false)
	return cmd
}

func newGoalUpdateCmd(app *App) *cobra.Command {
	var (
		sc                 scope
		title, description string
		category           domain.Category
		priority           domain.Priority
		target             *time.Time
	)

	cmd := &cobra.Command{
		Use:   "update <goal-id>",
		Short: "Change a goal's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rs, err := sc.resolve(ctx, app, false)
			if err != nil {
				return err
			}
			goalID, err := resolveGoalID(ctx, app, rs.planID, rs.week.ID, args[0])
			if err != nil {
				return err
			}

			var u domain.GoalUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				u.Title = &title
			}
			if flags.Changed("description") {
				u.Description = &description
			}
			if flags.Changed("category") {
				u.Category = &category
			}
			if flags.Changed("priority") {
				u.Priority = &priority
			}
			u.TargetDate = target
			if u == (domain.GoalUpdate{}) {
				return fmt.Errorf("nothing to update")
			}

			goal, err := app.Goals.Update(ctx, rs.planID, rs.week.ID, goalID, u)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated goal %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(goal.Title))
			return nil
		},
	}
	sc.register(cmd, false)
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().VarP(newCategoryValue(&category), "category", "c", "New category")
	cmd.Flags().Var(newPriorityValue(&priority), "priority", "New priority")
	cmd.Flags().Var(newDateValue(&target), "target", "Target date YYYY-MM-DD")
	return cmd
}

func newGoalRemoveCmd(app *App) *cobra.Command {
	var sc scope

	cmd := &cobra.Command{
		Use:     "rm <goal-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a goal and its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rs, err := sc.resolve(ctx, app, false)
			if err != nil {
				return err
			}
			goalID, err := resolveGoalID(ctx, app, rs.planID, rs.week.ID, args[0])
			if err != nil {
				return err
			}
			if err := app.Goals.Delete(ctx, rs.planID, rs.week.ID, goalID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal %s\n", formatter.TruncID(goalID))
			return nil
		},
	}
	sc.register(cmd, false)
	return cmd
}
