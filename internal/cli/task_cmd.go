package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/cli/formatter"
	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage the tasks of a goal",
	}
	cmd.AddCommand(
		newTaskListCmd(app),
		newTaskAddCmd(app),
		newTaskUpdateCmd(app),
		newTaskCompleteCmd(app, "done", "Mark a task completed", true),
		newTaskCompleteCmd(app, "undo", "Mark a task not completed", false),
		newTaskRemoveCmd(app),
	)
	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var sc scope

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rs, err := sc.resolve(ctx, app, true)
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.List(ctx, rs.planID, rs.week.ID, rs.goalID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTasks(tasks, app.now()))
			return nil
		},
	}
	sc.register(cmd, true)
	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		sc  scope
		v   taskFormValues
		due string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task to a goal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if t := optionalArg(args); t != "" {
				v.Title = t
			}
			v.Due = due
			if v.Title == "" {
				if !app.interactive() {
					return fmt.Errorf("task title is required")
				}
				if err := wizardTask(&v).Run(); err != nil {
					return err
				}
			}

			in := domain.TaskInput{Title: v.Title, Priority: v.Priority}
			if strings.TrimSpace(v.Due) != "" {
				d, err := parseDate(v.Due)
				if err != nil {
					return err
				}
				in.DueDate = &d
			}

			rs, err := sc.resolve(ctx, app, true)
			if err != nil {
				return err
			}
			task, err := app.Tasks.Create(ctx, rs.planID, rs.week.ID, rs.goalID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added task %s %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(task.Title),
				formatter.Dim(formatter.TruncID(task.ID)))
			return nil
		},
	}
	sc.register(cmd, true)
	cmd.Flags().StringVarP(&v.Title, "title", "t", "", "Task title")
	cmd.Flags().Var(newPriorityValue(&v.Priority), "priority", "Priority (low, medium, high)")
	cmd.Flags().StringVar(&due, "due", "", "Due date YYYY-MM-DD")
	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var (
		sc                 scope
		title, description string
		priority           domain.Priority
		due                *time.Time
	)

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Change a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rs, err := sc.resolve(ctx, app, true)
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(ctx, app, rs, args[0])
			if err != nil {
				return err
			}

			u := domain.TaskUpdate{DueDate: due}
			if cmd.Flags().Changed("title") {
				u.Title = &title
			}
			if cmd.Flags().Changed("description") {
				u.Description = &description
			}
			if cmd.Flags().Changed("priority") {
				u.Priority = &priority
			}
			if u == (domain.TaskUpdate{}) {
				return fmt.Errorf("nothing to update")
			}

			task, err := app.Tasks.Update(ctx, rs.planID, rs.week.ID, rs.goalID, taskID, u)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated task %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(task.Title))
			return nil
		},
	}
	sc.register(cmd, true)
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().Var(newPriorityValue(&priority), "priority", "New priority")
	cmd.Flags().Var(newDateValue(&due), "due", "Due date YYYY-MM-DD")
	return cmd
}

func newTaskCompleteCmd(app *App, use, short string, done bool) *cobra.Command {
	var sc scope

	cmd := &cobra.Command{
		Use:   use + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rs, err := sc.resolve(ctx, app, true)
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(ctx, app, rs, args[0])
			if err != nil {
				return err
			}
			task, err := app.Tasks.SetCompleted(ctx, rs.planID, rs.week.ID, rs.goalID, taskID, done)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Check(task.Completed), task.Title)
			return nil
		},
	}
	sc.register(cmd, true)
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var sc scope

	cmd := &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rs, err := sc.resolve(ctx, app, true)
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(ctx, app, rs, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Delete(ctx, rs.planID, rs.week.ID, rs.goalID, taskID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", formatter.TruncID(taskID))
			return nil
		},
	}
	sc.register(cmd, true)
	return cmd
}
