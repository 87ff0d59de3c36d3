package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/api"
	"github.com/alexanderramin/twelveweeks/internal/cli/formatter"
	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plan",
		Aliases: []string{"plans"},
		Short:   "Manage twelve-week plans",
	}
	cmd.AddCommand(
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanCreateCmd(app),
		newPlanUpdateCmd(app),
		newPlanStatusCmd(app, "archive", "Archive a plan", func(ctx context.Context, id string) (*domain.Plan, error) {
			return app.Plans.Archive(ctx, id)
		}),
		newPlanStatusCmd(app, "complete", "Mark a plan completed", func(ctx context.Context, id string) (*domain.Plan, error) {
			return app.Plans.Complete(ctx, id)
		}),
		newPlanStatusCmd(app, "activate", "Make a plan the active one", func(ctx context.Context, id string) (*domain.Plan, error) {
			return app.Plans.Activate(ctx, id)
		}),
		newPlanDeleteCmd(app),
		newPlanUseCmd(app),
	)
	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	var (
		status domain.PlanStatus
		year   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stop := startSpinner(cmd, app, "Loading plans…")
			res, err := app.Plans.List(ctx, api.PlanFilter{Status: status, Year: year})
			stop()
			if err != nil {
				return err
			}
			warnFallback(cmd, res.Source, res.Cause)

			current, _ := app.Dashboard.CurrentPlanID(ctx)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(res.Value, current))
			return nil
		},
	}
	cmd.Flags().Var(newStatusValue(&status), "status", "Only plans with this status (draft, active, completed, archived)")
	cmd.Flags().IntVar(&year, "year", 0, "Only plans for this year")
	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [plan-id]",
		Short: "Show a plan with its weeks and goals",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePlanID(ctx, app, optionalArg(args))
			if err != nil {
				return err
			}
			stop := startSpinner(cmd, app, "Loading plan…")
			plan, err := app.Plans.Get(ctx, id)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanDetail(plan, app.now()))
			return nil
		},
	}
}

func newPlanCreateCmd(app *App) *cobra.Command {
	var (
		in   domain.PlanInput
		tags string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Title == "" {
				if !app.interactive() {
					return fmt.Errorf("--title is required")
				}
				v := planFormValues{Description: in.Description, Tags: tags}
				if err := wizardPlan(&v).Run(); err != nil {
					return err
				}
				in.Title, in.Description, tags = v.Title, v.Description, v.Tags
				if strings.TrimSpace(v.Start) != "" {
					start, err := parseDate(v.Start)
					if err != nil {
						return err
					}
					in.StartDate = start
				}
			}
			if in.StartDate.IsZero() {
				in.StartDate = midnight(app.now())
			}
			in.Tags = splitTags(tags)

			plan, err := app.Plans.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created plan %s %s (%s)\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(plan.Title),
				formatter.Dim(plan.DisplayID()), formatter.DateRange(plan.StartDate, plan.EndDate))
			return nil
		},
	}
	var start, end *time.Time
	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "Plan title")
	cmd.Flags().StringVarP(&in.Description, "description", "d", "", "Plan description")
	cmd.Flags().Var(newDateValue(&start), "start", "Start date YYYY-MM-DD (default: today)")
	cmd.Flags().Var(newDateValue(&end), "end", "End date YYYY-MM-DD (default: start + 12 weeks)")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if start != nil {
			in.StartDate = *start
		}
		in.EndDate = end
	}
	return cmd
}

func newPlanUpdateCmd(app *App) *cobra.Command {
	var (
		title, description, tags string
		status                   domain.PlanStatus
		start, end               *time.Time
	)

	cmd := &cobra.Command{
		Use:   "update <plan-id>",
		Short: "Change a plan's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var u domain.PlanUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				u.Title = &title
			}
			if flags.Changed("description") {
				u.Description = &description
			}
			if flags.Changed("status") {
				u.Status = &status
			}
			if flags.Changed("tags") {
				u.Tags = splitTags(tags)
				if u.Tags == nil {
					u.Tags = []string{}
				}
			}
			u.StartDate, u.EndDate = start, end
			if u.Title == nil && u.Description == nil && u.Status == nil &&
				u.Tags == nil && u.StartDate == nil && u.EndDate == nil {
				return fmt.Errorf("nothing to update")
			}

			plan, err := app.Plans.Update(ctx, id, u)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated plan %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(plan.Title))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().Var(newStatusValue(&status), "status", "New status")
	cmd.Flags().Var(newDateValue(&start), "start", "New start date YYYY-MM-DD")
	cmd.Flags().Var(newDateValue(&end), "end", "New end date YYYY-MM-DD")
	cmd.Flags().StringVar(&tags, "tags", "", "Replace tags (comma separated, empty clears)")
	return cmd
}

// newPlanStatusCmd builds the single-argument status transitions.
func newPlanStatusCmd(app *App, use, short string, transition func(ctx context.Context, id string) (*domain.Plan, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <plan-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			plan, err := transition(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(plan.Title), formatter.StatusPill(plan.Status))
			return nil
		},
	}
}

func newPlanDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete a plan and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete without --yes")
				}
				if err := wizardConfirm("Delete this plan and all of its goals?", &yes).Run(); err != nil {
					return err
				}
				if !yes {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Plans.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", formatter.TruncID(id))
			return clearCurrentPlan(ctx, app, id)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// clearCurrentPlan drops the plan selection when it points at id.
func clearCurrentPlan(ctx context.Context, app *App, id string) error {
	current, err := app.Dashboard.CurrentPlanID(ctx)
	if err != nil {
		return fmt.Errorf("reading current plan: %w", err)
	}
	if current != id {
		return nil
	}
	if err := app.Dashboard.SetCurrentPlan(ctx, ""); err != nil {
		return fmt.Errorf("clearing current plan: %w", err)
	}
	return nil
}

func newPlanUseCmd(app *App) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "use [plan-id]",
		Short: "Select the plan the dashboard and goal commands default to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if reset {
				if err := app.Dashboard.SetCurrentPlan(ctx, ""); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Plan selection cleared.")
				return nil
			}

			input := optionalArg(args)
			if input == "" {
				if !app.interactive() {
					return fmt.Errorf("plan ID is required")
				}
				res, err := app.Plans.List(ctx, api.PlanFilter{})
				if err != nil {
					return err
				}
				form := wizardSelectPlan(res.Value, &input)
				if form == nil {
					return fmt.Errorf("no plans to choose from")
				}
				if err := form.Run(); err != nil {
					return err
				}
			}

			id, err := resolvePlanID(ctx, app, input)
			if err != nil {
				return err
			}
			if err := app.Dashboard.SetCurrentPlan(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Now using plan %s\n", formatter.TruncID(id))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "clear", false, "Forget the selected plan")
	return cmd
}

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
