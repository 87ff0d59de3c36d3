package cli

import (
	"fmt"

	"github.com/alexanderramin/twelveweeks/internal/cli/formatter"
	"github.com/alexanderramin/twelveweeks/internal/service"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var planFlag string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		Long: `Show completion counters across all plans along with the report for the
selected plan. With --plan, only that plan's report is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if planFlag != "" {
				id, err := resolvePlanID(ctx, app, planFlag)
				if err != nil {
					return err
				}
				plan, err := app.Plans.Get(ctx, id)
				if err != nil {
					return err
				}
				a, err := app.Plans.Stats(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatAnalytics(plan.Title, a))
				return nil
			}

			stop := startSpinner(cmd, app, "Crunching numbers…")
			ov, err := app.Dashboard.Overview(ctx, app.now())
			stop()
			if err != nil {
				return err
			}
			warnFallback(cmd, ov.PlansSource, ov.Cause)

			fmt.Fprint(out, formatter.FormatSummary(ov.Summary))
			if ov.SummarySource == service.SourceComputed {
				fmt.Fprintln(out, formatter.Dim("(computed locally)"))
			}
			if ov.Plan == nil {
				return nil
			}

			a, err := app.Plans.Stats(ctx, ov.Plan.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatAnalytics(ov.Plan.Title, a))
			return nil
		},
	}
	cmd.Flags().StringVarP(&planFlag, "plan", "p", "", "Report on this plan only")
	return cmd
}
