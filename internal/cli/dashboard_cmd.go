package cli

import (
	"fmt"

	"github.com/alexanderramin/twelveweeks/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	var static bool

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show progress of the current plan",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if static || !app.interactive() {
				ov, err := app.Dashboard.Overview(ctx, app.now())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDashboard(ov))
				return nil
			}

			p := tea.NewProgram(newDashboardModel(ctx, app),
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&static, "static", false, "Print once instead of opening the interactive view")
	return cmd
}
