package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/cli/formatter"
	"github.com/alexanderramin/twelveweeks/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Plans     service.PlanService
	Goals     service.GoalService
	Tasks     service.TaskService
	Auth      service.AuthService
	Dashboard service.DashboardService

	// Cache is cleared by the dashboard's refresh key. Optional.
	Cache *service.Cache

	// LogLevel is lowered to debug by --verbose. Optional.
	LogLevel *slog.LevelVar

	// IsInteractive reports whether the terminal can run forms and the
	// full-screen dashboard. Nil means never.
	IsInteractive func() bool

	// Now is the clock used for week calculations. Nil means time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "twelveweeks" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "twelveweeks",
		Short:         "Plan the year in twelve-week sprints",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && app.LogLevel != nil {
				app.LogLevel.Set(slog.LevelDebug)
			}
			if app.Auth == nil {
				return nil
			}
			_, err := app.Auth.Restore(cmd.Context())
			if err != nil && !errors.Is(err, service.ErrNotLoggedIn) {
				return err
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log API requests and use cases to stderr")

	root.AddCommand(
		newAuthCmd(app),
		newPlanCmd(app),
		newGoalCmd(app),
		newTaskCmd(app),
		newStatsCmd(app),
		newDashboardCmd(app),
	)

	return root
}

// startSpinner animates msg on stderr while a command waits, but only on an
// interactive terminal. The returned func stops it.
func startSpinner(cmd *cobra.Command, app *App, msg string) func() {
	if !app.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), msg)
}

// warnFallback tells the user, on stderr, that a list was not served live.
func warnFallback(cmd *cobra.Command, src service.Source, cause error) {
	if src != service.SourceDemo {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n",
		formatter.StyleYellow.Render("⚠ API unreachable, showing demo data:"),
		formatter.Dim(fmt.Sprint(cause)))
}
