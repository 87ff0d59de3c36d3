package cli

import (
	"fmt"

	"github.com/alexanderramin/twelveweeks/internal/cli/formatter"
	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in, register and manage your account",
	}
	cmd.AddCommand(
		newAuthLoginCmd(app),
		newAuthRegisterCmd(app),
		newAuthLogoutCmd(app),
		newAuthWhoamiCmd(app),
		newAuthProfileCmd(app),
		newAuthPasswdCmd(app),
	)
	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	var creds domain.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if creds.Email == "" || creds.Password == "" {
				if !app.interactive() {
					return fmt.Errorf("--email and --password are required")
				}
				if err := wizardLogin(&creds).Run(); err != nil {
					return err
				}
			}
			sess, err := app.Auth.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Logged in as %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(sess.User.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Account password")
	return cmd
}

func newAuthRegisterCmd(app *App) *cobra.Command {
	var reg domain.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if reg.Name == "" || reg.Email == "" || reg.Password == "" {
				if !app.interactive() {
					return fmt.Errorf("--name, --email and --password are required")
				}
				if err := wizardRegister(&reg).Run(); err != nil {
					return err
				}
			}
			if reg.ConfirmPassword == "" {
				reg.ConfirmPassword = reg.Password
			}
			sess, err := app.Auth.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Welcome, %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(sess.User.Name))
			return nil
		},
	}
	cmd.Flags().StringVar(&reg.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Account password")
	cmd.Flags().StringVar(&reg.ConfirmPassword, "confirm", "", "Password confirmation (default: same as --password)")
	return cmd
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newAuthWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.Auth.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUser(*user))
			return nil
		},
	}
}

func newAuthProfileCmd(app *App) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Change your name or email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var u domain.ProfileUpdate
			if cmd.Flags().Changed("name") {
				u.Name = &name
			}
			if cmd.Flags().Changed("email") {
				u.Email = &email
			}
			if u.Name == nil && u.Email == nil {
				return fmt.Errorf("nothing to update (pass --name or --email)")
			}
			user, err := app.Auth.UpdateProfile(cmd.Context(), u)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUser(*user))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&email, "email", "", "New email")
	return cmd
}

func newAuthPasswdCmd(app *App) *cobra.Command {
	var p domain.PasswordChange

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if p.CurrentPassword == "" || p.NewPassword == "" {
				if !app.interactive() {
					return fmt.Errorf("--current and --new are required")
				}
				if err := wizardPasswordChange(&p).Run(); err != nil {
					return err
				}
			}
			if p.ConfirmPassword == "" {
				p.ConfirmPassword = p.NewPassword
			}
			if err := app.Auth.ChangePassword(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Password changed.\n", formatter.StyleGreen.Render("✔"))
			return nil
		},
	}
	cmd.Flags().StringVar(&p.CurrentPassword, "current", "", "Current password")
	cmd.Flags().StringVar(&p.NewPassword, "new", "", "New password")
	cmd.Flags().StringVar(&p.ConfirmPassword, "confirm", "", "New password confirmation (default: same as --new)")
	return cmd
}
