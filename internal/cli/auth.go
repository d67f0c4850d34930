package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/internal/sessions"
)

func newAuthCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Register, log in and out, show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newRegisterCmd(e), newLoginCmd(e), newLogoutCmd(e), newWhoamiCmd(e))
	return cmd
}

// password falls back to REMS_PASSWORD so it can stay out of shell history.
func password(cmd *cobra.Command) string {
	p, _ := cmd.Flags().GetString("password")
	if p == "" {
		p = os.Getenv("REMS_PASSWORD")
	}
	return p
}

func newRegisterCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an agent or client account",
		Example: `  remsctl auth register --email ann@example.com --password 'Secret1!' --name Ann --role client`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if e.gate().RedirectIfAuthenticated(ctx, e.nav) {
				return fmt.Errorf("already logged in; run 'remsctl auth logout' first")
			}
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			role, _ := cmd.Flags().GetString("role")
			u, err := e.svc.Auth.Register(ctx, models.RegisterRequest{
				Email: email, Password: password(cmd), Name: name, Role: models.Role(role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Registered %s (%s). Log in with 'remsctl auth login'.\n", u.Email, u.Role)
			return nil
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password (or REMS_PASSWORD)")
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("role", "", "agent or client")
	return cmd
}

func newLoginCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Log in and store the session",
		Example: `  remsctl auth login --email a@b.com --password 'Secret1!'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			email, _ := cmd.Flags().GetString("email")
			resp, err := e.svc.Auth.Login(ctx, email, password(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Logged in as %s (%s)\n", resp.Email, resp.Role)
			e.gate().RedirectByRole(ctx, e.nav)
			return nil
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password (or REMS_PASSWORD)")
	return cmd
}

func newLogoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !e.store.IsAuthenticated(ctx) {
				fmt.Fprintln(e.out, "Not logged in.")
				return nil
			}
			if err := e.svc.Auth.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !e.gate().RequireAuth(ctx, e.nav) {
				return errRefused
			}
			refresh, _ := cmd.Flags().GetBool("refresh")
			if refresh {
				if _, err := e.svc.Auth.Me(ctx); err != nil {
					return err
				}
			}
			out := map[string]interface{}{"theme": e.store.Theme(ctx)}
			if u, ok := e.store.User(ctx); ok {
				out["user"] = u
			}
			if tok, ok := e.store.Token(ctx); ok {
				if exp, ok := sessions.TokenExpiry(tok); ok {
					out["tokenExpires"] = exp
				}
			}
			return e.printJSON(out)
		},
	}
	cmd.Flags().Bool("refresh", false, "reload the user record from the backend")
	return cmd
}
