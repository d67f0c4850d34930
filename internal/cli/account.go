package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/realestate/rems-frontend/internal/api"
	"github.com/realestate/rems-frontend/internal/models"
)

func newFavoritesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage saved properties (clients)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// cobra runs only the nearest persistent pre-run
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			if !e.gate().RequireClient(cmd.Context(), e.nav) {
				return errRefused
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			favs, err := e.svc.Favorites.List(cmd.Context())
			if err != nil {
				return err
			}
			return e.printJSON(favs)
		},
	}
	add := &cobra.Command{
		Use:   "add <propertyId>",
		Short: "Save a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := e.svc.Favorites.Add(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.printJSON(res)
		},
	}
	remove := &cobra.Command{
		Use:   "remove <propertyId>",
		Short: "Forget a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := e.svc.Favorites.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.printJSON(res)
		},
	}
	cmd.AddCommand(list, add, remove)
	return cmd
}

func newProfileCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	get := &cobra.Command{
		Use:   "get",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !e.gate().RequireAuth(ctx, e.nav) {
				return errRefused
			}
			u, err := e.svc.Users.Profile(ctx)
			if err != nil {
				return err
			}
			return e.printJSON(u)
		},
	}
	update := &cobra.Command{
		Use:   "update",
		Short: "Change your name and, optionally, password",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !e.gate().RequireAuth(ctx, e.nav) {
				return errRefused
			}
			name, _ := cmd.Flags().GetString("name")
			u, err := e.svc.Users.UpdateProfile(ctx, models.ProfileUpdate{Name: name, Password: password(cmd)})
			if err != nil {
				return err
			}
			if _, err := e.svc.Auth.Me(ctx); err != nil {
				fmt.Fprintf(e.errOut, "warning: session not refreshed: %s\n", describe(err))
			}
			return e.printJSON(u)
		},
	}
	update.Flags().String("name", "", "display name")
	update.Flags().String("password", "", "new password (or REMS_PASSWORD)")
	cmd.AddCommand(get, update)
	return cmd
}

func newUploadCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload listing images (agents); prints the stored paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !e.gate().RequireAgent(ctx, e.nav) {
				return errRefused
			}
			files := make([]api.UploadFile, 0, len(args))
			for _, p := range args {
				f, err := api.ReadUploadFile(p)
				if err != nil {
					return err
				}
				files = append(files, f)
			}
			paths, err := e.svc.Uploads.UploadAll(ctx, files)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(e.out, p)
			}
			return nil
		},
	}
}

func newThemeCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or toggle the UI theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(e.out, e.store.Theme(cmd.Context()))
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		RunE: func(cmd *cobra.Command, args []string) error {
			theme, err := e.store.ToggleTheme(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, theme)
			return nil
		},
	})
	return cmd
}
