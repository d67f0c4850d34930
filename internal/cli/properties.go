package cli

import (
	"github.com/spf13/cobra"

	"github.com/realestate/rems-frontend/internal/models"
)

func newPropertiesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "properties",
		Aliases: []string{"props"},
		Short:   "Browse listings; agents manage their own",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Search listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var f models.PropertyFilter
			f.Search, _ = cmd.Flags().GetString("search")
			f.MinPrice, _ = cmd.Flags().GetFloat64("min-price")
			f.MaxPrice, _ = cmd.Flags().GetFloat64("max-price")
			f.Type, _ = cmd.Flags().GetString("type")
			props, err := e.svc.Properties.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			return e.printJSON(props)
		},
	}
	list.Flags().String("search", "", "free-text search")
	list.Flags().Float64("min-price", 0, "minimum price")
	list.Flags().Float64("max-price", 0, "maximum price")
	list.Flags().String("type", "", "rent or buy")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := e.svc.Properties.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.printJSON(p)
		},
	}

	agent := &cobra.Command{
		Use:   "agent [agentId]",
		Short: "List an agent's listings (default: your own)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var agentID int64
			if len(args) == 1 {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				agentID = id
			} else {
				if !e.gate().RequireAgent(ctx, e.nav) {
					return errRefused
				}
				u, _ := e.store.User(ctx)
				agentID = u.UserID
			}
			props, err := e.svc.Properties.ByAgent(ctx, agentID)
			if err != nil {
				return err
			}
			return e.printJSON(props)
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a listing (agents)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !e.gate().RequireAgent(ctx, e.nav) {
				return errRefused
			}
			p, err := e.svc.Properties.Create(ctx, propertyInput(cmd))
			if err != nil {
				return err
			}
			return e.printJSON(p)
		},
	}
	propertyFlags(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a listing (agents)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !e.gate().RequireAgent(ctx, e.nav) {
				return errRefused
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := e.svc.Properties.Update(ctx, id, propertyInput(cmd))
			if err != nil {
				return err
			}
			return e.printJSON(p)
		},
	}
	propertyFlags(update)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a listing (agents)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !e.gate().RequireAgent(ctx, e.nav) {
				return errRefused
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := e.svc.Properties.Delete(ctx, id)
			if err != nil {
				return err
			}
			return e.printJSON(res)
		},
	}

	cmd.AddCommand(list, get, agent, create, update, del)
	return cmd
}

func propertyFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "listing title")
	cmd.Flags().String("description", "", "listing description")
	cmd.Flags().Float64("price", 0, "price (> 0)")
	cmd.Flags().String("location", "", "location")
	cmd.Flags().String("type", "", "rent or buy")
	cmd.Flags().StringSlice("image", nil, "uploaded image path (repeatable)")
}

func propertyInput(cmd *cobra.Command) models.PropertyInput {
	var in models.PropertyInput
	in.Title, _ = cmd.Flags().GetString("title")
	in.Description, _ = cmd.Flags().GetString("description")
	in.Price, _ = cmd.Flags().GetFloat64("price")
	in.Location, _ = cmd.Flags().GetString("location")
	in.Type, _ = cmd.Flags().GetString("type")
	in.Images, _ = cmd.Flags().GetStringSlice("image")
	return in
}
