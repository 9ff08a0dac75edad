package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/gmao/internal/ports/primary"
	"github.com/example/gmao/internal/wire"
)

// SiteCmd returns the site command
func SiteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Manage sites",
		Long:  `Create and manage the buildings that host elevators.`,
	}

	cmd.AddCommand(siteCreateCmd())
	cmd.AddCommand(siteListCmd())
	cmd.AddCommand(siteShowCmd())
	cmd.AddCommand(siteUpdateCmd())
	cmd.AddCommand(siteDeleteCmd())

	return cmd
}

type siteFields struct {
	description string
	city        string
	address     string
	category    string
}

func (f *siteFields) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Free-form description")
	cmd.Flags().StringVar(&f.city, "city", "", "City")
	cmd.Flags().StringVar(&f.address, "address", "", "Street address")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "residential, tertiary, commercial or industrial")
}

func siteCreateCmd() *cobra.Command {
	var f siteFields

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new site",
		Long: `Create a new site.

Examples:
  gmao site create "Tour Horizon" --city Lyon --address "12 quai Perrache" --category tertiary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.SiteAdapter().Create(commandContext(cmd), primary.CreateSiteRequest{
				Name:        args[0],
				Description: f.description,
				City:        f.city,
				Address:     f.address,
				Category:    f.category,
			})
			return err
		},
	}

	f.bind(cmd)
	cmd.MarkFlagRequired("city")
	cmd.MarkFlagRequired("address")
	cmd.MarkFlagRequired("category")

	return cmd
}

func siteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.SiteAdapter().List(commandContext(cmd))
			return err
		},
	}
}

func siteShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [site-id]",
		Short: "Show site details, elevator counts and technicians",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.SiteAdapter().Show(commandContext(cmd), args[0])
			return err
		},
	}
}

func siteUpdateCmd() *cobra.Command {
	var name string
	var f siteFields

	cmd := &cobra.Command{
		Use:   "update [site-id]",
		Short: "Update site details",
		Long: `Update site details. Flags left unset keep their current value.

Examples:
  gmao site update SITE-001 --address "14 quai Perrache"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			current, err := wire.SiteService().GetSite(ctx, args[0])
			if err != nil {
				return err
			}

			req := primary.UpdateSiteRequest{
				SiteID:      current.ID,
				Name:        current.Name,
				Description: current.Description,
				City:        current.City,
				Address:     current.Address,
				Category:    current.Category,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = name
			}
			if flags.Changed("description") {
				req.Description = f.description
			}
			if flags.Changed("city") {
				req.City = f.city
			}
			if flags.Changed("address") {
				req.Address = f.address
			}
			if flags.Changed("category") {
				req.Category = f.category
			}

			_, err = wire.SiteAdapter().Update(ctx, req)
			return err
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	f.bind(cmd)

	return cmd
}

func siteDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete [site-id]",
		Short: "Delete a site",
		Long: `Delete a site. A site that still hosts elevators is only deleted
with --force, which also deletes the elevators and their histories.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SiteAdapter().Delete(commandContext(cmd), args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Also delete the site's elevators")

	return cmd
}
