package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/gmao/internal/wire"
)

// TechnicianCmd returns the technician command
func TechnicianCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "technician",
		Aliases: []string{"tech"},
		Short:   "Manage technicians",
		Long:    `Create technicians, flag their availability and link them to sites.`,
	}

	cmd.AddCommand(technicianCreateCmd())
	cmd.AddCommand(technicianListCmd())
	cmd.AddCommand(technicianShowCmd())
	cmd.AddCommand(technicianAvailabilityCmd())
	cmd.AddCommand(technicianDeleteCmd())
	cmd.AddCommand(technicianAssignSiteCmd())
	cmd.AddCommand(technicianUnassignSiteCmd())

	return cmd
}

func technicianCreateCmd() *cobra.Command {
	var specialty string

	cmd := &cobra.Command{
		Use:   "create [full-name]",
		Short: "Create a new technician",
		Long: `Create a new technician. New technicians are available.

Examples:
  gmao technician create "Karim Benali" --specialty hydraulics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.TechnicianAdapter().Create(commandContext(cmd), args[0], specialty)
			return err
		},
	}

	cmd.Flags().StringVar(&specialty, "specialty", "", "Specialty")
	cmd.MarkFlagRequired("specialty")

	return cmd
}

func technicianListCmd() *cobra.Command {
	var siteID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List technicians",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.TechnicianAdapter().List(commandContext(cmd), siteID)
			return err
		},
	}

	cmd.Flags().StringVarP(&siteID, "site", "s", "", "Only technicians covering this site")

	return cmd
}

func technicianShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [technician-id]",
		Short: "Show technician details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.TechnicianAdapter().Show(commandContext(cmd), args[0])
			return err
		},
	}
}

func technicianAvailabilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "availability [technician-id] [true|false]",
		Short: "Flag a technician as available or not",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			available, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid availability %q: expected true or false", args[1])
			}
			_, err = wire.TechnicianAdapter().SetAvailability(commandContext(cmd), args[0], available)
			return err
		},
	}
}

func technicianDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [technician-id]",
		Short: "Delete a technician with no open fault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TechnicianAdapter().Delete(commandContext(cmd), args[0])
		},
	}
}

func technicianAssignSiteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign-site [technician-id] [site-id]",
		Short: "Link a technician to a site",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TechnicianAdapter().AssignToSite(commandContext(cmd), args[0], args[1])
		},
	}
}

func technicianUnassignSiteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign-site [technician-id] [site-id]",
		Short: "Remove the link between a technician and a site",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TechnicianAdapter().UnassignFromSite(commandContext(cmd), args[0], args[1])
		},
	}
}
