package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/gmao/internal/wire"
)

// ElevatorCmd returns the elevator command
func ElevatorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "elevator",
		Aliases: []string{"elev"},
		Short:   "Manage elevators and their fault lifecycle",
		Long: `Register elevators and drive their fault lifecycle:

  functional -> declare-fault -> assign -> start-repair -> close-repair -> functional`,
	}

	cmd.AddCommand(elevatorCreateCmd())
	cmd.AddCommand(elevatorListCmd())
	cmd.AddCommand(elevatorShowCmd())
	cmd.AddCommand(elevatorUpdateCmd())
	cmd.AddCommand(elevatorMoveCmd())
	cmd.AddCommand(elevatorDeleteCmd())
	cmd.AddCommand(elevatorHistoryCmd())
	cmd.AddCommand(elevatorDeclareFaultCmd())
	cmd.AddCommand(elevatorAssignCmd())
	cmd.AddCommand(elevatorStartRepairCmd())
	cmd.AddCommand(elevatorCloseRepairCmd())
	cmd.AddCommand(elevatorCommentCmd())
	cmd.AddCommand(elevatorRiskCmd())

	return cmd
}

func elevatorCreateCmd() *cobra.Command {
	var siteID string
	var reference string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Register a new elevator on a site",
		Long: `Register a new elevator. It starts functional.

Examples:
  gmao elevator create "Ascenseur A" --site SITE-001 --ref OTIS-GEN2-4417`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ElevatorAdapter().Create(commandContext(cmd), args[0], reference, siteID)
			return err
		},
	}

	cmd.Flags().StringVarP(&siteID, "site", "s", "", "Site ID")
	cmd.Flags().StringVarP(&reference, "ref", "r", "", "Technical reference")
	cmd.MarkFlagRequired("site")

	return cmd
}

func elevatorListCmd() *cobra.Command {
	var siteID string
	var state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List elevators",
		Long: `List elevators, optionally filtered by site and state.

Examples:
  gmao elevator list
  gmao elevator list --site SITE-001 --state faulty`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ElevatorAdapter().List(commandContext(cmd), siteID, state)
			return err
		},
	}

	cmd.Flags().StringVarP(&siteID, "site", "s", "", "Filter by site ID")
	cmd.Flags().StringVar(&state, "state", "", "Filter by state (functional, faulty, under_repair)")

	return cmd
}

func elevatorShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [elevator-id]",
		Short: "Show elevator details and risk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ElevatorAdapter().Show(commandContext(cmd), args[0])
			return err
		},
	}
}

func elevatorUpdateCmd() *cobra.Command {
	var name string
	var reference string

	cmd := &cobra.Command{
		Use:   "update [elevator-id]",
		Short: "Update name or technical reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("ref") {
				return fmt.Errorf("nothing to update: pass --name or --ref")
			}

			current, err := wire.ElevatorService().GetElevator(ctx, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				name = current.Name
			}
			if !cmd.Flags().Changed("ref") {
				reference = current.Reference
			}

			_, err = wire.ElevatorAdapter().Update(ctx, current.ID, name, reference)
			return err
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&reference, "ref", "r", "", "New technical reference")

	return cmd
}

func elevatorMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move [elevator-id] [site-id]",
		Short: "Move an elevator to another site",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ElevatorAdapter().Move(commandContext(cmd), args[0], args[1])
			return err
		},
	}
}

func elevatorDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [elevator-id]",
		Short: "Delete an elevator and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ElevatorAdapter().Delete(commandContext(cmd), args[0])
		},
	}
}

func elevatorHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [elevator-id]",
		Short: "Show the event history of an elevator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ElevatorAdapter().History(commandContext(cmd), args[0])
			return err
		},
	}
}

func elevatorDeclareFaultCmd() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "declare-fault [elevator-id]",
		Short: "Declare a fault on a functional elevator",
		Long: `Declare a fault. The elevator becomes faulty, pending assignment.

Examples:
  gmao elevator declare-fault ELEV-001 -m "Door stuck on floor 3"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ElevatorAdapter().DeclareFault(commandContext(cmd), args[0], comment)
			return err
		},
	}

	cmd.Flags().StringVarP(&comment, "message", "m", "", "Fault description")
	cmd.MarkFlagRequired("message")

	return cmd
}

func elevatorAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign [elevator-id] [technician-id]",
		Short: "Assign a technician to a pending fault",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ElevatorAdapter().Assign(commandContext(cmd), args[0], args[1])
			return err
		},
	}
}

func elevatorStartRepairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start-repair [elevator-id]",
		Short: "Start the repair of an assigned fault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ElevatorAdapter().StartRepair(commandContext(cmd), args[0])
			return err
		},
	}
}

func elevatorCloseRepairCmd() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "close-repair [elevator-id]",
		Short: "Close a repair and return the elevator to service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ElevatorAdapter().CloseRepair(commandContext(cmd), args[0], comment)
			return err
		},
	}

	cmd.Flags().StringVarP(&comment, "message", "m", "", "Repair report (optional)")

	return cmd
}

func elevatorCommentCmd() *cobra.Command {
	var technicianID string

	cmd := &cobra.Command{
		Use:   "comment [elevator-id] [text]",
		Short: "Add a note to the elevator history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ElevatorAdapter().Comment(commandContext(cmd), args[0], args[1], technicianID)
			return err
		},
	}

	cmd.Flags().StringVarP(&technicianID, "technician", "t", "", "Technician writing the note")

	return cmd
}

func elevatorRiskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "risk [elevator-id]",
		Short: "Show the risk score of an elevator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ElevatorAdapter().Risk(commandContext(cmd), args[0])
			return err
		},
	}
}
