package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/gmao/internal/wire"
)

// RiskCmd returns the risk command
func RiskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Predictive risk scores",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show [elevator-id]",
		Short: "Show the risk score of one elevator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ElevatorAdapter().Risk(commandContext(cmd), args[0])
			return err
		},
	})
	cmd.AddCommand(riskTopCmd())

	return cmd
}

func riskTopCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank elevators scoring moderate or high",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ReportAdapter().TopRisk(commandContext(cmd), limit)
			return err
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum rows (default 10)")

	return cmd
}

// AnalyticsCmd returns the analytics command
func AnalyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "analytics",
		Aliases: []string{"dashboard"},
		Short:   "Show the fleet dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ReportAdapter().Dashboard(commandContext(cmd))
			return err
		},
	}
}

// EventsCmd returns the events command
func EventsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the newest events across the fleet",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ElevatorAdapter().Recent(commandContext(cmd), limit)
			return err
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum rows (default 10)")

	return cmd
}
