package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/gmao/internal/cli"
	"github.com/example/gmao/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "gmao",
		Short:   "GMAO - elevator fleet maintenance",
		Version: version.String(),
		Long: `GMAO tracks an elevator fleet across sites: fault declaration,
technician assignment, repairs, predictive risk scores and fleet analytics.`,
		SilenceUsage: true,
	}
	cli.BindActorFlag(rootCmd)

	// Setup
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	// Entity commands
	rootCmd.AddCommand(cli.SiteCmd())
	rootCmd.AddCommand(cli.ElevatorCmd())
	rootCmd.AddCommand(cli.TechnicianCmd())

	// Reports
	rootCmd.AddCommand(cli.RiskCmd())
	rootCmd.AddCommand(cli.AnalyticsCmd())
	rootCmd.AddCommand(cli.EventsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
