package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/gmao/internal/config"
	"github.com/example/gmao/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the GMAO configuration and database",
		Long: `Write ~/.gmao/config.yaml when missing and create the database schema.

With --seed, development fixtures (3 sites, 3 technicians, 6 elevators
with their histories) are loaded into an empty database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.HomeDir()
			if err != nil {
				return err
			}

			configPath := filepath.Join(dir, config.FileName)
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				if err := config.SaveConfig(dir, config.Default(dir)); err != nil {
					return err
				}
				fmt.Printf("✓ Wrote %s\n", configPath)
			}

			cfg, err := config.LoadFrom(dir)
			if err != nil {
				return err
			}
			fmt.Printf("Initializing %s database\n", cfg.Storage.Driver)

			// GetDB creates the schema on first connection
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()
			fmt.Println("✓ Database initialized successfully")

			if seed {
				err := db.SeedFixtures(database, cfg.Storage.Driver)
				switch {
				case errors.Is(err, db.ErrAlreadySeeded):
					fmt.Println("  Database already contains data, fixtures skipped")
				case err != nil:
					return fmt.Errorf("failed to load fixtures: %w", err)
				default:
					fmt.Println("✓ Fixtures loaded")
				}
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  gmao site list")
			fmt.Println("  gmao serve")

			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Load development fixtures")

	return cmd
}
