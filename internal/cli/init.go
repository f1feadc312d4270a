package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/buildgraph/internal/config"
	"github.com/example/buildgraph/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the buildgraph database",
		Long:  `Initialize the buildgraph database at ~/.buildgraph/buildgraph.db with the required schema and write a default settings file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing buildgraph database at %s\n", dbPath)

			if err := db.InitSchema(); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}

			fmt.Println("✓ Database initialized successfully")

			settingsPath, err := config.DefaultSettingsPath()
			if err != nil {
				return fmt.Errorf("failed to resolve settings path: %w", err)
			}
			if err := config.SaveSettings(settingsPath, config.DefaultSettings()); err != nil {
				return fmt.Errorf("failed to write settings: %w", err)
			}
			fmt.Printf("✓ Default settings written to %s\n", settingsPath)

			if demo, _ := cmd.Flags().GetBool("demo"); demo {
				database, err := db.GetDB()
				if err != nil {
					return fmt.Errorf("failed to open database: %w", err)
				}
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed fixtures: %w", err)
				}
				fmt.Println("✓ Demo fixtures seeded for tenant 'acme'")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  buildgraph correlate --tenant acme")
			fmt.Println("  buildgraph status --tenant acme")

			return nil
		},
	}

	cmd.Flags().Bool("demo", false, "Seed demo fixtures for tenant 'acme'")
	return cmd
}
