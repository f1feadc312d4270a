package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/buildgraph/internal/config"
	"github.com/example/buildgraph/internal/core/correlation"
	"github.com/example/buildgraph/internal/ctxutil"
	"github.com/example/buildgraph/internal/db"
	"github.com/example/buildgraph/internal/ports/primary"
	"github.com/example/buildgraph/internal/wire"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database, settings, and per-tenant graph status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")

		dbPath, err := db.GetDBPath()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		fmt.Printf("Database: %s\n", dbPath)

		settingsPath, err := config.DefaultSettingsPath()
		if err != nil {
			return fmt.Errorf("failed to resolve settings path: %w", err)
		}
		settings, err := config.LoadSettings(settingsPath)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		fmt.Printf("\nCorrelation rules for tenant %s:\n", tenant)
		active := make(map[correlation.RuleName]bool)
		for _, name := range settings.ActiveRules(tenant) {
			active[name] = true
		}
		for _, name := range correlation.AllRuleNames() {
			marker := color.New(color.FgYellow).Sprint("off")
			if active[name] {
				marker = color.New(color.FgGreen).Sprint("on ")
			}
			fmt.Printf("  %s %s\n", marker, name)
		}

		runs, err := countPages(func(page int) (int, error) {
			items, err := wire.RunService().ListRuns(ctx, tenant, primary.ListRunsRequest{Page: page, PageSize: statusPageSize})
			return len(items), err
		})
		if err != nil {
			return fmt.Errorf("failed to count runs: %w", err)
		}
		artifacts, err := countPages(func(page int) (int, error) {
			items, err := wire.ArtifactService().ListArtifacts(ctx, tenant, primary.ListArtifactsRequest{Page: page, PageSize: statusPageSize})
			return len(items), err
		})
		if err != nil {
			return fmt.Errorf("failed to count artifacts: %w", err)
		}
		mappings, err := countPages(func(page int) (int, error) {
			items, err := wire.MappingService().ListMappings(ctx, tenant, primary.ListMappingsRequest{Page: page, PageSize: statusPageSize})
			return len(items), err
		})
		if err != nil {
			return fmt.Errorf("failed to count mappings: %w", err)
		}

		fmt.Printf("\nTenant %s:\n", tenant)
		fmt.Printf("  Runs:      %d\n", runs)
		fmt.Printf("  Artifacts: %d\n", artifacts)
		fmt.Printf("  Mappings:  %d\n", mappings)
		return nil
	},
}

const statusPageSize = 1000

// countPages walks a paginated listing until a short page and sums the sizes.
func countPages(fetch func(page int) (int, error)) (int, error) {
	total := 0
	for page := 1; ; page++ {
		n, err := fetch(page)
		if err != nil {
			return 0, err
		}
		total += n
		if n < statusPageSize {
			return total, nil
		}
	}
}

func init() {
	statusCmd.Flags().String("tenant", "default", "Tenant to report on")
}

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return statusCmd
}
