package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/buildgraph/internal/ctxutil"
	"github.com/example/buildgraph/internal/ports/primary"
	"github.com/example/buildgraph/internal/wire"
)

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Inspect and prune run relationship edges",
	Long:  "List, show, and delete the directed relatedness edges produced by correlation",
}

var mappingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")
		run1, _ := cmd.Flags().GetStringSlice("run1")
		run2, _ := cmd.Flags().GetStringSlice("run2")
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		mappings, err := wire.MappingService().ListMappings(ctx, tenant, primary.ListMappingsRequest{
			Run1In:   run1,
			Run2In:   run2,
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			return fmt.Errorf("failed to list mappings: %w", err)
		}

		if len(mappings) == 0 {
			fmt.Println("No mappings found")
			return nil
		}

		fmt.Printf("Found %d mapping(s):\n\n", len(mappings))
		for _, m := range mappings {
			fmt.Printf("%-38s %s -> %s\n", m.ID, m.Run1, m.Run2)
		}
		return nil
	},
}

var mappingShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a mapping by row ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")

		mapping, err := wire.MappingService().GetMapping(ctx, tenant, args[0])
		if err != nil {
			return fmt.Errorf("failed to get mapping: %w", err)
		}
		if mapping == nil {
			return fmt.Errorf("mapping %s not found", args[0])
		}

		fmt.Printf("Mapping: %s\n", mapping.ID)
		fmt.Printf("  Run1:    %s\n", mapping.Run1)
		fmt.Printf("  Run2:    %s\n", mapping.Run2)
		fmt.Printf("  Created: %s\n", mapping.CreatedAt)
		return nil
	},
}

var mappingDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a single mapping by row ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")

		if err := wire.MappingService().DeleteMapping(ctx, tenant, args[0]); err != nil {
			return fmt.Errorf("failed to delete mapping: %w", err)
		}
		fmt.Printf("✓ Deleted mapping %s\n", args[0])
		return nil
	},
}

var mappingPruneCmd = &cobra.Command{
	Use:   "prune [run-id...]",
	Short: "Delete every outgoing edge of the given runs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")

		if err := wire.MappingService().DeleteMappingsByRun1(ctx, tenant, args); err != nil {
			return fmt.Errorf("failed to prune mappings: %w", err)
		}
		fmt.Printf("✓ Pruned outgoing edges for %d run(s)\n", len(args))
		return nil
	},
}

func init() {
	mappingCmd.PersistentFlags().String("tenant", "default", "Tenant the mappings belong to")

	mappingListCmd.Flags().StringSlice("run1", nil, "Filter by source run IDs")
	mappingListCmd.Flags().StringSlice("run2", nil, "Filter by target run IDs")
	mappingListCmd.Flags().Int("page", 1, "Page number")
	mappingListCmd.Flags().Int("page-size", 50, "Page size")

	mappingCmd.AddCommand(mappingListCmd)
	mappingCmd.AddCommand(mappingShowCmd)
	mappingCmd.AddCommand(mappingDeleteCmd)
	mappingCmd.AddCommand(mappingPruneCmd)
}

// MappingCmd returns the mapping command
func MappingCmd() *cobra.Command {
	return mappingCmd
}
