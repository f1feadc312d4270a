package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/buildgraph/internal/ctxutil"
	"github.com/example/buildgraph/internal/ports/primary"
	"github.com/example/buildgraph/internal/wire"
)

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Rebuild the relationship graph for a tenant",
	Long: `Run full batch correlation for a tenant: evaluate the enabled
correlation rules against every run's artifacts and make the stored
relationship graph consistent with them. Stale edges for runs the rules
still reach are removed; new edges are added.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")

		fmt.Printf("Correlating runs for tenant %s...\n", tenant)

		pairs, err := wire.CorrelationService().CorrelateTenant(ctx, tenant)
		if err != nil {
			return fmt.Errorf("failed to correlate tenant: %w", err)
		}

		fmt.Printf("✓ Correlation complete: %s pair(s) processed\n",
			color.New(color.FgGreen).Sprintf("%d", pairs))
		return nil
	},
}

var correlateRunCmd = &cobra.Command{
	Use:   "run [run-id]",
	Short: "Incrementally correlate a single run",
	Long: `Correlate one run against the existing graph using its current
artifact set. This mirrors what ingestion triggers automatically; it is
useful after adding artifacts to a run by hand. Failures are logged and
swallowed, and the next full correlation heals any gap.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")
		runID := args[0]

		if _, err := wire.RunService().GetRun(ctx, tenant, runID); err != nil {
			return fmt.Errorf("failed to get run: %w", err)
		}

		artifacts, err := wire.ArtifactService().ListArtifacts(ctx, tenant, primary.ListArtifactsRequest{RunID: runID})
		if err != nil {
			return fmt.Errorf("failed to list artifacts: %w", err)
		}
		ids := make([]string, 0, len(artifacts))
		for _, a := range artifacts {
			ids = append(ids, a.ID)
		}

		wire.CorrelationService().MapRun(ctx, tenant, runID, ids)
		fmt.Printf("✓ Triggered correlation for run %s (%d artifact(s))\n", runID, len(ids))
		return nil
	},
}

func init() {
	correlateCmd.PersistentFlags().String("tenant", "default", "Tenant to correlate")

	correlateCmd.AddCommand(correlateRunCmd)
}

// CorrelateCmd returns the correlate command
func CorrelateCmd() *cobra.Command {
	return correlateCmd
}
