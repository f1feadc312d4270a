package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/buildgraph/internal/ctxutil"
	"github.com/example/buildgraph/internal/ports/primary"
	"github.com/example/buildgraph/internal/wire"
)

var artifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Manage run artifacts",
	Long:  "Add, list, show, and delete artifacts attached to runs",
}

var artifactAddCmd = &cobra.Command{
	Use:   "add [run-id]",
	Short: "Add an artifact to an existing run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")
		atype, _ := cmd.Flags().GetString("type")
		location, _ := cmd.Flags().GetString("location")
		name, _ := cmd.Flags().GetString("name")
		qualifier, _ := cmd.Flags().GetString("qualifier")
		hash, _ := cmd.Flags().GetString("hash")
		isInput, _ := cmd.Flags().GetBool("input")
		isOutput, _ := cmd.Flags().GetBool("output")

		artifact, err := wire.ArtifactService().CreateArtifact(ctx, primary.CreateArtifactRequest{
			Tenant:    tenant,
			RunID:     args[0],
			Type:      atype,
			Location:  location,
			Name:      name,
			Qualifier: qualifier,
			Hash:      hash,
			IsInput:   isInput,
			IsOutput:  isOutput,
		})
		if err != nil {
			return fmt.Errorf("failed to create artifact: %w", err)
		}

		fmt.Printf("✓ Added artifact %s to run %s\n", artifact.ID, artifact.RunID)
		fmt.Printf("  %s %s\n", artifact.Type, artifactLabel(artifact))
		return nil
	},
}

var artifactListCmd = &cobra.Command{
	Use:   "list",
	Short: "List artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")
		runID, _ := cmd.Flags().GetString("run")
		atype, _ := cmd.Flags().GetString("type")
		name, _ := cmd.Flags().GetString("name")
		hash, _ := cmd.Flags().GetString("hash")
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		artifacts, err := wire.ArtifactService().ListArtifacts(ctx, tenant, primary.ListArtifactsRequest{
			RunID:    runID,
			Type:     atype,
			Name:     name,
			Hash:     hash,
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			return fmt.Errorf("failed to list artifacts: %w", err)
		}

		if len(artifacts) == 0 {
			fmt.Println("No artifacts found")
			return nil
		}

		fmt.Printf("Found %d artifact(s):\n\n", len(artifacts))
		for _, a := range artifacts {
			fmt.Printf("%-38s %-16s %-10s %s\n", a.ID, a.RunID, a.Type, artifactLabel(a))
		}
		return nil
	},
}

var artifactShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show artifact details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")

		artifact, err := wire.ArtifactService().GetArtifact(ctx, tenant, args[0])
		if err != nil {
			return fmt.Errorf("failed to get artifact: %w", err)
		}

		fmt.Printf("Artifact: %s\n", artifact.ID)
		fmt.Printf("  Run:       %s\n", artifact.RunID)
		fmt.Printf("  Type:      %s\n", artifact.Type)
		if artifact.Location != "" {
			fmt.Printf("  Location:  %s\n", artifact.Location)
		}
		if artifact.Name != "" {
			fmt.Printf("  Name:      %s\n", artifact.Name)
		}
		if artifact.Qualifier != "" {
			fmt.Printf("  Qualifier: %s\n", artifact.Qualifier)
		}
		if artifact.Hash != "" {
			fmt.Printf("  Hash:      %s\n", artifact.Hash)
		}
		fmt.Printf("  Input:     %t\n", artifact.IsInput)
		fmt.Printf("  Output:    %t\n", artifact.IsOutput)
		fmt.Printf("  Created:   %s\n", artifact.CreatedAt)
		return nil
	},
}

var artifactDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an artifact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")

		if err := wire.ArtifactService().DeleteArtifact(ctx, tenant, args[0]); err != nil {
			return fmt.Errorf("failed to delete artifact: %w", err)
		}
		fmt.Printf("✓ Deleted artifact %s\n", args[0])
		return nil
	},
}

func init() {
	artifactCmd.PersistentFlags().String("tenant", "default", "Tenant the artifacts belong to")

	artifactAddCmd.Flags().String("type", "container", "Artifact type")
	artifactAddCmd.Flags().String("location", "", "Artifact location (e.g. registry host)")
	artifactAddCmd.Flags().String("name", "", "Artifact name")
	artifactAddCmd.Flags().String("qualifier", "", "Artifact qualifier (e.g. tag or version)")
	artifactAddCmd.Flags().String("hash", "", "Artifact content hash")
	artifactAddCmd.Flags().Bool("input", false, "Mark artifact as a run input")
	artifactAddCmd.Flags().Bool("output", false, "Mark artifact as a run output")

	artifactListCmd.Flags().String("run", "", "Filter by run ID")
	artifactListCmd.Flags().String("type", "", "Filter by artifact type")
	artifactListCmd.Flags().String("name", "", "Filter by artifact name")
	artifactListCmd.Flags().String("hash", "", "Filter by content hash")
	artifactListCmd.Flags().Int("page", 1, "Page number")
	artifactListCmd.Flags().Int("page-size", 50, "Page size")

	artifactCmd.AddCommand(artifactAddCmd)
	artifactCmd.AddCommand(artifactListCmd)
	artifactCmd.AddCommand(artifactShowCmd)
	artifactCmd.AddCommand(artifactDeleteCmd)
}

// ArtifactCmd returns the artifact command
func ArtifactCmd() *cobra.Command {
	return artifactCmd
}
