package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/buildgraph/internal/ctxutil"
	"github.com/example/buildgraph/internal/ports/primary"
	"github.com/example/buildgraph/internal/wire"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Manage job runs",
	Long:  "Create, ingest, list, show, and delete CI/CD job runs",
}

var runCreateCmd = &cobra.Command{
	Use:   "create [id]",
	Short: "Create a new run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")
		job, _ := cmd.Flags().GetString("job")
		status, _ := cmd.Flags().GetString("status")

		run, err := wire.RunService().CreateRun(ctx, primary.CreateRunRequest{
			Tenant: tenant,
			ID:     args[0],
			Job:    job,
			Status: status,
		})
		if err != nil {
			return fmt.Errorf("failed to create run: %w", err)
		}

		fmt.Printf("✓ Created run %s (tenant %s)\n", run.ID, run.Tenant)
		if run.Job != "" {
			fmt.Printf("  Job: %s\n", run.Job)
		}
		return nil
	},
}

// ingestFile is the on-disk shape accepted by `run ingest`.
type ingestFile struct {
	Run struct {
		ID     string `yaml:"id"`
		Job    string `yaml:"job"`
		Status string `yaml:"status"`
	} `yaml:"run"`
	Artifacts []struct {
		Type      string `yaml:"type"`
		Location  string `yaml:"location"`
		Name      string `yaml:"name"`
		Qualifier string `yaml:"qualifier"`
		Hash      string `yaml:"hash"`
		IsInput   bool   `yaml:"is_input"`
		IsOutput  bool   `yaml:"is_output"`
	} `yaml:"artifacts"`
}

// ingestExample is the documented shape of a `run ingest` file. It must
// stay ingestible as-is; the status value has to be one the runs table
// accepts.
const ingestExample = `run:
  id: RUN-042
  job: api-build
  status: succeeded
artifacts:
  - type: container
    location: registry.example.com
    name: acme/api
    qualifier: "1.4.2"
    hash: "sha256:9f1a..."
    is_output: true`

var runIngestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a run with its artifacts from a YAML file",
	Long: `Ingest a run together with its artifacts and trigger incremental
correlation for it. The file holds a run block and an artifacts list:

` + ingestExample,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read ingest file: %w", err)
		}
		var file ingestFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("failed to parse ingest file: %w", err)
		}
		if file.Run.ID == "" {
			return fmt.Errorf("ingest file has no run id")
		}

		req := primary.IngestRunRequest{
			Run: primary.CreateRunRequest{
				Tenant: tenant,
				ID:     file.Run.ID,
				Job:    file.Run.Job,
				Status: file.Run.Status,
			},
		}
		for _, a := range file.Artifacts {
			req.Artifacts = append(req.Artifacts, primary.CreateArtifactRequest{
				Tenant:    tenant,
				RunID:     file.Run.ID,
				Type:      a.Type,
				Location:  a.Location,
				Name:      a.Name,
				Qualifier: a.Qualifier,
				Hash:      a.Hash,
				IsInput:   a.IsInput,
				IsOutput:  a.IsOutput,
			})
		}

		resp, err := wire.RunService().IngestRun(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to ingest run: %w", err)
		}

		fmt.Printf("✓ Ingested run %s with %d artifact(s)\n", resp.Run.ID, len(resp.ArtifactIDs))
		return nil
	},
}

var runListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")
		job, _ := cmd.Flags().GetString("job")
		status, _ := cmd.Flags().GetString("status")
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		runs, err := wire.RunService().ListRuns(ctx, tenant, primary.ListRunsRequest{
			Job:      job,
			Status:   status,
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("No runs found")
			return nil
		}

		fmt.Printf("Found %d run(s):\n\n", len(runs))
		for _, run := range runs {
			fmt.Printf("%-16s %-20s %-10s %s\n", run.ID, run.Job, run.Status, run.CreatedAt)
		}
		return nil
	},
}

var runShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show run details, artifacts, and related runs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")
		runID := args[0]

		run, err := wire.RunService().GetRun(ctx, tenant, runID)
		if err != nil {
			return fmt.Errorf("failed to get run: %w", err)
		}

		fmt.Printf("Run: %s\n", run.ID)
		fmt.Printf("  Tenant:  %s\n", run.Tenant)
		if run.Job != "" {
			fmt.Printf("  Job:     %s\n", run.Job)
		}
		if run.Status != "" {
			fmt.Printf("  Status:  %s\n", run.Status)
		}
		fmt.Printf("  Created: %s\n", run.CreatedAt)

		artifacts, err := wire.ArtifactService().ListArtifacts(ctx, tenant, primary.ListArtifactsRequest{RunID: runID})
		if err != nil {
			return fmt.Errorf("failed to list artifacts: %w", err)
		}
		if len(artifacts) > 0 {
			fmt.Printf("\nArtifacts (%d):\n", len(artifacts))
			for _, a := range artifacts {
				fmt.Printf("  %-10s %s", a.Type, artifactLabel(a))
				if a.Hash != "" {
					fmt.Printf(" [%s]", a.Hash)
				}
				fmt.Println()
			}
		}

		mappings, err := wire.MappingService().ListMappings(ctx, tenant, primary.ListMappingsRequest{Run1In: []string{runID}})
		if err != nil {
			return fmt.Errorf("failed to list mappings: %w", err)
		}
		if len(mappings) > 0 {
			fmt.Printf("\nRelated runs (%d):\n", len(mappings))
			for _, m := range mappings {
				fmt.Printf("  %s\n", m.Run2)
			}
		}
		return nil
	},
}

var runDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a run and its artifacts and mappings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxutil.WithActor(context.Background(), "cli")
		tenant, _ := cmd.Flags().GetString("tenant")

		if err := wire.RunService().DeleteRun(ctx, tenant, args[0]); err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}
		fmt.Printf("✓ Deleted run %s\n", args[0])
		return nil
	},
}

func artifactLabel(a *primary.Artifact) string {
	label := a.Name
	if a.Qualifier != "" {
		label += ":" + a.Qualifier
	}
	if a.Location != "" {
		label = a.Location + "/" + label
	}
	return label
}

func init() {
	runCmd.PersistentFlags().String("tenant", "default", "Tenant the runs belong to")

	runCreateCmd.Flags().String("job", "", "Job name")
	runCreateCmd.Flags().String("status", "", "Run status")

	runListCmd.Flags().String("job", "", "Filter by job name")
	runListCmd.Flags().String("status", "", "Filter by status")
	runListCmd.Flags().Int("page", 1, "Page number")
	runListCmd.Flags().Int("page-size", 50, "Page size")

	runCmd.AddCommand(runCreateCmd)
	runCmd.AddCommand(runIngestCmd)
	runCmd.AddCommand(runListCmd)
	runCmd.AddCommand(runShowCmd)
	runCmd.AddCommand(runDeleteCmd)
}

// RunCmd returns the run command
func RunCmd() *cobra.Command {
	return runCmd
}
