package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/buildgraph/internal/cli"
	"github.com/example/buildgraph/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "buildgraph",
		Short:   "buildgraph - CI/CD run-artifact correlation engine",
		Version: version.String(),
		Long: `buildgraph ingests CI/CD job runs and their artifacts and maintains a
relationship graph between runs that produced or consumed the same
artifacts, driven by configurable correlation rules.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.ArtifactCmd())
	rootCmd.AddCommand(cli.MappingCmd())
	rootCmd.AddCommand(cli.CorrelateCmd())
	rootCmd.AddCommand(cli.SettingsCmd())
	rootCmd.AddCommand(cli.StatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
