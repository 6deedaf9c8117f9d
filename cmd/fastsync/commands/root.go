package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	manifestPath   string
	apiEndpoint    string
	verbose        bool
	jsonOutput     bool
	metricsEnabled bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fastsync",
		Short: "FastSync - CDN Edge Service Reconciler",
		Long: `FastSync keeps CDN edge services in sync with a declared manifest.

It compares the manifest against the live service configuration, builds a
minimal change plan, applies it inside a draft version, and activates the
version only once every change has been applied.

Features:
  - Declarative YAML manifests with strict field validation
  - Minimal create/update/delete plans (untouched resources stay put)
  - Draft versions: a half-applied configuration never serves traffic
  - Dry-run planning and idempotent applies`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "service.yml", "service manifest path")
	rootCmd.PersistentFlags().StringVar(&apiEndpoint, "api-endpoint", "", "override the API base URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&metricsEnabled, "metrics", false, "log run metrics after completion")

	// Add subcommands
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newDeleteCommand())

	return rootCmd
}
