package commands

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openedge/fastsync/pkg/config"
)

func newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the changes an apply would make",
		Long: `Compare the manifest against the live service configuration and
print the changes an apply would make, without performing any of them.

The plan lists every resource that would be created, updated, or deleted,
in the order an apply would execute them.`,
		Example: `  # Plan against the default manifest
  fastsync plan

  # Plan a specific manifest with JSON output
  fastsync plan --manifest staging.yml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := config.LoadManifest(manifestPath)
			if err != nil {
				return err
			}
			enforcer, err := newEnforcer(manifest)
			if err != nil {
				return err
			}

			result, err := enforcer.Plan(cmd.Context(), manifest.Name, manifest.Config, manifest.ActivateNewVersion)
			reportMetrics()
			if err != nil {
				return err
			}

			log.Info().
				Str("service", manifest.Name).
				Bool("changed", result.Changed).
				Int("actions", len(result.Actions)).
				Msg("Plan complete")

			if jsonOutput {
				out, err := json.MarshalIndent(map[string]any{
					"changed": result.Changed,
					"actions": result.Actions,
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			if !result.Changed {
				fmt.Printf("Service %q is up to date, nothing to do\n", manifest.Name)
				return nil
			}
			fmt.Printf("Applying would make %d changes to service %q:\n", len(result.Actions), manifest.Name)
			for _, action := range result.Actions {
				fmt.Printf("  - %s\n", action)
			}
			return nil
		},
	}

	return cmd
}
