package commands

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openedge/fastsync/pkg/config"
)

func newApplyCommand() *cobra.Command {
	var noActivate bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile a service with its manifest",
		Long: `Reconcile the remote service with the manifest.

This command:
  - Creates the service when it does not exist
  - Compares the manifest against the baseline version
  - Applies the minimal set of creates, updates, and deletes to a draft
  - Activates the draft once every change has been applied

When the manifest already matches the remote configuration, no version is
created and nothing is mutated. A failed apply leaves the draft version
inactive; the previously active version keeps serving traffic.`,
		Example: `  # Apply the default manifest
  fastsync apply

  # Apply without activating the new version
  fastsync apply --no-activate

  # Apply a specific manifest
  fastsync apply --manifest staging.yml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := config.LoadManifest(manifestPath)
			if err != nil {
				return err
			}
			enforcer, err := newEnforcer(manifest)
			if err != nil {
				return err
			}

			activate := manifest.ActivateNewVersion && !noActivate
			result, err := enforcer.Apply(cmd.Context(), manifest.Name, manifest.Config, activate)
			reportMetrics()
			if err != nil {
				return err
			}

			log.Info().
				Str("service", manifest.Name).
				Str("run_id", result.RunID).
				Bool("changed", result.Changed).
				Msg("Apply complete")

			if jsonOutput {
				payload := map[string]any{
					"changed": result.Changed,
					"actions": result.Actions,
				}
				if result.Service != nil {
					payload["service_id"] = result.Service.ID
				}
				out, err := json.MarshalIndent(payload, "", "  ")
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
			fmt.Printf("Applied %d changes to service %q:\n", len(result.Actions), manifest.Name)
			for _, action := range result.Actions {
				fmt.Printf("  - %s\n", action)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noActivate, "no-activate", false, "leave the reconciled version inactive")

	return cmd
}
