package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openedge/fastsync/pkg/config"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a service manifest",
		Long: `Validate a service manifest without contacting the remote API.

This command checks:
  - YAML syntax validity
  - Required fields and enumerated choices per resource kind
  - Unique names within each resource kind`,
		Example: `  # Validate the default manifest
  fastsync validate

  # Validate a specific manifest
  fastsync validate --manifest staging.yml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := config.LoadManifest(manifestPath)
			if err != nil {
				return err
			}

			log.Info().
				Str("manifest", manifestPath).
				Str("service", manifest.Name).
				Msg("Manifest is valid")

			if jsonOutput {
				fmt.Printf("{\"valid\": true, \"service\": %q}\n", manifest.Name)
			} else {
				fmt.Printf("Manifest %s is valid (service %q)\n", manifestPath, manifest.Name)
			}
			return nil
		},
	}

	return cmd
}
