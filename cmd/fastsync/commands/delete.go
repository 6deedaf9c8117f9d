package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openedge/fastsync/pkg/config"
)

func newDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the service named by the manifest",
		Long: `Delete the remote service named by the manifest.

An active version is deactivated first. Deleting a service that does not
exist is a no-op.`,
		Example: `  # Delete the service from the default manifest
  fastsync delete

  # Delete the service from a specific manifest
  fastsync delete --manifest staging.yml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := config.LoadManifest(manifestPath)
			if err != nil {
				return err
			}
			enforcer, err := newEnforcer(manifest)
			if err != nil {
				return err
			}

			result, err := enforcer.Delete(cmd.Context(), manifest.Name)
			reportMetrics()
			if err != nil {
				return err
			}

			if !result.Changed {
				log.Info().Str("service", manifest.Name).Msg("Service does not exist, nothing to do")
				fmt.Printf("Service %q does not exist, nothing to do\n", manifest.Name)
				return nil
			}

			log.Info().
				Str("service", manifest.Name).
				Str("service_id", result.Service.ID).
				Msg("Service deleted")
			fmt.Printf("Deleted service %q\n", manifest.Name)
			return nil
		},
	}

	return cmd
}
