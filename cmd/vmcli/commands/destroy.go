package commands

import (
	"github.com/spf13/cobra"

	"github.com/vmcli/vmcli/cmd/vmcli/handlers"
)

// destroyCmd returns the destroy verb for one provider group.
func destroyCmd(g providerGroup) *cobra.Command {
	var opts handlers.DestroyOptions

	cmd := &cobra.Command{
		Use:   "destroy <cluster> <name>",
		Short: "Terminate an instance",
		Long: `Terminate the named instance and wait until the provider reports it
gone. Network resources and key material stay; prune owns those.

Asks for confirmation unless -f is given. On a non-interactive stdin the
prompt cannot run and -f is required.

WARNING: this is irreversible. Data on the instance is lost.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Provider = g.kind
			opts.Cluster = args[0]
			opts.Name = args[1]
			return handlers.Destroy(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Skip the confirmation prompt")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to an override configuration file")

	return cmd
}
