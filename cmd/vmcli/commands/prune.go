package commands

import (
	"github.com/spf13/cobra"

	"github.com/vmcli/vmcli/cmd/vmcli/handlers"
)

// pruneCmd returns the prune verb for one provider group.
func pruneCmd(g providerGroup) *cobra.Command {
	var opts handlers.PruneOptions

	cmd := &cobra.Command{
		Use:   "prune <cluster>",
		Short: "Tear down the cluster's network once no instance remains",
		Long: `Remove the cluster's network stack in reverse build order. Any
non-terminated instance blocks the whole operation before a single
resource is touched.

With -f the imported key material and the local config directory go too;
without it the key material stays and prune asks before removing the
directory. A partial teardown reports what it removed and a re-run
resumes from whatever is still tagged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Provider = g.kind
			opts.Cluster = args[0]
			return handlers.Prune(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Skip prompts; also remove key material and the local config directory")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to an override configuration file")

	return cmd
}
