package commands

import (
	"github.com/spf13/cobra"

	"github.com/vmcli/vmcli/cmd/vmcli/handlers"
)

// statusCmd returns the status verb for one provider group.
func statusCmd(g providerGroup) *cobra.Command {
	var (
		opts handlers.StatusOptions
		out  outputFlags
	)

	cmd := &cobra.Command{
		Use:   "status <cluster>",
		Short: "Show the cluster's network and instances",
		Long: `Read everything tagged for the cluster: the network stack and every
non-terminated instance. A pure read; an empty cluster is a valid result.
The cluster's ssh_config is rewritten from what was found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Provider = g.kind
			opts.Cluster = args[0]
			opts.Format = out.format
			opts.JSON = out.json
			return handlers.Status(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to an override configuration file")
	out.register(cmd)

	return cmd
}
