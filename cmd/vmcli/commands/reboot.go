package commands

import (
	"github.com/spf13/cobra"

	"github.com/vmcli/vmcli/cmd/vmcli/handlers"
)

// rebootCmd returns the reboot verb for one provider group.
func rebootCmd(g providerGroup) *cobra.Command {
	var opts handlers.RebootOptions

	cmd := &cobra.Command{
		Use:   "reboot <cluster> <name>",
		Short: "Restart an instance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Provider = g.kind
			opts.Cluster = args[0]
			opts.Name = args[1]
			return handlers.Reboot(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to an override configuration file")

	return cmd
}
