package commands

import (
	"github.com/spf13/cobra"

	"github.com/vmcli/vmcli/cmd/vmcli/handlers"
)

// zonesCmd returns the zones verb for one provider group.
func zonesCmd(g providerGroup) *cobra.Command {
	var (
		opts handlers.ZonesOptions
		out  outputFlags
	)

	cmd := &cobra.Command{
		Use:   "zones",
		Short: "List a region's availability zones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Provider = g.kind
			opts.Format = out.format
			opts.JSON = out.json
			return handlers.Zones(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Region, "region", "", "Region to list zones for (default from config)")
	out.register(cmd)

	return cmd
}
