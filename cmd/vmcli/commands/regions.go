package commands

import (
	"github.com/spf13/cobra"

	"github.com/vmcli/vmcli/cmd/vmcli/handlers"
)

// regionsCmd returns the regions verb for one provider group.
func regionsCmd(g providerGroup) *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the provider's regions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Regions(cmd.Context(), handlers.RegionsOptions{
				Provider: g.kind,
				Format:   out.format,
				JSON:     out.json,
			})
		},
	}

	out.register(cmd)

	return cmd
}
