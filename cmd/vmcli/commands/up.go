package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmcli/vmcli/cmd/vmcli/handlers"
	"github.com/vmcli/vmcli/internal/config"
)

// upCmd returns the up verb for one provider group.
//
// The size flag carries the provider's natural long name (--instance-type,
// --bundle-id, --machine-type, --size, --server-type); -t is the shared
// shorthand.
func upCmd(g providerGroup) *cobra.Command {
	var opts handlers.UpOptions

	cmd := &cobra.Command{
		Use:   "up <cluster> <name>",
		Short: "Create an instance in the cluster",
		Long: fmt.Sprintf(`Create a named instance in the cluster. The cluster network (where the
provider has one) and the SSH key material are ensured first; the cluster's
ssh_config is rewritten afterwards.

A non-terminated instance already holding the name is a collision and
nothing is created.

Examples:
  vmcli %[1]s up dev web
  vmcli %[1]s up dev web -t %[2]s`, g.kind, sizeExample(g.kind)),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Provider = g.kind
			opts.Cluster = args[0]
			opts.Name = args[1]
			return handlers.Up(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Size, g.sizeFlag, "t", "", "Override the configured instance size for this run")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to an override configuration file")

	return cmd
}

// sizeExample gives the help text a realistic value for each backend.
func sizeExample(kind config.Provider) string {
	switch kind {
	case config.ProviderEC2:
		return "t3.small"
	case config.ProviderLightsail:
		return "small_3_0"
	case config.ProviderGCE:
		return "e2-small"
	case config.ProviderDO:
		return "s-2vcpu-2gb"
	default:
		return "cx32"
	}
}
