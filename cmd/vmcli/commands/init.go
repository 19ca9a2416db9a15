package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmcli/vmcli/cmd/vmcli/handlers"
)

// initCmd returns the init verb for one provider group.
func initCmd(g providerGroup) *cobra.Command {
	return &cobra.Command{
		Use:   "init <cluster>",
		Short: "Scaffold local configuration for a new cluster",
		Long: fmt.Sprintf(`Create the cluster's configuration directory and write a commented
default config.toml. Nothing is created on the provider side; the cluster
exists on the cloud only once "vmcli %s up" runs.

Fails when the cluster is already initialized.`, g.kind),
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return handlers.Init(g.kind, args[0])
		},
	}
}
