// Package commands defines the CLI command tree and flag bindings.
//
// Every provider group exposes the same verb set; the cobra layer only
// parses arguments and delegates to handler functions in the handlers
// package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/vmcli/vmcli/internal/logging"
)

// Root returns the root command for the vmcli CLI.
func Root() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "vmcli",
		Short: "Manage small VM clusters on five cloud providers",
		Long: `vmcli provisions and manages named clusters of virtual machines on
AWS EC2, AWS Lightsail, Google Compute Engine, DigitalOcean and Hetzner
Cloud through one lifecycle vocabulary.

Clusters keep no local state: every command rediscovers resources from
the provider's tags, so vmcli is safe to re-run after any interruption.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.SetVerbose(verbose)
		},
		// Errors are printed once by main with an exit code; usage spam
		// would bury the cause.
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	for _, g := range providerGroups() {
		cmd.AddCommand(group(g))
	}
	cmd.AddCommand(Version())

	return cmd
}
