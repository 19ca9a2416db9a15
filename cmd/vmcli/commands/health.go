package commands

import (
	"github.com/spf13/cobra"

	"github.com/vmcli/vmcli/cmd/vmcli/handlers"
)

// healthCmd returns the health verb for one provider group.
func healthCmd(g providerGroup) *cobra.Command {
	var opts handlers.HealthOptions

	cmd := &cobra.Command{
		Use:   "health <cluster> <name>",
		Short: "Probe an instance without opening a session",
		Long: `Probe the named instance layer by layer: run state, provider status
checks, SSH ingress rules, and (where the provider supports it) a
non-mutating key-injection probe.

A computed diagnosis is a success even when it says degraded or
unreachable; only a probe that could not run fails the command.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Provider = g.kind
			opts.Cluster = args[0]
			opts.Name = args[1]
			return handlers.Health(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.OSUser, "os-user", "", "OS user for the key-injection probe (default from config)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to an override configuration file")

	return cmd
}
