package commands

import (
	"github.com/spf13/cobra"

	"github.com/vmcli/vmcli/internal/config"
)

// providerGroup describes one cloud backend's command group. The verbs are
// identical across groups; only the backend and the natural long name of its
// size flag differ.
type providerGroup struct {
	kind     config.Provider
	short    string
	sizeFlag string
}

func providerGroups() []providerGroup {
	return []providerGroup{
		{config.ProviderEC2, "Manage clusters on AWS EC2", "instance-type"},
		{config.ProviderLightsail, "Manage clusters on AWS Lightsail", "bundle-id"},
		{config.ProviderGCE, "Manage clusters on Google Compute Engine", "machine-type"},
		{config.ProviderDO, "Manage clusters on DigitalOcean", "size"},
		{config.ProviderHCloud, "Manage clusters on Hetzner Cloud", "server-type"},
	}
}

// group assembles one provider's command group with the shared verb set.
func group(g providerGroup) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(g.kind),
		Short: g.short,
	}
	cmd.AddCommand(initCmd(g))
	cmd.AddCommand(upCmd(g))
	cmd.AddCommand(statusCmd(g))
	cmd.AddCommand(healthCmd(g))
	cmd.AddCommand(rebootCmd(g))
	cmd.AddCommand(destroyCmd(g))
	cmd.AddCommand(pruneCmd(g))
	cmd.AddCommand(regionsCmd(g))
	cmd.AddCommand(zonesCmd(g))
	return cmd
}

// outputFlags wires the list-output selection shared by status, regions and
// zones. --json is shorthand for -o json; an explicit -o wins.
type outputFlags struct {
	format string
	json   bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "output", "o", "", "Output format: table, json or yaml")
	cmd.Flags().BoolVar(&f.json, "json", false, "Shorthand for -o json")
}
