package handlers

import (
	"context"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/lifecycle"
	"github.com/vmcli/vmcli/internal/output"
)

// RebootOptions carries the reboot command's arguments and flags.
type RebootOptions struct {
	Provider   config.Provider
	Cluster    string
	Name       string
	ConfigPath string
}

// Reboot handles the reboot command.
func Reboot(ctx context.Context, opts RebootOptions) error {
	cfg, err := resolveConfig(opts.Provider, opts.Cluster, opts.ConfigPath, config.Overrides{})
	if err != nil {
		return err
	}
	p, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}
	logIdentity(ctx, p)

	view, err := lifecycle.New(cfg, p).Reboot(ctx, opts.Name)
	output.Instance(view)
	return err
}
