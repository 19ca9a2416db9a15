package handlers

import (
	"context"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/lifecycle"
	"github.com/vmcli/vmcli/internal/output"
)

// StatusOptions carries the status command's arguments and flags.
type StatusOptions struct {
	Provider   config.Provider
	Cluster    string
	ConfigPath string
	Format     string
	JSON       bool
}

// Status handles the status command. The cluster view is rendered even when
// the ssh_config refresh failed, so the operator still sees what exists.
func Status(ctx context.Context, opts StatusOptions) error {
	mode, err := outputMode(opts.Format, opts.JSON)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(opts.Provider, opts.Cluster, opts.ConfigPath, config.Overrides{})
	if err != nil {
		return err
	}
	p, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	st, err := lifecycle.New(cfg, p).Status(ctx)
	if st != nil {
		if renderErr := output.Status(st, mode); renderErr != nil && err == nil {
			err = renderErr
		}
	}
	return err
}
