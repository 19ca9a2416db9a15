package handlers

import (
	"context"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/lifecycle"
	"github.com/vmcli/vmcli/internal/output"
)

// HealthOptions carries the health command's arguments and flags.
type HealthOptions struct {
	Provider   config.Provider
	Cluster    string
	Name       string
	OSUser     string
	ConfigPath string
}

// Health handles the health command. Any computed report exits zero; only a
// probe that could not run fails.
func Health(ctx context.Context, opts HealthOptions) error {
	cfg, err := resolveConfig(opts.Provider, opts.Cluster, opts.ConfigPath, config.Overrides{OSUser: opts.OSUser})
	if err != nil {
		return err
	}
	p, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	report, err := lifecycle.New(cfg, p).Health(ctx, opts.Name, cfg.OSUser)
	if err != nil {
		return err
	}
	output.Health(report)
	return nil
}
