package handlers

import (
	"context"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/output"
	"github.com/vmcli/vmcli/internal/provider"
)

// RegionsOptions carries the regions command's flags.
type RegionsOptions struct {
	Provider config.Provider
	Format   string
	JSON     bool
}

// Regions handles the regions command. Cluster-independent, so only the
// global and override layers feed the config.
func Regions(ctx context.Context, opts RegionsOptions) error {
	mode, err := outputMode(opts.Format, opts.JSON)
	if err != nil {
		return err
	}
	cfg, err := resolveGlobal(opts.Provider, "")
	if err != nil {
		return err
	}
	p, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	regions, err := p.Regions(ctx)
	if err != nil {
		return &provider.OpError{Provider: p.Name(), Op: "regions", Err: err}
	}
	return output.Regions(regions, mode)
}
