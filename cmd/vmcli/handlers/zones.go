package handlers

import (
	"context"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/output"
	"github.com/vmcli/vmcli/internal/provider"
)

// ZonesOptions carries the zones command's flags.
type ZonesOptions struct {
	Provider config.Provider
	Region   string
	Format   string
	JSON     bool
}

// Zones handles the zones command. An empty region falls back to the
// adapter's configured one.
func Zones(ctx context.Context, opts ZonesOptions) error {
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

	zones, err := p.Zones(ctx, opts.Region)
	if err != nil {
		return &provider.OpError{Provider: p.Name(), Op: "zones", Target: opts.Region, Err: err}
	}
	return output.Zones(zones, mode)
}
