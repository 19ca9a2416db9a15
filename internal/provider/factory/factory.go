// Package factory constructs the adapter for a resolved configuration. It is
// the one place that knows all five backends; everything above it depends on
// the provider interface alone.
package factory

import (
	"context"
	"fmt"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/provider/digitalocean"
	"github.com/vmcli/vmcli/internal/provider/ec2"
	"github.com/vmcli/vmcli/internal/provider/gce"
	"github.com/vmcli/vmcli/internal/provider/hetzner"
	"github.com/vmcli/vmcli/internal/provider/lightsail"
)

// New builds the adapter for cfg's provider, authenticating from the
// environment. Missing or rejected credential variables surface as
// configuration errors before any API call is made.
func New(ctx context.Context, cfg *config.Effective) (provider.Provider, error) {
	switch cfg.Provider {
	case config.ProviderEC2:
		return ec2.NewAdapter(ctx, cfg)
	case config.ProviderLightsail:
		return lightsail.NewAdapter(ctx, cfg)
	case config.ProviderGCE:
		return gce.NewAdapter(ctx, cfg)
	case config.ProviderDO:
		return digitalocean.NewAdapter(ctx, cfg)
	case config.ProviderHCloud:
		return hetzner.NewAdapter(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", config.ErrInvalid, cfg.Provider)
	}
}
