package handlers

import (
	"context"
	"fmt"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/lifecycle"
	"github.com/vmcli/vmcli/internal/output"
)

// DestroyOptions carries the destroy command's arguments and flags.
type DestroyOptions struct {
	Provider   config.Provider
	Cluster    string
	Name       string
	Force      bool
	ConfigPath string
}

// Destroy handles the destroy command. The instance alone is removed;
// network resources and key material belong to prune.
func Destroy(ctx context.Context, opts DestroyOptions) error {
	cfg, err := resolveConfig(opts.Provider, opts.Cluster, opts.ConfigPath, config.Overrides{})
	if err != nil {
		return err
	}
	if !opts.Force {
		ok, err := confirm(fmt.Sprintf("Destroy instance %q in cluster %q?", opts.Name, opts.Cluster))
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}
	p, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}
	logIdentity(ctx, p)

	view, err := lifecycle.New(cfg, p).Destroy(ctx, opts.Name)
	output.Instance(view)
	return err
}
