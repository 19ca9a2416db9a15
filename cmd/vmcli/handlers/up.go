package handlers

import (
	"context"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/lifecycle"
	"github.com/vmcli/vmcli/internal/output"
)

// UpOptions carries the up command's arguments and flags.
type UpOptions struct {
	Provider   config.Provider
	Cluster    string
	Name       string
	Size       string
	ConfigPath string
}

// Up handles the up command. The created instance is printed as soon as it
// exists, even when a later step failed; the error still decides the exit.
func Up(ctx context.Context, opts UpOptions) error {
	cfg, err := resolveConfig(opts.Provider, opts.Cluster, opts.ConfigPath, config.Overrides{Size: opts.Size})
	if err != nil {
		return err
	}
	p, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}
	logIdentity(ctx, p)

	res, err := lifecycle.New(cfg, p).Up(ctx, opts.Name)
	if res != nil {
		output.Instance(res.Instance)
	}
	if err != nil {
		return err
	}
	output.KV("ssh_config", res.SSHConfigPath)
	return nil
}
