package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/lifecycle"
	"github.com/vmcli/vmcli/internal/output"
)

// removeConfigDir is replaced in tests.
var removeConfigDir = os.RemoveAll

// PruneOptions carries the prune command's arguments and flags.
type PruneOptions struct {
	Provider   config.Provider
	Cluster    string
	Force      bool
	ConfigPath string
}

// Prune handles the prune command. Force skips the prompts, removes the
// imported key material and implies removing the local config directory;
// without it the key material stays and the directory removal is confirmed
// interactively. The directory is only removed after a clean teardown, since
// a partial one still needs the config to resume.
func Prune(ctx context.Context, opts PruneOptions) error {
	cfg, err := resolveConfig(opts.Provider, opts.Cluster, opts.ConfigPath, config.Overrides{})
	if err != nil {
		return err
	}
	if !opts.Force {
		ok, err := confirm(fmt.Sprintf("Tear down network resources for cluster %q?", opts.Cluster))
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

	res, err := lifecycle.New(cfg, p).Prune(ctx, opts.Force)
	if res != nil && res.Teardown != nil {
		output.Teardown(res.Teardown)
	}
	if res != nil && res.KeyRemoved {
		output.KV("key_material", "removed")
	}
	if err != nil {
		return err
	}

	removeDir := opts.Force
	if !opts.Force {
		ok, err := confirm(fmt.Sprintf("Also remove the local config directory %s?", cfg.ClusterDir))
		if err != nil {
			return err
		}
		removeDir = ok
	}
	if removeDir {
		if err := removeConfigDir(cfg.ClusterDir); err != nil {
			return fmt.Errorf("removing config directory %s: %w", cfg.ClusterDir, err)
		}
		output.KV("config_dir", "removed")
	}
	return nil
}
