// Package main is the entry point for the vmcli CLI.
//
// vmcli manages small named clusters of virtual machines on five cloud
// providers (AWS EC2, AWS Lightsail, Google Compute Engine, DigitalOcean,
// Hetzner Cloud) through one lifecycle vocabulary: init, up, status, health,
// reboot, destroy, prune, regions, zones.
//
// For detailed usage information, run:
//
//	vmcli --help
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/vmcli/vmcli/cmd/vmcli/commands"
	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/provider"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps the error taxonomy onto documented exit codes. Partial
// teardown is checked before provider-unavailable because a failed teardown
// step often wraps a transport error; the teardown verdict is the one the
// operator acts on.
func exitCode(err error) int {
	switch {
	case config.IsConfigError(err):
		return 2
	case errors.Is(err, provider.ErrNameCollision):
		return 3
	case errors.Is(err, provider.ErrInstanceNotFound):
		return 4
	case errors.Is(err, provider.ErrAmbiguousTarget):
		return 5
	case errors.Is(err, provider.ErrClusterNotEmpty):
		return 6
	case errors.Is(err, provider.ErrPartialTeardown):
		return 8
	case errors.Is(err, provider.ErrProviderUnavailable):
		return 7
	default:
		return 1
	}
}
