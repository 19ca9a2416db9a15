package handlers

import (
	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/lifecycle"
	"github.com/vmcli/vmcli/internal/output"
)

// scaffoldCluster is replaced in tests.
var scaffoldCluster = lifecycle.Init

// Init handles the init command. Local scaffolding only; nothing touches the
// provider.
func Init(p config.Provider, cluster string) error {
	path, err := scaffoldCluster(p, cluster)
	if err != nil {
		return err
	}
	output.KV("config", path)
	return nil
}
