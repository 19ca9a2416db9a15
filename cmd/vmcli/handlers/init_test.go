package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmcli/vmcli/internal/config"
)

func TestInit(t *testing.T) {
	saveAndRestoreFactories(t)

	var gotProvider config.Provider
	var gotCluster string
	scaffoldCluster = func(p config.Provider, cluster string) (string, error) {
		gotProvider = p
		gotCluster = cluster
		return "/home/op/.config/vmcli/hcloud/dev/config.toml", nil
	}

	err := Init(config.ProviderHCloud, "dev")
	require.NoError(t, err)
	assert.Equal(t, config.ProviderHCloud, gotProvider)
	assert.Equal(t, "dev", gotCluster)
}

func TestInitAlreadyInitialized(t *testing.T) {
	saveAndRestoreFactories(t)

	scaffoldCluster = func(_ config.Provider, _ string) (string, error) {
		return "", config.ErrAlreadyInitialized
	}

	err := Init(config.ProviderEC2, "dev")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrAlreadyInitialized)
}
