package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/provider"
)

func TestDestroyConfirmed(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testEffective(t, config.ProviderHCloud, "dev")
	resolveConfig = func(_ config.Provider, _, _ string, _ config.Overrides) (*config.Effective, error) {
		return cfg, nil
	}
	var prompt string
	confirm = func(title string) (bool, error) {
		prompt = title
		return true, nil
	}
	destroyed := false
	newProvider = func(_ context.Context, _ *config.Effective) (provider.Provider, error) {
		return identityOK(&provider.MockProvider{
			DestroyFunc: func(_ context.Context, name string) (*provider.InstanceView, error) {
				assert.Equal(t, "web-1", name)
				destroyed = true
				view := testView("web-1")
				view.State = provider.RunStateTerminated
				return view, nil
			},
		}), nil
	}

	err := Destroy(context.Background(), DestroyOptions{Provider: config.ProviderHCloud, Cluster: "dev", Name: "web-1"})
	require.NoError(t, err)
	assert.True(t, destroyed)
	assert.Contains(t, prompt, "web-1")
	assert.Contains(t, prompt, "dev")
}

func TestDestroyDeclined(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testEffective(t, config.ProviderHCloud, "dev")
	resolveConfig = func(_ config.Provider, _, _ string, _ config.Overrides) (*config.Effective, error) {
		return cfg, nil
	}
	confirm = func(_ string) (bool, error) { return false, nil }
	newProvider = func(_ context.Context, _ *config.Effective) (provider.Provider, error) {
		t.Fatal("provider must not be built after a declined confirmation")
		return nil, nil
	}

	err := Destroy(context.Background(), DestroyOptions{Provider: config.ProviderHCloud, Cluster: "dev", Name: "web-1"})
	require.ErrorIs(t, err, errAborted)
}

func TestDestroyForceSkipsConfirmation(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testEffective(t, config.ProviderGCE, "dev")
	resolveConfig = func(_ config.Provider, _, _ string, _ config.Overrides) (*config.Effective, error) {
		return cfg, nil
	}
	confirm = func(_ string) (bool, error) {
		t.Fatal("force must not prompt")
		return false, nil
	}
	newProvider = func(_ context.Context, _ *config.Effective) (provider.Provider, error) {
		return identityOK(&provider.MockProvider{
			DestroyFunc: func(_ context.Context, _ string) (*provider.InstanceView, error) {
				return testView("web-1"), nil
			},
		}), nil
	}

	err := Destroy(context.Background(), DestroyOptions{Provider: config.ProviderGCE, Cluster: "dev", Name: "web-1", Force: true})
	require.NoError(t, err)
}

func TestDestroyConfirmUnavailable(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testEffective(t, config.ProviderEC2, "dev")
	resolveConfig = func(_ config.Provider, _, _ string, _ config.Overrides) (*config.Effective, error) {
		return cfg, nil
	}

	// Non-interactive stdin surfaces as a config error telling the caller to
	// pass -f instead of hanging on a prompt nobody sees.
	confirm = func(_ string) (bool, error) {
		return false, config.ErrInvalid
	}

	err := Destroy(context.Background(), DestroyOptions{Provider: config.ProviderEC2, Cluster: "dev", Name: "web-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestDestroyNotFound(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testEffective(t, config.ProviderLightsail, "dev")
	resolveConfig = func(_ config.Provider, _, _ string, _ config.Overrides) (*config.Effective, error) {
		return cfg, nil
	}
	newProvider = func(_ context.Context, _ *config.Effective) (provider.Provider, error) {
		return identityOK(&provider.MockProvider{
			DestroyFunc: func(_ context.Context, _ string) (*provider.InstanceView, error) {
				return nil, provider.ErrInstanceNotFound
			},
		}), nil
	}

	err := Destroy(context.Background(), DestroyOptions{Provider: config.ProviderLightsail, Cluster: "dev", Name: "gone", Force: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrInstanceNotFound)
}
