package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/provider"
)

func TestHealth(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testEffective(t, config.ProviderGCE, "dev")
	var gotOverrides config.Overrides
	resolveConfig = func(_ config.Provider, _, _ string, ov config.Overrides) (*config.Effective, error) {
		gotOverrides = ov
		cfg.OSUser = "admin"
		return cfg, nil
	}
	newProvider = func(_ context.Context, _ *config.Effective) (provider.Provider, error) {
		return &provider.MockProvider{
			HealthFunc: func(_ context.Context, name, osUser string) (*provider.HealthReport, error) {
				assert.Equal(t, "web-1", name)
				assert.Equal(t, "admin", osUser)
				return &provider.HealthReport{
					Name:      "web-1",
					RunState:  provider.RunStateRunning,
					Diagnosis: provider.DiagnosisHealthy,
				}, nil
			},
		}, nil
	}

	err := Health(context.Background(), HealthOptions{
		Provider: config.ProviderGCE,
		Cluster:  "dev",
		Name:     "web-1",
		OSUser:   "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", gotOverrides.OSUser)
}

func TestHealthDegradedIsNotAnError(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testEffective(t, config.ProviderHCloud, "dev")
	resolveConfig = func(_ config.Provider, _, _ string, _ config.Overrides) (*config.Effective, error) {
		return cfg, nil
	}
	newProvider = func(_ context.Context, _ *config.Effective) (provider.Provider, error) {
		return &provider.MockProvider{
			HealthFunc: func(_ context.Context, _, _ string) (*provider.HealthReport, error) {
				return &provider.HealthReport{
					Name:      "web-1",
					RunState:  provider.RunStateRunning,
					Checks:    provider.ChecksFailed,
					Diagnosis: provider.DiagnosisDegraded,
				}, nil
			},
		}, nil
	}

	err := Health(context.Background(), HealthOptions{Provider: config.ProviderHCloud, Cluster: "dev", Name: "web-1"})
	require.NoError(t, err, "a computed diagnosis exits zero whatever it says")
}

func TestHealthNotFound(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testEffective(t, config.ProviderEC2, "dev")
	resolveConfig = func(_ config.Provider, _, _ string, _ config.Overrides) (*config.Effective, error) {
		return cfg, nil
	}
	newProvider = func(_ context.Context, _ *config.Effective) (provider.Provider, error) {
		return &provider.MockProvider{
			HealthFunc: func(_ context.Context, _, _ string) (*provider.HealthReport, error) {
				return nil, provider.ErrInstanceNotFound
			},
		}, nil
	}

	err := Health(context.Background(), HealthOptions{Provider: config.ProviderEC2, Cluster: "dev", Name: "gone"})
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrInstanceNotFound)
	var opErr *provider.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "health", opErr.Op)
	assert.Equal(t, "gone", opErr.Target)
}
