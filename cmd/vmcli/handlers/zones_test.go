package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/provider"
)

func TestZones(t *testing.T) {
	saveAndRestoreFactories(t)

	resolveGlobal = func(p config.Provider, _ string) (*config.Effective, error) {
		return &config.Effective{Provider: p, Region: "us-east-1"}, nil
	}
	var gotRegion string
	newProvider = func(_ context.Context, _ *config.Effective) (provider.Provider, error) {
		return &provider.MockProvider{
			ZonesFunc: func(_ context.Context, region string) ([]provider.Zone, error) {
				gotRegion = region
				return []provider.Zone{
					{Name: "us-east-2a", Region: "us-east-2", Status: "available"},
					{Name: "us-east-2b", Region: "us-east-2", Status: "available"},
				}, nil
			},
		}, nil
	}

	err := Zones(context.Background(), ZonesOptions{Provider: config.ProviderEC2, Region: "us-east-2"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-2", gotRegion, "the --region flag overrides the configured region")
}

func TestZonesDefaultRegion(t *testing.T) {
	saveAndRestoreFactories(t)

	resolveGlobal = func(p config.Provider, _ string) (*config.Effective, error) {
		return &config.Effective{Provider: p, Region: "europe-west3"}, nil
	}
	var gotRegion string
	newProvider = func(_ context.Context, _ *config.Effective) (provider.Provider, error) {
		return &provider.MockProvider{
			ZonesFunc: func(_ context.Context, region string) ([]provider.Zone, error) {
				gotRegion = region
				return []provider.Zone{{Name: "europe-west3-a", Region: "europe-west3"}}, nil
			},
		}, nil
	}

	// Without --region the adapter falls back to its configured region.
	err := Zones(context.Background(), ZonesOptions{Provider: config.ProviderGCE})
	require.NoError(t, err)
	assert.Empty(t, gotRegion)
}

func TestZonesProviderError(t *testing.T) {
	saveAndRestoreFactories(t)

	resolveGlobal = func(p config.Provider, _ string) (*config.Effective, error) {
		return &config.Effective{Provider: p}, nil
	}
	cause := errors.New("unknown region")
	newProvider = func(_ context.Context, _ *config.Effective) (provider.Provider, error) {
		return &provider.MockProvider{
			NameFunc: func() string { return "lightsail" },
			ZonesFunc: func(_ context.Context, _ string) ([]provider.Zone, error) {
				return nil, cause
			},
		}, nil
	}

	err := Zones(context.Background(), ZonesOptions{Provider: config.ProviderLightsail, Region: "mars-1"})
	require.Error(t, err)
	var opErr *provider.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "zones", opErr.Op)
	assert.Equal(t, "mars-1", opErr.Target)
}
