package lifecycle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/provider"
)

func testConfig(t *testing.T) *config.Effective {
	t.Helper()
	dir := t.TempDir()
	return &config.Effective{
		Provider:         config.ProviderEC2,
		ClusterName:      "dev",
		Region:           "ap-northeast-1",
		OSUser:           "ubuntu",
		SSHPublicKeyPath: filepath.Join(dir, "vmcli.pub"),
		ClusterDir:       dir,
		SSHConfigPath:    filepath.Join(dir, "ssh_config"),
	}
}

func running(name, ip string) provider.InstanceView {
	return provider.InstanceView{
		ID:       "i-" + name,
		Name:     name,
		Cluster:  "dev",
		State:    provider.RunStateRunning,
		Checks:   provider.ChecksPassed,
		PublicIP: ip,
	}
}

func clusterStatus(instances ...provider.InstanceView) *provider.ClusterStatus {
	return &provider.ClusterStatus{
		Provider:  "ec2",
		Cluster:   "dev",
		Instances: instances,
	}
}

func TestUpRefreshesSSHConfig(t *testing.T) {
	cfg := testConfig(t)
	inst := running("web-1", "203.0.113.10")
	mock := &provider.MockProvider{
		UpFunc: func(ctx context.Context, name string) (*provider.InstanceView, error) {
			return &inst, nil
		},
		StatusFunc: func(ctx context.Context) (*provider.ClusterStatus, error) {
			return clusterStatus(inst), nil
		},
	}

	res, err := New(cfg, mock).Up(context.Background(), "web-1")
	require.NoError(t, err)
	require.NotNil(t, res.Instance)
	assert.Equal(t, "web-1", res.Instance.Name)
	assert.Equal(t, cfg.SSHConfigPath, res.SSHConfigPath)
	require.NotNil(t, res.Status)

	content, err := os.ReadFile(cfg.SSHConfigPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Host web-1")
	assert.Contains(t, string(content), "HostName 203.0.113.10")
}

func TestUpReportsInstanceWhenLaterStepFails(t *testing.T) {
	cfg := testConfig(t)
	inst := running("web-1", "")
	waitErr := errors.New("timed out waiting for running state")
	mock := &provider.MockProvider{
		UpFunc: func(ctx context.Context, name string) (*provider.InstanceView, error) {
			return &inst, waitErr
		},
		// StatusFunc left unset: a refresh after a failed up would panic.
	}

	res, err := New(cfg, mock).Up(context.Background(), "web-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, waitErr)
	require.NotNil(t, res, "the created instance must be reported despite the failure")
	assert.Equal(t, "i-web-1", res.Instance.ID)

	var opErr *provider.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "up", opErr.Op)
	assert.Equal(t, "web-1", opErr.Target)
	assert.Equal(t, "dev", opErr.Cluster)
}

func TestUpNameCollisionPassesThrough(t *testing.T) {
	cfg := testConfig(t)
	mock := &provider.MockProvider{
		UpFunc: func(ctx context.Context, name string) (*provider.InstanceView, error) {
			return nil, provider.ErrNameCollision
		},
	}

	res, err := New(cfg, mock).Up(context.Background(), "web-1")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, provider.ErrNameCollision)
}

func TestUpRejectsInvalidName(t *testing.T) {
	cfg := testConfig(t)
	mock := &provider.MockProvider{
		// UpFunc unset: the provider must never see an invalid name.
	}

	_, err := New(cfg, mock).Up(context.Background(), "Web_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestStatusWritesSSHConfigAndSkipsAddressless(t *testing.T) {
	cfg := testConfig(t)
	withIP := running("web-1", "203.0.113.10")
	withoutIP := running("web-2", "")
	mock := &provider.MockProvider{
		StatusFunc: func(ctx context.Context) (*provider.ClusterStatus, error) {
			return clusterStatus(withIP, withoutIP), nil
		},
	}

	st, err := New(cfg, mock).Status(context.Background())
	require.NoError(t, err)
	assert.Len(t, st.Instances, 2)

	content, err := os.ReadFile(cfg.SSHConfigPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Host web-1")
	assert.NotContains(t, string(content), "Host web-2")
}

func TestStatusEmptyClusterIsNotAnError(t *testing.T) {
	cfg := testConfig(t)
	mock := &provider.MockProvider{
		StatusFunc: func(ctx context.Context) (*provider.ClusterStatus, error) {
			return clusterStatus(), nil
		},
	}

	st, err := New(cfg, mock).Status(context.Background())
	require.NoError(t, err)
	assert.Empty(t, st.Instances)
}

func TestPruneRefusesNonEmptyCluster(t *testing.T) {
	cfg := testConfig(t)
	stopped := running("web-2", "")
	stopped.State = provider.RunStateStopped
	mock := &provider.MockProvider{
		StatusFunc: func(ctx context.Context) (*provider.ClusterStatus, error) {
			return clusterStatus(running("web-1", "203.0.113.10"), stopped), nil
		},
		// TeardownNetworkFunc unset: touching the network here would panic.
	}

	res, err := New(cfg, mock).Prune(context.Background(), false)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrClusterNotEmpty)
	// A stopped instance still blocks, and the blockers are named.
	assert.Contains(t, err.Error(), "web-1")
	assert.Contains(t, err.Error(), "web-2")
}

func TestPruneIgnoresTerminatedInstances(t *testing.T) {
	cfg := testConfig(t)
	gone := running("web-1", "")
	gone.State = provider.RunStateTerminated
	mock := &provider.MockProvider{
		StatusFunc: func(ctx context.Context) (*provider.ClusterStatus, error) {
			return clusterStatus(gone), nil
		},
		TeardownNetworkFunc: func(ctx context.Context) (*network.Teardown, error) {
			return &network.Teardown{Steps: []network.StepResult{
				{Kind: network.KindNetwork, Outcome: network.OutcomeDeleted, ID: "vpc-1"},
			}}, nil
		},
	}

	res, err := New(cfg, mock).Prune(context.Background(), false)
	require.NoError(t, err)
	require.NotNil(t, res.Teardown)
	assert.True(t, res.Teardown.Clean())
	assert.False(t, res.KeyRemoved)
}

func TestPruneWithForceRemovesKeyMaterial(t *testing.T) {
	cfg := testConfig(t)
	keyRemoved := false
	mock := &provider.MockProvider{
		StatusFunc: func(ctx context.Context) (*provider.ClusterStatus, error) {
			return clusterStatus(), nil
		},
		TeardownNetworkFunc: func(ctx context.Context) (*network.Teardown, error) {
			return &network.Teardown{}, nil
		},
		RemoveKeyMaterialFunc: func(ctx context.Context) error {
			keyRemoved = true
			return nil
		},
	}

	res, err := New(cfg, mock).Prune(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, keyRemoved)
	assert.True(t, res.KeyRemoved)
}

func TestPrunePartialTeardownKeepsReport(t *testing.T) {
	cfg := testConfig(t)
	stepErr := errors.New("dependency violation")
	mock := &provider.MockProvider{
		StatusFunc: func(ctx context.Context) (*provider.ClusterStatus, error) {
			return clusterStatus(), nil
		},
		TeardownNetworkFunc: func(ctx context.Context) (*network.Teardown, error) {
			return &network.Teardown{Steps: []network.StepResult{
				{Kind: network.KindRouteTable, Outcome: network.OutcomeDeleted, ID: "rt-1"},
				{Kind: network.KindGateway, Outcome: network.OutcomeFailed, ID: "igw-1", Err: stepErr},
			}}, stepErr
		},
	}

	res, err := New(cfg, mock).Prune(context.Background(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrPartialTeardown)
	require.NotNil(t, res, "partial progress must still be reported")
	require.NotNil(t, res.Teardown)
	assert.Len(t, res.Teardown.Failed(), 1)
}

func TestHealthWrapsProbeFailure(t *testing.T) {
	cfg := testConfig(t)
	mock := &provider.MockProvider{
		HealthFunc: func(ctx context.Context, name, osUser string) (*provider.HealthReport, error) {
			return nil, provider.ErrInstanceNotFound
		},
	}

	_, err := New(cfg, mock).Health(context.Background(), "web-1", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrInstanceNotFound)

	var opErr *provider.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "health", opErr.Op)
	assert.Equal(t, "web-1", opErr.Target)
}

func TestHealthReturnsDegradedReportWithoutError(t *testing.T) {
	cfg := testConfig(t)
	mock := &provider.MockProvider{
		HealthFunc: func(ctx context.Context, name, osUser string) (*provider.HealthReport, error) {
			return &provider.HealthReport{
				Name:      name,
				Diagnosis: provider.DiagnosisDegraded,
			}, nil
		},
	}

	report, err := New(cfg, mock).Health(context.Background(), "web-1", "admin")
	require.NoError(t, err, "a degraded diagnosis is a finding, not a failure")
	assert.Equal(t, provider.DiagnosisDegraded, report.Diagnosis)
}

func TestDestroyWrapsOperationIdentity(t *testing.T) {
	cfg := testConfig(t)
	mock := &provider.MockProvider{
		DestroyFunc: func(ctx context.Context, name string) (*provider.InstanceView, error) {
			return nil, provider.ErrAmbiguousTarget
		},
	}

	_, err := New(cfg, mock).Destroy(context.Background(), "web-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrAmbiguousTarget)
	assert.Contains(t, err.Error(), "destroy")
	assert.Contains(t, err.Error(), "dev/web-1")
}

func TestInitScaffoldsOnceThenRefuses(t *testing.T) {
	t.Setenv(config.EnvConfigDir, t.TempDir())

	path, err := Init(config.ProviderEC2, "dev")
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = Init(config.ProviderEC2, "dev")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrAlreadyInitialized)
}
