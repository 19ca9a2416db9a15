package provider

import (
	"context"

	"github.com/vmcli/vmcli/internal/network"
)

// MockProvider is a test double for Provider with per-method Func fields.
// Unset methods panic, which keeps tests honest about what they exercise.
type MockProvider struct {
	NameFunc              func() string
	UpFunc                func(ctx context.Context, name string) (*InstanceView, error)
	StatusFunc            func(ctx context.Context) (*ClusterStatus, error)
	HealthFunc            func(ctx context.Context, name, osUser string) (*HealthReport, error)
	RebootFunc            func(ctx context.Context, name string) (*InstanceView, error)
	DestroyFunc           func(ctx context.Context, name string) (*InstanceView, error)
	TeardownNetworkFunc   func(ctx context.Context) (*network.Teardown, error)
	RemoveKeyMaterialFunc func(ctx context.Context) error
	RegionsFunc           func(ctx context.Context) ([]Region, error)
	ZonesFunc             func(ctx context.Context, region string) ([]Zone, error)
	IdentityFunc          func(ctx context.Context) (string, error)
}

var _ Provider = (*MockProvider)(nil)
var _ AccountReporter = (*MockProvider)(nil)

func (m *MockProvider) Name() string {
	if m.NameFunc == nil {
		return "mock"
	}
	return m.NameFunc()
}

func (m *MockProvider) Up(ctx context.Context, name string) (*InstanceView, error) {
	return m.UpFunc(ctx, name)
}

func (m *MockProvider) Status(ctx context.Context) (*ClusterStatus, error) {
	return m.StatusFunc(ctx)
}

func (m *MockProvider) Health(ctx context.Context, name, osUser string) (*HealthReport, error) {
	return m.HealthFunc(ctx, name, osUser)
}

func (m *MockProvider) Reboot(ctx context.Context, name string) (*InstanceView, error) {
	return m.RebootFunc(ctx, name)
}

func (m *MockProvider) Destroy(ctx context.Context, name string) (*InstanceView, error) {
	return m.DestroyFunc(ctx, name)
}

func (m *MockProvider) TeardownNetwork(ctx context.Context) (*network.Teardown, error) {
	return m.TeardownNetworkFunc(ctx)
}

func (m *MockProvider) RemoveKeyMaterial(ctx context.Context) error {
	return m.RemoveKeyMaterialFunc(ctx)
}

func (m *MockProvider) Regions(ctx context.Context) ([]Region, error) {
	return m.RegionsFunc(ctx)
}

func (m *MockProvider) Zones(ctx context.Context, region string) ([]Zone, error) {
	return m.ZonesFunc(ctx, region)
}

func (m *MockProvider) Identity(ctx context.Context) (string, error) {
	return m.IdentityFunc(ctx)
}
