package hetzner

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// Mock clients with per-method Func fields. A method whose Func is unset
// panics, which keeps tests honest about the calls they expect.

var (
	_ ServerAPI     = (*MockServerAPI)(nil)
	_ NetworkAPI    = (*MockNetworkAPI)(nil)
	_ FirewallAPI   = (*MockFirewallAPI)(nil)
	_ SSHKeyAPI     = (*MockSSHKeyAPI)(nil)
	_ LocationAPI   = (*MockLocationAPI)(nil)
	_ DatacenterAPI = (*MockDatacenterAPI)(nil)
	_ ServerTypeAPI = (*MockServerTypeAPI)(nil)
	_ ImageAPI      = (*MockImageAPI)(nil)
	_ ActionAPI     = (*MockActionAPI)(nil)
)

type MockServerAPI struct {
	AllWithOptsFunc      func(ctx context.Context, opts hcloud.ServerListOpts) ([]*hcloud.Server, error)
	GetByIDFunc          func(ctx context.Context, id int64) (*hcloud.Server, *hcloud.Response, error)
	CreateFunc           func(ctx context.Context, opts hcloud.ServerCreateOpts) (hcloud.ServerCreateResult, *hcloud.Response, error)
	DeleteWithResultFunc func(ctx context.Context, server *hcloud.Server) (*hcloud.ServerDeleteResult, *hcloud.Response, error)
	RebootFunc           func(ctx context.Context, server *hcloud.Server) (*hcloud.Action, *hcloud.Response, error)
}

func (m *MockServerAPI) AllWithOpts(ctx context.Context, opts hcloud.ServerListOpts) ([]*hcloud.Server, error) {
	return m.AllWithOptsFunc(ctx, opts)
}

func (m *MockServerAPI) GetByID(ctx context.Context, id int64) (*hcloud.Server, *hcloud.Response, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockServerAPI) Create(ctx context.Context, opts hcloud.ServerCreateOpts) (hcloud.ServerCreateResult, *hcloud.Response, error) {
	return m.CreateFunc(ctx, opts)
}

func (m *MockServerAPI) DeleteWithResult(ctx context.Context, server *hcloud.Server) (*hcloud.ServerDeleteResult, *hcloud.Response, error) {
	return m.DeleteWithResultFunc(ctx, server)
}

func (m *MockServerAPI) Reboot(ctx context.Context, server *hcloud.Server) (*hcloud.Action, *hcloud.Response, error) {
	return m.RebootFunc(ctx, server)
}

type MockNetworkAPI struct {
	AllWithOptsFunc func(ctx context.Context, opts hcloud.NetworkListOpts) ([]*hcloud.Network, error)
	CreateFunc      func(ctx context.Context, opts hcloud.NetworkCreateOpts) (*hcloud.Network, *hcloud.Response, error)
	DeleteFunc      func(ctx context.Context, network *hcloud.Network) (*hcloud.Response, error)
}

func (m *MockNetworkAPI) AllWithOpts(ctx context.Context, opts hcloud.NetworkListOpts) ([]*hcloud.Network, error) {
	return m.AllWithOptsFunc(ctx, opts)
}

func (m *MockNetworkAPI) Create(ctx context.Context, opts hcloud.NetworkCreateOpts) (*hcloud.Network, *hcloud.Response, error) {
	return m.CreateFunc(ctx, opts)
}

func (m *MockNetworkAPI) Delete(ctx context.Context, network *hcloud.Network) (*hcloud.Response, error) {
	return m.DeleteFunc(ctx, network)
}

type MockFirewallAPI struct {
	AllWithOptsFunc     func(ctx context.Context, opts hcloud.FirewallListOpts) ([]*hcloud.Firewall, error)
	GetByIDFunc         func(ctx context.Context, id int64) (*hcloud.Firewall, *hcloud.Response, error)
	CreateFunc          func(ctx context.Context, opts hcloud.FirewallCreateOpts) (hcloud.FirewallCreateResult, *hcloud.Response, error)
	RemoveResourcesFunc func(ctx context.Context, firewall *hcloud.Firewall, resources []hcloud.FirewallResource) ([]*hcloud.Action, *hcloud.Response, error)
	DeleteFunc          func(ctx context.Context, firewall *hcloud.Firewall) (*hcloud.Response, error)
}

func (m *MockFirewallAPI) AllWithOpts(ctx context.Context, opts hcloud.FirewallListOpts) ([]*hcloud.Firewall, error) {
	return m.AllWithOptsFunc(ctx, opts)
}

func (m *MockFirewallAPI) GetByID(ctx context.Context, id int64) (*hcloud.Firewall, *hcloud.Response, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockFirewallAPI) Create(ctx context.Context, opts hcloud.FirewallCreateOpts) (hcloud.FirewallCreateResult, *hcloud.Response, error) {
	return m.CreateFunc(ctx, opts)
}

func (m *MockFirewallAPI) RemoveResources(ctx context.Context, firewall *hcloud.Firewall, resources []hcloud.FirewallResource) ([]*hcloud.Action, *hcloud.Response, error) {
	return m.RemoveResourcesFunc(ctx, firewall, resources)
}

func (m *MockFirewallAPI) Delete(ctx context.Context, firewall *hcloud.Firewall) (*hcloud.Response, error) {
	return m.DeleteFunc(ctx, firewall)
}

type MockSSHKeyAPI struct {
	GetByNameFunc func(ctx context.Context, name string) (*hcloud.SSHKey, *hcloud.Response, error)
	CreateFunc    func(ctx context.Context, opts hcloud.SSHKeyCreateOpts) (*hcloud.SSHKey, *hcloud.Response, error)
	DeleteFunc    func(ctx context.Context, key *hcloud.SSHKey) (*hcloud.Response, error)
}

func (m *MockSSHKeyAPI) GetByName(ctx context.Context, name string) (*hcloud.SSHKey, *hcloud.Response, error) {
	return m.GetByNameFunc(ctx, name)
}

func (m *MockSSHKeyAPI) Create(ctx context.Context, opts hcloud.SSHKeyCreateOpts) (*hcloud.SSHKey, *hcloud.Response, error) {
	return m.CreateFunc(ctx, opts)
}

func (m *MockSSHKeyAPI) Delete(ctx context.Context, key *hcloud.SSHKey) (*hcloud.Response, error) {
	return m.DeleteFunc(ctx, key)
}

type MockLocationAPI struct {
	AllFunc       func(ctx context.Context) ([]*hcloud.Location, error)
	GetByNameFunc func(ctx context.Context, name string) (*hcloud.Location, *hcloud.Response, error)
}

func (m *MockLocationAPI) All(ctx context.Context) ([]*hcloud.Location, error) {
	return m.AllFunc(ctx)
}

func (m *MockLocationAPI) GetByName(ctx context.Context, name string) (*hcloud.Location, *hcloud.Response, error) {
	return m.GetByNameFunc(ctx, name)
}

type MockDatacenterAPI struct {
	AllFunc func(ctx context.Context) ([]*hcloud.Datacenter, error)
}

func (m *MockDatacenterAPI) All(ctx context.Context) ([]*hcloud.Datacenter, error) {
	return m.AllFunc(ctx)
}

type MockServerTypeAPI struct {
	GetByNameFunc func(ctx context.Context, name string) (*hcloud.ServerType, *hcloud.Response, error)
}

func (m *MockServerTypeAPI) GetByName(ctx context.Context, name string) (*hcloud.ServerType, *hcloud.Response, error) {
	return m.GetByNameFunc(ctx, name)
}

type MockImageAPI struct {
	GetByNameAndArchitectureFunc func(ctx context.Context, name string, architecture hcloud.Architecture) (*hcloud.Image, *hcloud.Response, error)
}

func (m *MockImageAPI) GetByNameAndArchitecture(ctx context.Context, name string, architecture hcloud.Architecture) (*hcloud.Image, *hcloud.Response, error) {
	return m.GetByNameAndArchitectureFunc(ctx, name, architecture)
}

// MockActionAPI defaults to settling immediately, since most tests only care
// that actions were waited on at all.
type MockActionAPI struct {
	WaitForFunc func(ctx context.Context, actions ...*hcloud.Action) error
}

func (m *MockActionAPI) WaitFor(ctx context.Context, actions ...*hcloud.Action) error {
	if m.WaitForFunc == nil {
		return nil
	}
	return m.WaitForFunc(ctx, actions...)
}
