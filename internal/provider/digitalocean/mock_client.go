package digitalocean

import (
	"context"

	"github.com/digitalocean/godo"
)

// Mock clients with per-method Func fields. A method whose Func is unset
// panics, which keeps tests honest about the calls they expect.

var (
	_ DropletAPI       = (*MockDropletAPI)(nil)
	_ DropletActionAPI = (*MockDropletActionAPI)(nil)
	_ ActionAPI        = (*MockActionAPI)(nil)
	_ FirewallAPI      = (*MockFirewallAPI)(nil)
	_ VPCAPI           = (*MockVPCAPI)(nil)
	_ KeyAPI           = (*MockKeyAPI)(nil)
	_ TagAPI           = (*MockTagAPI)(nil)
	_ RegionAPI        = (*MockRegionAPI)(nil)
	_ AccountAPI       = (*MockAccountAPI)(nil)
)

type MockDropletAPI struct {
	ListByTagFunc func(ctx context.Context, tag string, opt *godo.ListOptions) ([]godo.Droplet, *godo.Response, error)
	GetFunc       func(ctx context.Context, dropletID int) (*godo.Droplet, *godo.Response, error)
	CreateFunc    func(ctx context.Context, createRequest *godo.DropletCreateRequest) (*godo.Droplet, *godo.Response, error)
	DeleteFunc    func(ctx context.Context, dropletID int) (*godo.Response, error)
}

func (m *MockDropletAPI) ListByTag(ctx context.Context, tag string, opt *godo.ListOptions) ([]godo.Droplet, *godo.Response, error) {
	return m.ListByTagFunc(ctx, tag, opt)
}

func (m *MockDropletAPI) Get(ctx context.Context, dropletID int) (*godo.Droplet, *godo.Response, error) {
	return m.GetFunc(ctx, dropletID)
}

func (m *MockDropletAPI) Create(ctx context.Context, createRequest *godo.DropletCreateRequest) (*godo.Droplet, *godo.Response, error) {
	return m.CreateFunc(ctx, createRequest)
}

func (m *MockDropletAPI) Delete(ctx context.Context, dropletID int) (*godo.Response, error) {
	return m.DeleteFunc(ctx, dropletID)
}

type MockDropletActionAPI struct {
	RebootFunc func(ctx context.Context, dropletID int) (*godo.Action, *godo.Response, error)
}

func (m *MockDropletActionAPI) Reboot(ctx context.Context, dropletID int) (*godo.Action, *godo.Response, error) {
	return m.RebootFunc(ctx, dropletID)
}

// MockActionAPI defaults to reporting actions completed, since most tests
// only care that actions were waited on at all.
type MockActionAPI struct {
	GetFunc func(ctx context.Context, actionID int) (*godo.Action, *godo.Response, error)
}

func (m *MockActionAPI) Get(ctx context.Context, actionID int) (*godo.Action, *godo.Response, error) {
	if m.GetFunc == nil {
		return &godo.Action{ID: actionID, Status: godo.ActionCompleted}, nil, nil
	}
	return m.GetFunc(ctx, actionID)
}

type MockFirewallAPI struct {
	ListFunc          func(ctx context.Context, opt *godo.ListOptions) ([]godo.Firewall, *godo.Response, error)
	ListByDropletFunc func(ctx context.Context, dropletID int, opt *godo.ListOptions) ([]godo.Firewall, *godo.Response, error)
	CreateFunc        func(ctx context.Context, fr *godo.FirewallRequest) (*godo.Firewall, *godo.Response, error)
	DeleteFunc        func(ctx context.Context, fID string) (*godo.Response, error)
}

func (m *MockFirewallAPI) List(ctx context.Context, opt *godo.ListOptions) ([]godo.Firewall, *godo.Response, error) {
	return m.ListFunc(ctx, opt)
}

func (m *MockFirewallAPI) ListByDroplet(ctx context.Context, dropletID int, opt *godo.ListOptions) ([]godo.Firewall, *godo.Response, error) {
	return m.ListByDropletFunc(ctx, dropletID, opt)
}

func (m *MockFirewallAPI) Create(ctx context.Context, fr *godo.FirewallRequest) (*godo.Firewall, *godo.Response, error) {
	return m.CreateFunc(ctx, fr)
}

func (m *MockFirewallAPI) Delete(ctx context.Context, fID string) (*godo.Response, error) {
	return m.DeleteFunc(ctx, fID)
}

type MockVPCAPI struct {
	ListFunc   func(ctx context.Context, opt *godo.ListOptions) ([]*godo.VPC, *godo.Response, error)
	CreateFunc func(ctx context.Context, create *godo.VPCCreateRequest) (*godo.VPC, *godo.Response, error)
	DeleteFunc func(ctx context.Context, id string) (*godo.Response, error)
}

func (m *MockVPCAPI) List(ctx context.Context, opt *godo.ListOptions) ([]*godo.VPC, *godo.Response, error) {
	return m.ListFunc(ctx, opt)
}

func (m *MockVPCAPI) Create(ctx context.Context, create *godo.VPCCreateRequest) (*godo.VPC, *godo.Response, error) {
	return m.CreateFunc(ctx, create)
}

func (m *MockVPCAPI) Delete(ctx context.Context, id string) (*godo.Response, error) {
	return m.DeleteFunc(ctx, id)
}

type MockKeyAPI struct {
	ListFunc       func(ctx context.Context, opt *godo.ListOptions) ([]godo.Key, *godo.Response, error)
	CreateFunc     func(ctx context.Context, createRequest *godo.KeyCreateRequest) (*godo.Key, *godo.Response, error)
	DeleteByIDFunc func(ctx context.Context, keyID int) (*godo.Response, error)
}

func (m *MockKeyAPI) List(ctx context.Context, opt *godo.ListOptions) ([]godo.Key, *godo.Response, error) {
	return m.ListFunc(ctx, opt)
}

func (m *MockKeyAPI) Create(ctx context.Context, createRequest *godo.KeyCreateRequest) (*godo.Key, *godo.Response, error) {
	return m.CreateFunc(ctx, createRequest)
}

func (m *MockKeyAPI) DeleteByID(ctx context.Context, keyID int) (*godo.Response, error) {
	return m.DeleteByIDFunc(ctx, keyID)
}

type MockTagAPI struct {
	GetFunc    func(ctx context.Context, name string) (*godo.Tag, *godo.Response, error)
	CreateFunc func(ctx context.Context, createRequest *godo.TagCreateRequest) (*godo.Tag, *godo.Response, error)
	DeleteFunc func(ctx context.Context, name string) (*godo.Response, error)
}

func (m *MockTagAPI) Get(ctx context.Context, name string) (*godo.Tag, *godo.Response, error) {
	return m.GetFunc(ctx, name)
}

func (m *MockTagAPI) Create(ctx context.Context, createRequest *godo.TagCreateRequest) (*godo.Tag, *godo.Response, error) {
	return m.CreateFunc(ctx, createRequest)
}

func (m *MockTagAPI) Delete(ctx context.Context, name string) (*godo.Response, error) {
	return m.DeleteFunc(ctx, name)
}

type MockRegionAPI struct {
	ListFunc func(ctx context.Context, opt *godo.ListOptions) ([]godo.Region, *godo.Response, error)
}

func (m *MockRegionAPI) List(ctx context.Context, opt *godo.ListOptions) ([]godo.Region, *godo.Response, error) {
	return m.ListFunc(ctx, opt)
}

type MockAccountAPI struct {
	GetFunc func(ctx context.Context) (*godo.Account, *godo.Response, error)
}

func (m *MockAccountAPI) Get(ctx context.Context) (*godo.Account, *godo.Response, error) {
	return m.GetFunc(ctx)
}
