package gce

import (
	"context"

	"google.golang.org/api/compute/v1"
)

// Hand-rolled mocks with one Func field per method. A method whose Func is
// unset panics, which keeps tests honest about the calls they expect; the
// one exception is MockOperationAPI, whose waits default to an already-DONE
// operation so tests opt in to slow paths instead of out.

var (
	_ InstanceAPI   = (*MockInstanceAPI)(nil)
	_ NetworkAPI    = (*MockNetworkAPI)(nil)
	_ SubnetworkAPI = (*MockSubnetworkAPI)(nil)
	_ FirewallAPI   = (*MockFirewallAPI)(nil)
	_ ImageAPI      = (*MockImageAPI)(nil)
	_ RegionAPI     = (*MockRegionAPI)(nil)
	_ ZoneAPI       = (*MockZoneAPI)(nil)
	_ OperationAPI  = (*MockOperationAPI)(nil)
)

type MockInstanceAPI struct {
	ListFunc   func(ctx context.Context, zone, filter, pageToken string) (*compute.InstanceList, error)
	GetFunc    func(ctx context.Context, zone, name string) (*compute.Instance, error)
	InsertFunc func(ctx context.Context, zone string, inst *compute.Instance) (*compute.Operation, error)
	DeleteFunc func(ctx context.Context, zone, name string) (*compute.Operation, error)
	ResetFunc  func(ctx context.Context, zone, name string) (*compute.Operation, error)
}

func (m *MockInstanceAPI) List(ctx context.Context, zone, filter, pageToken string) (*compute.InstanceList, error) {
	return m.ListFunc(ctx, zone, filter, pageToken)
}

func (m *MockInstanceAPI) Get(ctx context.Context, zone, name string) (*compute.Instance, error) {
	return m.GetFunc(ctx, zone, name)
}

func (m *MockInstanceAPI) Insert(ctx context.Context, zone string, inst *compute.Instance) (*compute.Operation, error) {
	return m.InsertFunc(ctx, zone, inst)
}

func (m *MockInstanceAPI) Delete(ctx context.Context, zone, name string) (*compute.Operation, error) {
	return m.DeleteFunc(ctx, zone, name)
}

func (m *MockInstanceAPI) Reset(ctx context.Context, zone, name string) (*compute.Operation, error) {
	return m.ResetFunc(ctx, zone, name)
}

type MockNetworkAPI struct {
	GetFunc    func(ctx context.Context, name string) (*compute.Network, error)
	InsertFunc func(ctx context.Context, net *compute.Network) (*compute.Operation, error)
	DeleteFunc func(ctx context.Context, name string) (*compute.Operation, error)
}

func (m *MockNetworkAPI) Get(ctx context.Context, name string) (*compute.Network, error) {
	return m.GetFunc(ctx, name)
}

func (m *MockNetworkAPI) Insert(ctx context.Context, net *compute.Network) (*compute.Operation, error) {
	return m.InsertFunc(ctx, net)
}

func (m *MockNetworkAPI) Delete(ctx context.Context, name string) (*compute.Operation, error) {
	return m.DeleteFunc(ctx, name)
}

type MockSubnetworkAPI struct {
	GetFunc    func(ctx context.Context, region, name string) (*compute.Subnetwork, error)
	InsertFunc func(ctx context.Context, region string, subnet *compute.Subnetwork) (*compute.Operation, error)
	DeleteFunc func(ctx context.Context, region, name string) (*compute.Operation, error)
}

func (m *MockSubnetworkAPI) Get(ctx context.Context, region, name string) (*compute.Subnetwork, error) {
	return m.GetFunc(ctx, region, name)
}

func (m *MockSubnetworkAPI) Insert(ctx context.Context, region string, subnet *compute.Subnetwork) (*compute.Operation, error) {
	return m.InsertFunc(ctx, region, subnet)
}

func (m *MockSubnetworkAPI) Delete(ctx context.Context, region, name string) (*compute.Operation, error) {
	return m.DeleteFunc(ctx, region, name)
}

type MockFirewallAPI struct {
	GetFunc    func(ctx context.Context, name string) (*compute.Firewall, error)
	ListFunc   func(ctx context.Context, pageToken string) (*compute.FirewallList, error)
	InsertFunc func(ctx context.Context, fw *compute.Firewall) (*compute.Operation, error)
	DeleteFunc func(ctx context.Context, name string) (*compute.Operation, error)
}

func (m *MockFirewallAPI) Get(ctx context.Context, name string) (*compute.Firewall, error) {
	return m.GetFunc(ctx, name)
}

func (m *MockFirewallAPI) List(ctx context.Context, pageToken string) (*compute.FirewallList, error) {
	return m.ListFunc(ctx, pageToken)
}

func (m *MockFirewallAPI) Insert(ctx context.Context, fw *compute.Firewall) (*compute.Operation, error) {
	return m.InsertFunc(ctx, fw)
}

func (m *MockFirewallAPI) Delete(ctx context.Context, name string) (*compute.Operation, error) {
	return m.DeleteFunc(ctx, name)
}

type MockImageAPI struct {
	GetFromFamilyFunc func(ctx context.Context, project, family string) (*compute.Image, error)
}

func (m *MockImageAPI) GetFromFamily(ctx context.Context, project, family string) (*compute.Image, error) {
	return m.GetFromFamilyFunc(ctx, project, family)
}

type MockRegionAPI struct {
	ListFunc func(ctx context.Context, pageToken string) (*compute.RegionList, error)
}

func (m *MockRegionAPI) List(ctx context.Context, pageToken string) (*compute.RegionList, error) {
	return m.ListFunc(ctx, pageToken)
}

type MockZoneAPI struct {
	ListFunc func(ctx context.Context, pageToken string) (*compute.ZoneList, error)
}

func (m *MockZoneAPI) List(ctx context.Context, pageToken string) (*compute.ZoneList, error) {
	return m.ListFunc(ctx, pageToken)
}

type MockOperationAPI struct {
	WaitZoneFunc   func(ctx context.Context, zone, name string) (*compute.Operation, error)
	WaitRegionFunc func(ctx context.Context, region, name string) (*compute.Operation, error)
	WaitGlobalFunc func(ctx context.Context, name string) (*compute.Operation, error)
}

func (m *MockOperationAPI) WaitZone(ctx context.Context, zone, name string) (*compute.Operation, error) {
	if m.WaitZoneFunc == nil {
		return &compute.Operation{Name: name, Status: operationDone}, nil
	}
	return m.WaitZoneFunc(ctx, zone, name)
}

func (m *MockOperationAPI) WaitRegion(ctx context.Context, region, name string) (*compute.Operation, error) {
	if m.WaitRegionFunc == nil {
		return &compute.Operation{Name: name, Status: operationDone}, nil
	}
	return m.WaitRegionFunc(ctx, region, name)
}

func (m *MockOperationAPI) WaitGlobal(ctx context.Context, name string) (*compute.Operation, error) {
	if m.WaitGlobalFunc == nil {
		return &compute.Operation{Name: name, Status: operationDone}, nil
	}
	return m.WaitGlobalFunc(ctx, name)
}
