package lightsail

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/lightsail"
)

// Mock clients with per-method Func fields. A method whose Func is unset
// panics, which keeps tests honest about the calls they expect.

var (
	_ InstanceAPI  = (*MockInstanceAPI)(nil)
	_ PortAPI      = (*MockPortAPI)(nil)
	_ KeyAPI       = (*MockKeyAPI)(nil)
	_ PlacementAPI = (*MockPlacementAPI)(nil)
	_ AccessAPI    = (*MockAccessAPI)(nil)
)

type MockInstanceAPI struct {
	GetInstancesFunc    func(ctx context.Context, params *lightsail.GetInstancesInput, optFns ...func(*lightsail.Options)) (*lightsail.GetInstancesOutput, error)
	GetInstanceFunc     func(ctx context.Context, params *lightsail.GetInstanceInput, optFns ...func(*lightsail.Options)) (*lightsail.GetInstanceOutput, error)
	CreateInstancesFunc func(ctx context.Context, params *lightsail.CreateInstancesInput, optFns ...func(*lightsail.Options)) (*lightsail.CreateInstancesOutput, error)
	DeleteInstanceFunc  func(ctx context.Context, params *lightsail.DeleteInstanceInput, optFns ...func(*lightsail.Options)) (*lightsail.DeleteInstanceOutput, error)
	RebootInstanceFunc  func(ctx context.Context, params *lightsail.RebootInstanceInput, optFns ...func(*lightsail.Options)) (*lightsail.RebootInstanceOutput, error)
}

func (m *MockInstanceAPI) GetInstances(ctx context.Context, params *lightsail.GetInstancesInput, optFns ...func(*lightsail.Options)) (*lightsail.GetInstancesOutput, error) {
	return m.GetInstancesFunc(ctx, params, optFns...)
}

func (m *MockInstanceAPI) GetInstance(ctx context.Context, params *lightsail.GetInstanceInput, optFns ...func(*lightsail.Options)) (*lightsail.GetInstanceOutput, error) {
	return m.GetInstanceFunc(ctx, params, optFns...)
}

func (m *MockInstanceAPI) CreateInstances(ctx context.Context, params *lightsail.CreateInstancesInput, optFns ...func(*lightsail.Options)) (*lightsail.CreateInstancesOutput, error) {
	return m.CreateInstancesFunc(ctx, params, optFns...)
}

func (m *MockInstanceAPI) DeleteInstance(ctx context.Context, params *lightsail.DeleteInstanceInput, optFns ...func(*lightsail.Options)) (*lightsail.DeleteInstanceOutput, error) {
	return m.DeleteInstanceFunc(ctx, params, optFns...)
}

func (m *MockInstanceAPI) RebootInstance(ctx context.Context, params *lightsail.RebootInstanceInput, optFns ...func(*lightsail.Options)) (*lightsail.RebootInstanceOutput, error) {
	return m.RebootInstanceFunc(ctx, params, optFns...)
}

type MockPortAPI struct {
	PutInstancePublicPortsFunc func(ctx context.Context, params *lightsail.PutInstancePublicPortsInput, optFns ...func(*lightsail.Options)) (*lightsail.PutInstancePublicPortsOutput, error)
	GetInstancePortStatesFunc  func(ctx context.Context, params *lightsail.GetInstancePortStatesInput, optFns ...func(*lightsail.Options)) (*lightsail.GetInstancePortStatesOutput, error)
}

func (m *MockPortAPI) PutInstancePublicPorts(ctx context.Context, params *lightsail.PutInstancePublicPortsInput, optFns ...func(*lightsail.Options)) (*lightsail.PutInstancePublicPortsOutput, error) {
	return m.PutInstancePublicPortsFunc(ctx, params, optFns...)
}

func (m *MockPortAPI) GetInstancePortStates(ctx context.Context, params *lightsail.GetInstancePortStatesInput, optFns ...func(*lightsail.Options)) (*lightsail.GetInstancePortStatesOutput, error) {
	return m.GetInstancePortStatesFunc(ctx, params, optFns...)
}

type MockKeyAPI struct {
	GetKeyPairFunc    func(ctx context.Context, params *lightsail.GetKeyPairInput, optFns ...func(*lightsail.Options)) (*lightsail.GetKeyPairOutput, error)
	ImportKeyPairFunc func(ctx context.Context, params *lightsail.ImportKeyPairInput, optFns ...func(*lightsail.Options)) (*lightsail.ImportKeyPairOutput, error)
	DeleteKeyPairFunc func(ctx context.Context, params *lightsail.DeleteKeyPairInput, optFns ...func(*lightsail.Options)) (*lightsail.DeleteKeyPairOutput, error)
}

func (m *MockKeyAPI) GetKeyPair(ctx context.Context, params *lightsail.GetKeyPairInput, optFns ...func(*lightsail.Options)) (*lightsail.GetKeyPairOutput, error) {
	return m.GetKeyPairFunc(ctx, params, optFns...)
}

func (m *MockKeyAPI) ImportKeyPair(ctx context.Context, params *lightsail.ImportKeyPairInput, optFns ...func(*lightsail.Options)) (*lightsail.ImportKeyPairOutput, error) {
	return m.ImportKeyPairFunc(ctx, params, optFns...)
}

func (m *MockKeyAPI) DeleteKeyPair(ctx context.Context, params *lightsail.DeleteKeyPairInput, optFns ...func(*lightsail.Options)) (*lightsail.DeleteKeyPairOutput, error) {
	return m.DeleteKeyPairFunc(ctx, params, optFns...)
}

type MockPlacementAPI struct {
	GetRegionsFunc func(ctx context.Context, params *lightsail.GetRegionsInput, optFns ...func(*lightsail.Options)) (*lightsail.GetRegionsOutput, error)
}

func (m *MockPlacementAPI) GetRegions(ctx context.Context, params *lightsail.GetRegionsInput, optFns ...func(*lightsail.Options)) (*lightsail.GetRegionsOutput, error) {
	return m.GetRegionsFunc(ctx, params, optFns...)
}

type MockAccessAPI struct {
	GetInstanceAccessDetailsFunc func(ctx context.Context, params *lightsail.GetInstanceAccessDetailsInput, optFns ...func(*lightsail.Options)) (*lightsail.GetInstanceAccessDetailsOutput, error)
}

func (m *MockAccessAPI) GetInstanceAccessDetails(ctx context.Context, params *lightsail.GetInstanceAccessDetailsInput, optFns ...func(*lightsail.Options)) (*lightsail.GetInstanceAccessDetailsOutput, error) {
	return m.GetInstanceAccessDetailsFunc(ctx, params, optFns...)
}
