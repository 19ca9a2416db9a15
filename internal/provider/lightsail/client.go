package lightsail

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/lightsail"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/provider/awsauth"
)

// Narrow views of the SDK client, one per concern, so every piece of the
// adapter is testable against small fakes. *lightsail.Client satisfies all
// of them.

// InstanceAPI is the instance-lifecycle subset.
type InstanceAPI interface {
	GetInstances(ctx context.Context, params *lightsail.GetInstancesInput, optFns ...func(*lightsail.Options)) (*lightsail.GetInstancesOutput, error)
	GetInstance(ctx context.Context, params *lightsail.GetInstanceInput, optFns ...func(*lightsail.Options)) (*lightsail.GetInstanceOutput, error)
	CreateInstances(ctx context.Context, params *lightsail.CreateInstancesInput, optFns ...func(*lightsail.Options)) (*lightsail.CreateInstancesOutput, error)
	DeleteInstance(ctx context.Context, params *lightsail.DeleteInstanceInput, optFns ...func(*lightsail.Options)) (*lightsail.DeleteInstanceOutput, error)
	RebootInstance(ctx context.Context, params *lightsail.RebootInstanceInput, optFns ...func(*lightsail.Options)) (*lightsail.RebootInstanceOutput, error)
}

// PortAPI is the public-port subset: writing the port set and reading it
// back for the health probe.
type PortAPI interface {
	PutInstancePublicPorts(ctx context.Context, params *lightsail.PutInstancePublicPortsInput, optFns ...func(*lightsail.Options)) (*lightsail.PutInstancePublicPortsOutput, error)
	GetInstancePortStates(ctx context.Context, params *lightsail.GetInstancePortStatesInput, optFns ...func(*lightsail.Options)) (*lightsail.GetInstancePortStatesOutput, error)
}

// KeyAPI is the key-pair subset.
type KeyAPI interface {
	GetKeyPair(ctx context.Context, params *lightsail.GetKeyPairInput, optFns ...func(*lightsail.Options)) (*lightsail.GetKeyPairOutput, error)
	ImportKeyPair(ctx context.Context, params *lightsail.ImportKeyPairInput, optFns ...func(*lightsail.Options)) (*lightsail.ImportKeyPairOutput, error)
	DeleteKeyPair(ctx context.Context, params *lightsail.DeleteKeyPairInput, optFns ...func(*lightsail.Options)) (*lightsail.DeleteKeyPairOutput, error)
}

// PlacementAPI is the region/zone listing subset.
type PlacementAPI interface {
	GetRegions(ctx context.Context, params *lightsail.GetRegionsInput, optFns ...func(*lightsail.Options)) (*lightsail.GetRegionsOutput, error)
}

// AccessAPI is the access-details subset for the key probe.
type AccessAPI interface {
	GetInstanceAccessDetails(ctx context.Context, params *lightsail.GetInstanceAccessDetailsInput, optFns ...func(*lightsail.Options)) (*lightsail.GetInstanceAccessDetailsOutput, error)
}

// Clients bundles every service view the adapter needs.
type Clients struct {
	Instances InstanceAPI
	Ports     PortAPI
	Keys      KeyAPI
	Placement PlacementAPI
	Access    AccessAPI
}

// NewAdapter builds the adapter for one resolved cluster config, with a real
// SDK client authenticated from the environment.
func NewAdapter(ctx context.Context, cfg *config.Effective) (*Adapter, error) {
	awsCfg, err := awsauth.Load(ctx, config.ProviderLightsail, cfg.Region)
	if err != nil {
		return nil, err
	}
	client := lightsail.NewFromConfig(awsCfg)
	return New(cfg, &Clients{
		Instances: client,
		Ports:     client,
		Keys:      client,
		Placement: client,
		Access:    client,
	}), nil
}

// New wires an adapter from explicit clients. Tests inject fakes here.
func New(cfg *config.Effective, clients *Clients) *Adapter {
	return &Adapter{
		cfg:          cfg,
		clients:      clients,
		waitTimeout:  5 * time.Minute,
		pollInterval: 3 * time.Second,
	}
}
