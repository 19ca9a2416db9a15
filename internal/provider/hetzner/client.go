package hetzner

import (
	"context"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/vmcli/vmcli/internal/config"
)

// Narrow views of the hcloud sub-clients, one per concern, so every piece of
// the adapter is testable against small fakes. The corresponding field of
// *hcloud.Client satisfies each interface.

// ServerAPI is the server-lifecycle subset.
type ServerAPI interface {
	AllWithOpts(ctx context.Context, opts hcloud.ServerListOpts) ([]*hcloud.Server, error)
	GetByID(ctx context.Context, id int64) (*hcloud.Server, *hcloud.Response, error)
	Create(ctx context.Context, opts hcloud.ServerCreateOpts) (hcloud.ServerCreateResult, *hcloud.Response, error)
	DeleteWithResult(ctx context.Context, server *hcloud.Server) (*hcloud.ServerDeleteResult, *hcloud.Response, error)
	Reboot(ctx context.Context, server *hcloud.Server) (*hcloud.Action, *hcloud.Response, error)
}

// NetworkAPI is the private-network subset used by the network template.
type NetworkAPI interface {
	AllWithOpts(ctx context.Context, opts hcloud.NetworkListOpts) ([]*hcloud.Network, error)
	Create(ctx context.Context, opts hcloud.NetworkCreateOpts) (*hcloud.Network, *hcloud.Response, error)
	Delete(ctx context.Context, network *hcloud.Network) (*hcloud.Response, error)
}

// FirewallAPI is the firewall subset. Deletion needs GetByID and
// RemoveResources because an applied firewall refuses to go away.
type FirewallAPI interface {
	AllWithOpts(ctx context.Context, opts hcloud.FirewallListOpts) ([]*hcloud.Firewall, error)
	GetByID(ctx context.Context, id int64) (*hcloud.Firewall, *hcloud.Response, error)
	Create(ctx context.Context, opts hcloud.FirewallCreateOpts) (hcloud.FirewallCreateResult, *hcloud.Response, error)
	RemoveResources(ctx context.Context, firewall *hcloud.Firewall, resources []hcloud.FirewallResource) ([]*hcloud.Action, *hcloud.Response, error)
	Delete(ctx context.Context, firewall *hcloud.Firewall) (*hcloud.Response, error)
}

// SSHKeyAPI is the key-resource subset.
type SSHKeyAPI interface {
	GetByName(ctx context.Context, name string) (*hcloud.SSHKey, *hcloud.Response, error)
	Create(ctx context.Context, opts hcloud.SSHKeyCreateOpts) (*hcloud.SSHKey, *hcloud.Response, error)
	Delete(ctx context.Context, key *hcloud.SSHKey) (*hcloud.Response, error)
}

// LocationAPI is the location subset: region listing plus name resolution
// for the network zone.
type LocationAPI interface {
	All(ctx context.Context) ([]*hcloud.Location, error)
	GetByName(ctx context.Context, name string) (*hcloud.Location, *hcloud.Response, error)
}

// DatacenterAPI is the datacenter subset backing zone listing.
type DatacenterAPI interface {
	All(ctx context.Context) ([]*hcloud.Datacenter, error)
}

// ServerTypeAPI resolves the configured server type.
type ServerTypeAPI interface {
	GetByName(ctx context.Context, name string) (*hcloud.ServerType, *hcloud.Response, error)
}

// ImageAPI resolves the configured image for the server type's architecture.
type ImageAPI interface {
	GetByNameAndArchitecture(ctx context.Context, name string, architecture hcloud.Architecture) (*hcloud.Image, *hcloud.Response, error)
}

// ActionAPI waits for asynchronous hcloud actions to settle.
type ActionAPI interface {
	WaitFor(ctx context.Context, actions ...*hcloud.Action) error
}

// Clients bundles every sub-client view the adapter needs.
type Clients struct {
	Servers     ServerAPI
	Networks    NetworkAPI
	Firewalls   FirewallAPI
	SSHKeys     SSHKeyAPI
	Locations   LocationAPI
	Datacenters DatacenterAPI
	ServerTypes ServerTypeAPI
	Images      ImageAPI
	Actions     ActionAPI
}

// NewAdapter builds the adapter for one resolved cluster config, with a real
// hcloud client authenticated from HCLOUD_TOKEN.
func NewAdapter(_ context.Context, cfg *config.Effective) (*Adapter, error) {
	if err := config.ValidateEnv(config.ProviderHCloud); err != nil {
		return nil, err
	}
	client := hcloud.NewClient(hcloud.WithToken(config.Token(config.ProviderHCloud)))
	return New(cfg, &Clients{
		Servers:     &client.Server,
		Networks:    &client.Network,
		Firewalls:   &client.Firewall,
		SSHKeys:     &client.SSHKey,
		Locations:   &client.Location,
		Datacenters: &client.Datacenter,
		ServerTypes: &client.ServerType,
		Images:      &client.Image,
		Actions:     &client.Action,
	}), nil
}

// New wires an adapter from explicit clients. Tests inject fakes here.
func New(cfg *config.Effective, clients *Clients) *Adapter {
	return &Adapter{
		cfg:         cfg,
		clients:     clients,
		waitTimeout: 5 * time.Minute,
	}
}
