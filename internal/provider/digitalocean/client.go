package digitalocean

import (
	"context"
	"time"

	"github.com/digitalocean/godo"

	"github.com/vmcli/vmcli/internal/config"
)

// Narrow views of the godo services, one per concern, so every piece of the
// adapter is testable against small fakes. The corresponding service of
// *godo.Client satisfies each interface.

// DropletAPI is the droplet-lifecycle subset.
type DropletAPI interface {
	ListByTag(ctx context.Context, tag string, opt *godo.ListOptions) ([]godo.Droplet, *godo.Response, error)
	Get(ctx context.Context, dropletID int) (*godo.Droplet, *godo.Response, error)
	Create(ctx context.Context, createRequest *godo.DropletCreateRequest) (*godo.Droplet, *godo.Response, error)
	Delete(ctx context.Context, dropletID int) (*godo.Response, error)
}

// DropletActionAPI issues droplet power actions.
type DropletActionAPI interface {
	Reboot(ctx context.Context, dropletID int) (*godo.Action, *godo.Response, error)
}

// ActionAPI polls asynchronous actions until they settle.
type ActionAPI interface {
	Get(ctx context.Context, actionID int) (*godo.Action, *godo.Response, error)
}

// FirewallAPI is the cloud-firewall subset.
type FirewallAPI interface {
	List(ctx context.Context, opt *godo.ListOptions) ([]godo.Firewall, *godo.Response, error)
	ListByDroplet(ctx context.Context, dropletID int, opt *godo.ListOptions) ([]godo.Firewall, *godo.Response, error)
	Create(ctx context.Context, fr *godo.FirewallRequest) (*godo.Firewall, *godo.Response, error)
	Delete(ctx context.Context, fID string) (*godo.Response, error)
}

// VPCAPI is the VPC subset used by the network template.
type VPCAPI interface {
	List(ctx context.Context, opt *godo.ListOptions) ([]*godo.VPC, *godo.Response, error)
	Create(ctx context.Context, create *godo.VPCCreateRequest) (*godo.VPC, *godo.Response, error)
	Delete(ctx context.Context, id string) (*godo.Response, error)
}

// KeyAPI is the account SSH-key subset.
type KeyAPI interface {
	List(ctx context.Context, opt *godo.ListOptions) ([]godo.Key, *godo.Response, error)
	Create(ctx context.Context, createRequest *godo.KeyCreateRequest) (*godo.Key, *godo.Response, error)
	DeleteByID(ctx context.Context, keyID int) (*godo.Response, error)
}

// TagAPI manages the cluster tag the firewall targets. The tag has to exist
// before a firewall may reference it.
type TagAPI interface {
	Get(ctx context.Context, name string) (*godo.Tag, *godo.Response, error)
	Create(ctx context.Context, createRequest *godo.TagCreateRequest) (*godo.Tag, *godo.Response, error)
	Delete(ctx context.Context, name string) (*godo.Response, error)
}

// RegionAPI lists the region catalog.
type RegionAPI interface {
	List(ctx context.Context, opt *godo.ListOptions) ([]godo.Region, *godo.Response, error)
}

// AccountAPI reports the caller's account.
type AccountAPI interface {
	Get(ctx context.Context) (*godo.Account, *godo.Response, error)
}

// Clients bundles every service view the adapter needs.
type Clients struct {
	Droplets       DropletAPI
	DropletActions DropletActionAPI
	Actions        ActionAPI
	Firewalls      FirewallAPI
	VPCs           VPCAPI
	Keys           KeyAPI
	Tags           TagAPI
	Regions        RegionAPI
	Account        AccountAPI
}

// NewAdapter builds the adapter for one resolved cluster config, with a real
// godo client authenticated from DIGITALOCEAN_TOKEN.
func NewAdapter(_ context.Context, cfg *config.Effective) (*Adapter, error) {
	if err := config.ValidateEnv(config.ProviderDO); err != nil {
		return nil, err
	}
	client := godo.NewFromToken(config.Token(config.ProviderDO))
	return New(cfg, &Clients{
		Droplets:       client.Droplets,
		DropletActions: client.DropletActions,
		Actions:        client.Actions,
		Firewalls:      client.Firewalls,
		VPCs:           client.VPCs,
		Keys:           client.Keys,
		Tags:           client.Tags,
		Regions:        client.Regions,
		Account:        client.Account,
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

// paginate walks a page-based list call to exhaustion. Fakes that return a
// nil response stop after the first page.
func paginate[T any](ctx context.Context, list func(ctx context.Context, opt *godo.ListOptions) ([]T, *godo.Response, error)) ([]T, error) {
	var out []T
	opt := &godo.ListOptions{PerPage: 200}
	for {
		page, resp, err := list(ctx, opt)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if resp == nil || resp.Links == nil || resp.Links.IsLastPage() {
			return out, nil
		}
		current, err := resp.Links.CurrentPage()
		if err != nil {
			return nil, err
		}
		opt.Page = current + 1
	}
}
