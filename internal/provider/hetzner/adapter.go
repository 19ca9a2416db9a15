package hetzner

import (
	"context"
	"fmt"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/sirupsen/logrus"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/logging"
	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/provider"
)

// Adapter drives Hetzner Cloud for one cluster.
type Adapter struct {
	cfg         *config.Effective
	clients     *Clients
	waitTimeout time.Duration
}

var _ provider.Provider = (*Adapter)(nil)

func (a *Adapter) Name() string {
	return string(config.ProviderHCloud)
}

func (a *Adapter) log() *logrus.Entry {
	return logging.L().WithFields(logrus.Fields{
		"provider": a.Name(),
		"cluster":  a.cfg.ClusterName,
	})
}

func (a *Adapter) Up(ctx context.Context, name string) (*provider.InstanceView, error) {
	existing, err := a.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("instance %q in cluster %q: %w", name, a.cfg.ClusterName, provider.ErrNameCollision)
	}

	netView, err := a.template().Ensure(ctx)
	if err != nil {
		return nil, err
	}
	key, err := a.ensureSSHKey(ctx)
	if err != nil {
		return nil, err
	}

	a.log().WithFields(logrus.Fields{"name": name, "image": a.cfg.Image, "type": a.cfg.Size}).Info("Creating server")
	srv, err := a.createServer(ctx, name, netView, key)
	if srv == nil {
		return nil, err
	}
	view := a.view(srv)
	view.Name = name
	if err != nil {
		// The server exists even though a later step failed; report it.
		return &view, err
	}

	final, err := a.getByID(ctx, srv.ID)
	if err != nil || final == nil {
		return &view, err
	}
	refreshed := a.view(final)
	return &refreshed, nil
}

func (a *Adapter) Status(ctx context.Context) (*provider.ClusterStatus, error) {
	netView, err := a.template().Discover(ctx)
	if err != nil {
		return nil, err
	}
	servers, err := a.lookup(ctx, "")
	if err != nil {
		return nil, err
	}
	return &provider.ClusterStatus{
		Provider:  a.Name(),
		Cluster:   a.cfg.ClusterName,
		Network:   netView,
		Instances: a.views(servers),
	}, nil
}

func (a *Adapter) Reboot(ctx context.Context, name string) (*provider.InstanceView, error) {
	srv, err := a.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	action, err := call(ctx, func() (*hcloud.Action, error) {
		act, _, err := a.clients.Servers.Reboot(ctx, srv)
		return act, err
	})
	if err != nil {
		return nil, err
	}
	if err := a.waitActions(ctx, action); err != nil {
		view := a.view(srv)
		return &view, err
	}
	a.log().WithField("name", name).Info("Reboot requested")

	final, err := a.getByID(ctx, srv.ID)
	if err != nil || final == nil {
		view := a.view(srv)
		return &view, err
	}
	view := a.view(final)
	return &view, nil
}

func (a *Adapter) Destroy(ctx context.Context, name string) (*provider.InstanceView, error) {
	srv, err := a.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	result, err := call(ctx, func() (*hcloud.ServerDeleteResult, error) {
		res, _, err := a.clients.Servers.DeleteWithResult(ctx, srv)
		return res, err
	})
	if err != nil {
		return nil, err
	}
	if err := a.waitActions(ctx, result.Action); err != nil {
		view := a.view(srv)
		return &view, err
	}
	a.log().WithField("name", name).Info("Server deleted")

	// Deleted servers vanish from the API, so the final view is synthesized.
	view := a.view(srv)
	view.Name = name
	view.State = provider.RunStateTerminated
	return &view, nil
}

func (a *Adapter) TeardownNetwork(ctx context.Context) (*network.Teardown, error) {
	return a.template().EnsureAbsent(ctx)
}

func (a *Adapter) Regions(ctx context.Context) ([]provider.Region, error) {
	locations, err := call(ctx, func() ([]*hcloud.Location, error) {
		return a.clients.Locations.All(ctx)
	})
	if err != nil {
		return nil, err
	}
	regions := make([]provider.Region, 0, len(locations))
	for _, loc := range locations {
		regions = append(regions, provider.Region{
			Name:        loc.Name,
			Description: fmt.Sprintf("%s, %s", loc.City, loc.Country),
		})
	}
	return regions, nil
}

// Zones lists the datacenters of a location; Hetzner has no further zone
// concept below that.
func (a *Adapter) Zones(ctx context.Context, region string) ([]provider.Zone, error) {
	if region == "" {
		region = a.cfg.Region
	}
	datacenters, err := call(ctx, func() ([]*hcloud.Datacenter, error) {
		return a.clients.Datacenters.All(ctx)
	})
	if err != nil {
		return nil, err
	}
	var zones []provider.Zone
	for _, dc := range datacenters {
		if dc.Location == nil || dc.Location.Name != region {
			continue
		}
		zones = append(zones, provider.Zone{
			Name:   dc.Name,
			Region: dc.Location.Name,
		})
	}
	return zones, nil
}

// waitActions waits for the given actions to settle, bounded by the adapter
// wait timeout. Nil actions are skipped.
func (a *Adapter) waitActions(ctx context.Context, actions ...*hcloud.Action) error {
	pending := make([]*hcloud.Action, 0, len(actions))
	for _, act := range actions {
		if act != nil {
			pending = append(pending, act)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, a.waitTimeout)
	defer cancel()
	if err := a.clients.Actions.WaitFor(ctx, pending...); err != nil {
		return fmt.Errorf("waiting for actions: %w", err)
	}
	return nil
}
