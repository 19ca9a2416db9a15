package hetzner

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/tags"
	"github.com/vmcli/vmcli/internal/util/naming"
)

// Deleted servers disappear from the API entirely, so every listed server
// still occupies its name.
func runState(s hcloud.ServerStatus) provider.RunState {
	switch s {
	case hcloud.ServerStatusInitializing, hcloud.ServerStatusStarting:
		return provider.RunStatePending
	case hcloud.ServerStatusRunning:
		return provider.RunStateRunning
	case hcloud.ServerStatusStopping, hcloud.ServerStatusDeleting:
		return provider.RunStateStopping
	case hcloud.ServerStatusOff:
		return provider.RunStateStopped
	default:
		return provider.RunStateUnknown
	}
}

// lookup lists the cluster's servers by label selector, narrowed to one
// logical name when name is non-empty.
func (a *Adapter) lookup(ctx context.Context, name string) ([]*hcloud.Server, error) {
	selector := tags.ClusterSelector(a.cfg.ClusterName)
	if name != "" {
		selector = tags.InstanceSelector(a.cfg.ClusterName, name)
	}
	return call(ctx, func() ([]*hcloud.Server, error) {
		return a.clients.Servers.AllWithOpts(ctx, hcloud.ServerListOpts{
			ListOpts: hcloud.ListOpts{LabelSelector: selector},
		})
	})
}

// resolve narrows a logical name to exactly one server.
func (a *Adapter) resolve(ctx context.Context, name string) (*hcloud.Server, error) {
	found, err := a.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	match, err := provider.One(found, a.cfg.ClusterName, name)
	if err != nil {
		return nil, err
	}
	return *match, nil
}

// getByID re-reads one server. A server that is already gone yields nil.
func (a *Adapter) getByID(ctx context.Context, id int64) (*hcloud.Server, error) {
	srv, err := call(ctx, func() (*hcloud.Server, error) {
		s, _, err := a.clients.Servers.GetByID(ctx, id)
		return s, err
	})
	if isNotFound(err) {
		return nil, nil
	}
	return srv, err
}

// view converts an hcloud server into the provider-neutral shape. The
// logical name lives in the label pair; the server name is the prefixed
// account-unique form.
func (a *Adapter) view(srv *hcloud.Server) provider.InstanceView {
	v := provider.InstanceView{
		ID:        strconv.FormatInt(srv.ID, 10),
		Name:      srv.Labels[tags.LabelName],
		Cluster:   a.cfg.ClusterName,
		State:     runState(srv.Status),
		Checks:    provider.ChecksUnknown,
		KeyName:   a.cfg.KeyPairName,
		CreatedAt: srv.Created,
	}
	if v.Name == "" {
		v.Name = srv.Name
	}
	if srv.PublicNet.IPv4.IP != nil && !srv.PublicNet.IPv4.IP.IsUnspecified() {
		v.PublicIP = srv.PublicNet.IPv4.IP.String()
	}
	if len(srv.PrivateNet) > 0 && srv.PrivateNet[0].IP != nil {
		v.PrivateIP = srv.PrivateNet[0].IP.String()
	}
	if srv.ServerType != nil {
		v.Size = srv.ServerType.Name
	}
	if srv.Datacenter != nil {
		v.Zone = srv.Datacenter.Name
	}
	return v
}

func (a *Adapter) views(servers []*hcloud.Server) []provider.InstanceView {
	out := make([]provider.InstanceView, 0, len(servers))
	for _, srv := range servers {
		out = append(out, a.view(srv))
	}
	return out
}

// createServer provisions the server attached to the cluster network and
// waits for the create actions to settle. The firewall needs no mention
// here; it applies itself through the cluster label selector.
func (a *Adapter) createServer(ctx context.Context, name string, netView network.View, key *hcloud.SSHKey) (*hcloud.Server, error) {
	serverType, err := call(ctx, func() (*hcloud.ServerType, error) {
		st, _, err := a.clients.ServerTypes.GetByName(ctx, a.cfg.Size)
		return st, err
	})
	if err != nil {
		return nil, err
	}
	if serverType == nil {
		return nil, fmt.Errorf("unknown server type %q", a.cfg.Size)
	}

	image, err := call(ctx, func() (*hcloud.Image, error) {
		img, _, err := a.clients.Images.GetByNameAndArchitecture(ctx, a.cfg.Image, serverType.Architecture)
		return img, err
	})
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, fmt.Errorf("unknown image %q for architecture %s", a.cfg.Image, serverType.Architecture)
	}

	netID, err := strconv.ParseInt(netView.NetworkID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid network id %q: %w", netView.NetworkID, err)
	}

	opts := hcloud.ServerCreateOpts{
		Name:       naming.Instance(a.cfg.ClusterName, name),
		ServerType: serverType,
		Image:      image,
		SSHKeys:    []*hcloud.SSHKey{key},
		Networks:   []*hcloud.Network{{ID: netID}},
		Labels:     tags.ForInstance(a.cfg.ClusterName, name).Labels(),
	}
	if a.cfg.Zone != "" {
		opts.Datacenter = &hcloud.Datacenter{Name: a.cfg.Zone}
	} else {
		opts.Location = &hcloud.Location{Name: a.cfg.Region}
	}

	result, err := call(ctx, func() (hcloud.ServerCreateResult, error) {
		res, _, err := a.clients.Servers.Create(ctx, opts)
		return res, err
	})
	if err != nil {
		return nil, err
	}
	actions := append([]*hcloud.Action{result.Action}, result.NextActions...)
	if err := a.waitActions(ctx, actions...); err != nil {
		return result.Server, err
	}
	return result.Server, nil
}
