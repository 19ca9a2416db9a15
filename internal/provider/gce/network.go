package gce

import (
	"context"
	"strconv"

	"google.golang.org/api/compute/v1"

	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/util/naming"
)

// template declares the cluster's network stack: a custom-mode network, one
// subnet in the cluster's region, and one ingress firewall covering every
// instance on the network. GCE network resources take no labels, so the
// Finds work off the deterministic names, which double as the recorded IDs.
func (a *Adapter) template() *network.Template {
	return &network.Template{
		Provider: a.Name(),
		Cluster:  a.cfg.ClusterName,
		Steps: []network.Step{
			{
				Kind:   network.KindNetwork,
				Find:   a.findNetwork,
				Create: a.createNetwork,
				Delete: a.deleteNetwork,
			},
			{
				Kind:   network.KindSubnet,
				Find:   a.findSubnet,
				Create: a.createSubnet,
				Delete: a.deleteSubnet,
			},
			{
				Kind:   network.KindSecurityBoundary,
				Find:   a.findFirewall,
				Create: a.createFirewall,
				Delete: a.deleteFirewall,
			},
		},
	}
}

func (a *Adapter) findNetwork(ctx context.Context) (string, error) {
	name := naming.FlatNetwork(a.cfg.ClusterName)
	net, err := call(ctx, func() (*compute.Network, error) {
		return a.clients.Networks.Get(ctx, name)
	})
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return net.Name, nil
}

func (a *Adapter) createNetwork(ctx context.Context, _ *network.View) (string, error) {
	name := naming.FlatNetwork(a.cfg.ClusterName)
	op, err := call(ctx, func() (*compute.Operation, error) {
		return a.clients.Networks.Insert(ctx, &compute.Network{
			Name:                  name,
			AutoCreateSubnetworks: false,
			// False must go on the wire or the API defaults to auto mode.
			ForceSendFields: []string{"AutoCreateSubnetworks"},
		})
	})
	if err != nil {
		return "", err
	}
	return name, a.waitOperation(ctx, op)
}

func (a *Adapter) deleteNetwork(ctx context.Context, id string) error {
	op, err := call(ctx, func() (*compute.Operation, error) {
		return a.clients.Networks.Delete(ctx, id)
	})
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return a.waitOperation(ctx, op)
}

func (a *Adapter) findSubnet(ctx context.Context) (string, error) {
	name := naming.Subnet(a.cfg.ClusterName)
	subnet, err := call(ctx, func() (*compute.Subnetwork, error) {
		return a.clients.Subnetworks.Get(ctx, a.region(), name)
	})
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return subnet.Name, nil
}

func (a *Adapter) createSubnet(ctx context.Context, view *network.View) (string, error) {
	name := naming.Subnet(a.cfg.ClusterName)
	op, err := call(ctx, func() (*compute.Operation, error) {
		return a.clients.Subnetworks.Insert(ctx, a.region(), &compute.Subnetwork{
			Name:        name,
			Network:     "global/networks/" + view.NetworkID,
			IpCidrRange: network.CIDRSubnet,
		})
	})
	if err != nil {
		return "", err
	}
	return name, a.waitOperation(ctx, op)
}

func (a *Adapter) deleteSubnet(ctx context.Context, id string) error {
	op, err := call(ctx, func() (*compute.Operation, error) {
		return a.clients.Subnetworks.Delete(ctx, a.region(), id)
	})
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return a.waitOperation(ctx, op)
}

func (a *Adapter) findFirewall(ctx context.Context) (string, error) {
	name := naming.Firewall(a.cfg.ClusterName)
	fw, err := call(ctx, func() (*compute.Firewall, error) {
		return a.clients.Firewalls.Get(ctx, name)
	})
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return fw.Name, nil
}

// createFirewall opens the ingress ports to the world for every instance on
// the cluster network. No target tags, so the rule is network-wide.
func (a *Adapter) createFirewall(ctx context.Context, view *network.View) (string, error) {
	name := naming.Firewall(a.cfg.ClusterName)
	ports := make([]string, 0, len(network.IngressPorts))
	for _, p := range network.IngressPorts {
		ports = append(ports, strconv.Itoa(p))
	}
	op, err := call(ctx, func() (*compute.Operation, error) {
		return a.clients.Firewalls.Insert(ctx, &compute.Firewall{
			Name:      name,
			Network:   "global/networks/" + view.NetworkID,
			Direction: "INGRESS",
			Allowed: []*compute.FirewallAllowed{{
				IPProtocol: "tcp",
				Ports:      ports,
			}},
			SourceRanges: []string{"0.0.0.0/0"},
		})
	})
	if err != nil {
		return "", err
	}
	return name, a.waitOperation(ctx, op)
}

func (a *Adapter) deleteFirewall(ctx context.Context, id string) error {
	op, err := call(ctx, func() (*compute.Operation, error) {
		return a.clients.Firewalls.Delete(ctx, id)
	})
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return a.waitOperation(ctx, op)
}
