package hetzner

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/tags"
	"github.com/vmcli/vmcli/internal/util/naming"
)

// template declares the cluster's network stack: one private network with
// its subnet inline, and one firewall that applies itself to every cluster
// server through the label selector. Both Finds key off the label pair, so
// repeated runs converge and teardown works from live state alone.
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
				Kind:   network.KindSecurityBoundary,
				Find:   a.findFirewall,
				Create: a.createFirewall,
				Delete: a.deleteFirewall,
			},
		},
	}
}

// resourceSelector matches one cluster resource by its label pair.
func (a *Adapter) resourceSelector(resourceName string) string {
	return tags.InstanceSelector(a.cfg.ClusterName, resourceName)
}

func (a *Adapter) resourceLabels(resourceName string) map[string]string {
	return tags.ForCluster(a.cfg.ClusterName).WithName(resourceName).Labels()
}

func mustCIDR(cidr string) *net.IPNet {
	_, ipNet, _ := net.ParseCIDR(cidr)
	return ipNet
}

func (a *Adapter) findNetwork(ctx context.Context) (string, error) {
	networks, err := call(ctx, func() ([]*hcloud.Network, error) {
		return a.clients.Networks.AllWithOpts(ctx, hcloud.NetworkListOpts{
			ListOpts: hcloud.ListOpts{LabelSelector: a.resourceSelector(naming.FlatNetwork(a.cfg.ClusterName))},
		})
	})
	if err != nil {
		return "", err
	}
	switch len(networks) {
	case 0:
		return "", nil
	case 1:
		return strconv.FormatInt(networks[0].ID, 10), nil
	default:
		return "", fmt.Errorf("%d networks labeled for cluster %q", len(networks), a.cfg.ClusterName)
	}
}

// createNetwork creates the private network with its subnet inline. The
// subnet's network zone comes from the configured location.
func (a *Adapter) createNetwork(ctx context.Context, _ *network.View) (string, error) {
	loc, err := call(ctx, func() (*hcloud.Location, error) {
		l, _, err := a.clients.Locations.GetByName(ctx, a.cfg.Region)
		return l, err
	})
	if err != nil {
		return "", err
	}
	if loc == nil {
		return "", fmt.Errorf("unknown location %q", a.cfg.Region)
	}

	created, err := call(ctx, func() (*hcloud.Network, error) {
		n, _, err := a.clients.Networks.Create(ctx, hcloud.NetworkCreateOpts{
			Name:    naming.FlatNetwork(a.cfg.ClusterName),
			IPRange: mustCIDR(network.CIDRNetwork),
			Subnets: []hcloud.NetworkSubnet{{
				Type:        hcloud.NetworkSubnetTypeCloud,
				IPRange:     mustCIDR(network.CIDRSubnet),
				NetworkZone: loc.NetworkZone,
			}},
			Labels: a.resourceLabels(naming.FlatNetwork(a.cfg.ClusterName)),
		})
		return n, err
	})
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(created.ID, 10), nil
}

func (a *Adapter) deleteNetwork(ctx context.Context, id string) error {
	netID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid network id %q: %w", id, err)
	}
	_, err = call(ctx, func() (*hcloud.Response, error) {
		return a.clients.Networks.Delete(ctx, &hcloud.Network{ID: netID})
	})
	if isNotFound(err) {
		return nil
	}
	return err
}

func (a *Adapter) findFirewall(ctx context.Context) (string, error) {
	firewalls, err := call(ctx, func() ([]*hcloud.Firewall, error) {
		return a.clients.Firewalls.AllWithOpts(ctx, hcloud.FirewallListOpts{
			ListOpts: hcloud.ListOpts{LabelSelector: a.resourceSelector(naming.Firewall(a.cfg.ClusterName))},
		})
	})
	if err != nil {
		return "", err
	}
	switch len(firewalls) {
	case 0:
		return "", nil
	case 1:
		return strconv.FormatInt(firewalls[0].ID, 10), nil
	default:
		return "", fmt.Errorf("%d firewalls labeled for cluster %q", len(firewalls), a.cfg.ClusterName)
	}
}

// ingressRules opens the cluster port set to the world, both address
// families, matching the other providers' boundary rules.
func ingressRules() []hcloud.FirewallRule {
	world := []net.IPNet{*mustCIDR("0.0.0.0/0"), *mustCIDR("::/0")}
	rules := make([]hcloud.FirewallRule, 0, len(network.IngressPorts))
	for _, port := range network.IngressPorts {
		rules = append(rules, hcloud.FirewallRule{
			Direction: hcloud.FirewallRuleDirectionIn,
			Protocol:  hcloud.FirewallRuleProtocolTCP,
			Port:      hcloud.Ptr(strconv.Itoa(port)),
			SourceIPs: world,
		})
	}
	return rules
}

// createFirewall creates the cluster firewall and applies it to every
// server carrying the cluster label, present and future.
func (a *Adapter) createFirewall(ctx context.Context, _ *network.View) (string, error) {
	name := naming.Firewall(a.cfg.ClusterName)
	result, err := call(ctx, func() (hcloud.FirewallCreateResult, error) {
		res, _, err := a.clients.Firewalls.Create(ctx, hcloud.FirewallCreateOpts{
			Name:   name,
			Rules:  ingressRules(),
			Labels: a.resourceLabels(name),
			ApplyTo: []hcloud.FirewallResource{{
				Type: hcloud.FirewallResourceTypeLabelSelector,
				LabelSelector: &hcloud.FirewallResourceLabelSelector{
					Selector: tags.ClusterSelector(a.cfg.ClusterName),
				},
			}},
		})
		return res, err
	})
	if err != nil {
		return "", err
	}
	id := strconv.FormatInt(result.Firewall.ID, 10)
	if err := a.waitActions(ctx, result.Actions...); err != nil {
		return id, fmt.Errorf("apply firewall %s: %w", id, err)
	}
	return id, nil
}

// deleteFirewall removes the firewall's applications first; hcloud refuses
// to delete a firewall that is still applied to anything.
func (a *Adapter) deleteFirewall(ctx context.Context, id string) error {
	fwID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid firewall id %q: %w", id, err)
	}
	fw, err := call(ctx, func() (*hcloud.Firewall, error) {
		f, _, err := a.clients.Firewalls.GetByID(ctx, fwID)
		return f, err
	})
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if fw == nil {
		return nil
	}
	if len(fw.AppliedTo) > 0 {
		actions, err := call(ctx, func() ([]*hcloud.Action, error) {
			acts, _, err := a.clients.Firewalls.RemoveResources(ctx, fw, fw.AppliedTo)
			return acts, err
		})
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("detach firewall %s: %w", id, err)
		}
		if err := a.waitActions(ctx, actions...); err != nil {
			return err
		}
	}
	_, err = call(ctx, func() (*hcloud.Response, error) {
		return a.clients.Firewalls.Delete(ctx, fw)
	})
	if isNotFound(err) {
		return nil
	}
	return err
}
