package digitalocean

import (
	"context"
	"fmt"
	"strconv"

	"github.com/digitalocean/godo"

	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/tags"
	"github.com/vmcli/vmcli/internal/util/naming"
)

// template declares the cluster's network stack: one VPC found by its
// deterministic name (VPCs take no tags) and one firewall that targets
// every droplet carrying the cluster tag, present and future.
func (a *Adapter) template() *network.Template {
	return &network.Template{
		Provider: a.Name(),
		Cluster:  a.cfg.ClusterName,
		Steps: []network.Step{
			{
				Kind:   network.KindNetwork,
				Find:   a.findVPC,
				Create: a.createVPC,
				Delete: a.deleteVPC,
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

// findVPC locates the cluster VPC by name. VPC names are unique per
// account, so a name match in the wrong region is a conflict, not a
// candidate.
func (a *Adapter) findVPC(ctx context.Context) (string, error) {
	name := naming.Network(a.cfg.ClusterName)
	vpcs, err := call(ctx, func() ([]*godo.VPC, error) {
		return paginate(ctx, func(ctx context.Context, opt *godo.ListOptions) ([]*godo.VPC, *godo.Response, error) {
			return a.clients.VPCs.List(ctx, opt)
		})
	})
	if err != nil {
		return "", err
	}
	for _, vpc := range vpcs {
		if vpc.Name != name {
			continue
		}
		if vpc.RegionSlug != a.cfg.Region {
			return "", fmt.Errorf("VPC %q already exists in region %s, cluster is configured for %s", name, vpc.RegionSlug, a.cfg.Region)
		}
		return vpc.ID, nil
	}
	return "", nil
}

// createVPC provisions the cluster VPC. A VPC is one flat range, so it
// takes the subnet CIDR directly.
func (a *Adapter) createVPC(ctx context.Context, _ *network.View) (string, error) {
	created, err := call(ctx, func() (*godo.VPC, error) {
		v, _, err := a.clients.VPCs.Create(ctx, &godo.VPCCreateRequest{
			Name:       naming.Network(a.cfg.ClusterName),
			RegionSlug: a.cfg.Region,
			IPRange:    network.CIDRSubnet,
		})
		return v, err
	})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (a *Adapter) deleteVPC(ctx context.Context, id string) error {
	_, err := call(ctx, func() (*godo.Response, error) {
		return a.clients.VPCs.Delete(ctx, id)
	})
	if isNotFound(err) {
		return nil
	}
	return err
}

// findFirewall locates the cluster firewall by name. Firewall names are not
// unique, so more than one match is rejected.
func (a *Adapter) findFirewall(ctx context.Context) (string, error) {
	name := naming.Firewall(a.cfg.ClusterName)
	firewalls, err := call(ctx, func() ([]godo.Firewall, error) {
		return paginate(ctx, func(ctx context.Context, opt *godo.ListOptions) ([]godo.Firewall, *godo.Response, error) {
			return a.clients.Firewalls.List(ctx, opt)
		})
	})
	if err != nil {
		return "", err
	}
	var ids []string
	for _, fw := range firewalls {
		if fw.Name == name {
			ids = append(ids, fw.ID)
		}
	}
	switch len(ids) {
	case 0:
		return "", nil
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%d firewalls named %q", len(ids), name)
	}
}

// inboundRules opens the cluster port set to the world, both address
// families, matching the other providers' boundary rules.
func inboundRules() []godo.InboundRule {
	world := &godo.Sources{Addresses: []string{"0.0.0.0/0", "::/0"}}
	rules := make([]godo.InboundRule, 0, len(network.IngressPorts))
	for _, port := range network.IngressPorts {
		rules = append(rules, godo.InboundRule{
			Protocol:  "tcp",
			PortRange: strconv.Itoa(port),
			Sources:   world,
		})
	}
	return rules
}

// outboundAll allows all egress. DigitalOcean firewalls default-deny both
// directions, so the outbound side has to be opened explicitly. Port "0"
// is the API's spelling for every port.
func outboundAll() []godo.OutboundRule {
	world := &godo.Destinations{Addresses: []string{"0.0.0.0/0", "::/0"}}
	return []godo.OutboundRule{
		{Protocol: "tcp", PortRange: "0", Destinations: world},
		{Protocol: "udp", PortRange: "0", Destinations: world},
		{Protocol: "icmp", Destinations: world},
	}
}

// ensureClusterTag creates the cluster tag when it does not exist yet; a
// firewall cannot target a tag that is missing.
func (a *Adapter) ensureClusterTag(ctx context.Context) (string, error) {
	name := tags.ClusterString(a.cfg.ClusterName)
	_, err := call(ctx, func() (*godo.Tag, error) {
		t, _, err := a.clients.Tags.Get(ctx, name)
		return t, err
	})
	if err == nil {
		return name, nil
	}
	if !isNotFound(err) {
		return "", fmt.Errorf("look up tag %q: %w", name, err)
	}
	_, err = call(ctx, func() (*godo.Tag, error) {
		t, _, err := a.clients.Tags.Create(ctx, &godo.TagCreateRequest{Name: name})
		return t, err
	})
	if err != nil {
		return "", fmt.Errorf("create tag %q: %w", name, err)
	}
	return name, nil
}

// createFirewall creates the cluster firewall targeting the cluster tag.
func (a *Adapter) createFirewall(ctx context.Context, _ *network.View) (string, error) {
	tag, err := a.ensureClusterTag(ctx)
	if err != nil {
		return "", err
	}
	created, err := call(ctx, func() (*godo.Firewall, error) {
		fw, _, err := a.clients.Firewalls.Create(ctx, &godo.FirewallRequest{
			Name:          naming.Firewall(a.cfg.ClusterName),
			InboundRules:  inboundRules(),
			OutboundRules: outboundAll(),
			Tags:          []string{tag},
		})
		return fw, err
	})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// deleteFirewall removes the firewall and the cluster tag that existed to
// serve it.
func (a *Adapter) deleteFirewall(ctx context.Context, id string) error {
	_, err := call(ctx, func() (*godo.Response, error) {
		return a.clients.Firewalls.Delete(ctx, id)
	})
	if err != nil && !isNotFound(err) {
		return err
	}
	tag := tags.ClusterString(a.cfg.ClusterName)
	_, err = call(ctx, func() (*godo.Response, error) {
		return a.clients.Tags.Delete(ctx, tag)
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete tag %q: %w", tag, err)
	}
	return nil
}
