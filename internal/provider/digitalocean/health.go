package digitalocean

import (
	"context"
	"strconv"
	"strings"

	"github.com/digitalocean/godo"

	"github.com/vmcli/vmcli/internal/probe"
	"github.com/vmcli/vmcli/internal/provider"
)

// Health probes one droplet: run state from the API and SSH reachability
// from the firewalls applied to it. DigitalOcean runs no status checks and
// offers no non-mutating key staging call, so those signals stay unknown
// and unsupported.
func (a *Adapter) Health(ctx context.Context, name, _ string) (*provider.HealthReport, error) {
	droplet, err := a.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	view := a.view(droplet)
	ingress := a.classifyIngress(ctx, droplet.ID)
	return probe.Report(&view, ingress, provider.KeyProbeUnsupported, "no key staging endpoint"), nil
}

// classifyIngress grades the SSH path from the firewalls applied to the
// droplet. A droplet without any firewall is unfiltered, which on
// DigitalOcean means every port is open to the world.
func (a *Adapter) classifyIngress(ctx context.Context, dropletID int) provider.IngressScope {
	firewalls, err := call(ctx, func() ([]godo.Firewall, error) {
		return paginate(ctx, func(ctx context.Context, opt *godo.ListOptions) ([]godo.Firewall, *godo.Response, error) {
			return a.clients.Firewalls.ListByDroplet(ctx, dropletID, opt)
		})
	})
	if err != nil {
		return provider.IngressUnknown
	}
	if len(firewalls) == 0 {
		return provider.IngressOpenWorld
	}
	var rules []probe.Rule
	for _, fw := range firewalls {
		for _, rule := range fw.InboundRules {
			rules = append(rules, normalizeRule(rule))
		}
	}
	return probe.ClassifySSHIngress(rules)
}

func normalizeRule(rule godo.InboundRule) probe.Rule {
	r := probe.Rule{Protocol: rule.Protocol}
	switch rule.PortRange {
	case "", "0", "all":
		r.FromPort, r.ToPort = 0, 65535
	default:
		from, to, ranged := strings.Cut(rule.PortRange, "-")
		r.FromPort, _ = strconv.Atoi(from)
		r.ToPort = r.FromPort
		if ranged {
			r.ToPort, _ = strconv.Atoi(to)
		}
	}
	if rule.Sources != nil {
		r.Sources = append(r.Sources, rule.Sources.Addresses...)
		// Tag sources grant access to peers, not address ranges.
		for _, t := range rule.Sources.Tags {
			r.Sources = append(r.Sources, "tag:"+t)
		}
	}
	return r
}
