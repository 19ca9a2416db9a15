package hetzner

import (
	"context"
	"strconv"
	"strings"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/vmcli/vmcli/internal/probe"
	"github.com/vmcli/vmcli/internal/provider"
)

// Health probes one server: run state from the API and SSH reachability from
// the firewalls applied to its public interface. Hetzner runs no status
// checks and offers no non-mutating key staging call, so those signals stay
// unknown and unsupported.
func (a *Adapter) Health(ctx context.Context, name, _ string) (*provider.HealthReport, error) {
	srv, err := a.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	view := a.view(srv)
	ingress := a.classifyIngress(ctx, srv)
	return probe.Report(&view, ingress, provider.KeyProbeUnsupported, "no key staging endpoint"), nil
}

// classifyIngress grades the SSH path from the firewalls applied to the
// server. A server without any firewall is unfiltered, which on Hetzner
// means every port is open to the world.
func (a *Adapter) classifyIngress(ctx context.Context, srv *hcloud.Server) provider.IngressScope {
	if len(srv.PublicNet.Firewalls) == 0 {
		return provider.IngressOpenWorld
	}
	var rules []probe.Rule
	for _, applied := range srv.PublicNet.Firewalls {
		id := applied.Firewall.ID
		fw, err := call(ctx, func() (*hcloud.Firewall, error) {
			f, _, err := a.clients.Firewalls.GetByID(ctx, id)
			return f, err
		})
		if err != nil || fw == nil {
			return provider.IngressUnknown
		}
		for _, rule := range fw.Rules {
			if rule.Direction != hcloud.FirewallRuleDirectionIn {
				continue
			}
			rules = append(rules, normalizeRule(rule))
		}
	}
	return probe.ClassifySSHIngress(rules)
}

func normalizeRule(rule hcloud.FirewallRule) probe.Rule {
	r := probe.Rule{Protocol: string(rule.Protocol)}
	if rule.Port == nil {
		// Portless protocols (ICMP, ESP, GRE); TCP and UDP always carry one.
		r.FromPort, r.ToPort = 0, 65535
	} else {
		from, to, ranged := strings.Cut(*rule.Port, "-")
		r.FromPort, _ = strconv.Atoi(from)
		r.ToPort = r.FromPort
		if ranged {
			r.ToPort, _ = strconv.Atoi(to)
		}
	}
	for _, src := range rule.SourceIPs {
		r.Sources = append(r.Sources, src.String())
	}
	return r
}
