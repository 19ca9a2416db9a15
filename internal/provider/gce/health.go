package gce

import (
	"context"
	"path"
	"slices"
	"strconv"
	"strings"

	"google.golang.org/api/compute/v1"

	"github.com/vmcli/vmcli/internal/probe"
	"github.com/vmcli/vmcli/internal/provider"
)

// Health probes one instance: run state from the API and SSH reachability
// from the ingress rules on its network. GCE surfaces no instance status
// checks, and keys staged through metadata offer no non-mutating probe, so
// those signals stay unknown and unsupported.
func (a *Adapter) Health(ctx context.Context, name, _ string) (*provider.HealthReport, error) {
	inst, err := a.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	view := a.view(inst)
	ingress := a.classifyIngress(ctx, inst)
	return probe.Report(&view, ingress, provider.KeyProbeUnsupported, "keys are staged through instance metadata"), nil
}

// classifyIngress grades the SSH path from the ingress rules attached to
// the instance's network. A network with no ingress rules denies
// everything, which the classifier's empty-rule verdict already says.
func (a *Adapter) classifyIngress(ctx context.Context, inst *compute.Instance) provider.IngressScope {
	if len(inst.NetworkInterfaces) == 0 {
		return provider.IngressUnknown
	}
	networkName := path.Base(inst.NetworkInterfaces[0].Network)

	var rules []probe.Rule
	token := ""
	for {
		page, err := call(ctx, func() (*compute.FirewallList, error) {
			return a.clients.Firewalls.List(ctx, token)
		})
		if err != nil {
			return provider.IngressUnknown
		}
		for _, fw := range page.Items {
			if path.Base(fw.Network) != networkName || fw.Disabled {
				continue
			}
			if fw.Direction != "" && fw.Direction != "INGRESS" {
				continue
			}
			if !appliesTo(fw, inst) {
				continue
			}
			for _, allowed := range fw.Allowed {
				rules = append(rules, normalizeAllowed(fw, allowed)...)
			}
		}
		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}
	return probe.ClassifySSHIngress(rules)
}

// appliesTo reports whether a firewall covers the instance. Untargeted
// firewalls cover the whole network; tag-targeted ones require a matching
// network tag, and service-account targeting never matches instances this
// tool creates.
func appliesTo(fw *compute.Firewall, inst *compute.Instance) bool {
	if len(fw.TargetTags) == 0 && len(fw.TargetServiceAccounts) == 0 {
		return true
	}
	if inst.Tags == nil {
		return false
	}
	for _, want := range fw.TargetTags {
		if slices.Contains(inst.Tags.Items, want) {
			return true
		}
	}
	return false
}

// normalizeAllowed flattens one allowed block into probe rules, one per
// port entry. An empty port list means the whole range for that protocol.
func normalizeAllowed(fw *compute.Firewall, allowed *compute.FirewallAllowed) []probe.Rule {
	sources := append([]string{}, fw.SourceRanges...)
	for _, t := range fw.SourceTags {
		// Tag sources grant access to peers, not address ranges.
		sources = append(sources, "tag:"+t)
	}
	proto := strings.ToLower(allowed.IPProtocol)
	if len(allowed.Ports) == 0 {
		return []probe.Rule{{Protocol: proto, FromPort: 0, ToPort: 65535, Sources: sources}}
	}
	rules := make([]probe.Rule, 0, len(allowed.Ports))
	for _, p := range allowed.Ports {
		from, to, ranged := strings.Cut(p, "-")
		r := probe.Rule{Protocol: proto, Sources: sources}
		r.FromPort, _ = strconv.Atoi(from)
		r.ToPort = r.FromPort
		if ranged {
			r.ToPort, _ = strconv.Atoi(to)
		}
		rules = append(rules, r)
	}
	return rules
}
