package probe

import (
	"github.com/vmcli/vmcli/internal/provider"
)

const sshPort = 22

// Rule is one normalized ingress rule. Protocol is lowercase ("tcp", "udp",
// "icmp") or "all" for all-traffic rules, which cover every port regardless
// of the range fields. Sources holds CIDR blocks, or provider-specific
// source markers (security group IDs, droplet tags, label selectors) for
// rules that grant access to peers rather than address ranges.
type Rule struct {
	Protocol string
	FromPort int
	ToPort   int
	Sources  []string
}

func (r Rule) permitsSSH() bool {
	switch r.Protocol {
	case "all":
		return true
	case "tcp":
		return r.FromPort <= sshPort && sshPort <= r.ToPort
	}
	return false
}

func worldSource(src string) bool {
	return src == "0.0.0.0/0" || src == "::/0"
}

// ClassifySSHIngress grades how wide the rules open TCP/22. A permitting
// rule from the whole world is open-world; permitting rules from narrower
// sources only is restricted; no permitting rule at all is closed. Callers
// that could not read the rules report IngressUnknown themselves and never
// get here.
func ClassifySSHIngress(rules []Rule) provider.IngressScope {
	var world, narrower bool
	for _, r := range rules {
		if !r.permitsSSH() {
			continue
		}
		for _, src := range r.Sources {
			if worldSource(src) {
				world = true
			} else if src != "" {
				narrower = true
			}
		}
	}
	switch {
	case world:
		return provider.IngressOpenWorld
	case narrower:
		return provider.IngressRestricted
	default:
		return provider.IngressClosed
	}
}
