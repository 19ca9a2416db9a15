package probe

import (
	"github.com/vmcli/vmcli/internal/provider"
)

// Signals are the four independent inputs a health report is graded on.
type Signals struct {
	RunState     provider.RunState
	Checks       provider.ChecksStatus
	Reachability provider.Reachability
	KeyProbe     provider.KeyProbeResult
}

var severity = map[provider.Diagnosis]int{
	provider.DiagnosisHealthy:     0,
	provider.DiagnosisDegraded:    1,
	provider.DiagnosisUnreachable: 2,
}

func worse(a, b provider.Diagnosis) provider.Diagnosis {
	if severity[b] > severity[a] {
		return b
	}
	return a
}

// Summarize grades the signals worst-of. An instance that is not running is
// unreachable outright and the remaining signals are moot. For a running
// instance: failed status checks degrade, a closed network path makes it
// unreachable, an unknown path degrades, and anything short of a confirmed
// key probe degrades. Unknown status checks stay neutral, since most
// providers simply have no such concept.
func Summarize(s Signals) provider.Diagnosis {
	if s.RunState != provider.RunStateRunning {
		return provider.DiagnosisUnreachable
	}
	d := provider.DiagnosisHealthy
	if s.Checks == provider.ChecksFailed {
		d = worse(d, provider.DiagnosisDegraded)
	}
	switch s.Reachability {
	case provider.ReachabilityUnreachable:
		d = worse(d, provider.DiagnosisUnreachable)
	case provider.ReachabilityUnknown:
		d = worse(d, provider.DiagnosisDegraded)
	}
	if s.KeyProbe != provider.KeyProbeOk {
		d = worse(d, provider.DiagnosisDegraded)
	}
	return d
}

// ReachabilityFor maps the ingress classification onto the network-path
// verdict: any permitting rule set means SSH can get through, closed means
// it cannot, and without rules to read there is no verdict.
func ReachabilityFor(scope provider.IngressScope) provider.Reachability {
	switch scope {
	case provider.IngressOpenWorld, provider.IngressRestricted:
		return provider.ReachabilityReachable
	case provider.IngressClosed:
		return provider.ReachabilityUnreachable
	default:
		return provider.ReachabilityUnknown
	}
}

// Report assembles the health report for an instance from its view, the
// ingress classification, and the key-probe outcome.
func Report(inst *provider.InstanceView, ingress provider.IngressScope, key provider.KeyProbeResult, note string) *provider.HealthReport {
	reach := ReachabilityFor(ingress)
	return &provider.HealthReport{
		Name:         inst.Name,
		ID:           inst.ID,
		PublicIP:     inst.PublicIP,
		RunState:     inst.State,
		Checks:       inst.Checks,
		Reachability: reach,
		Ingress:      ingress,
		KeyProbe:     key,
		KeyProbeNote: note,
		Diagnosis: Summarize(Signals{
			RunState:     inst.State,
			Checks:       inst.Checks,
			Reachability: reach,
			KeyProbe:     key,
		}),
	}
}
