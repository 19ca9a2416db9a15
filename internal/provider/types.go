package provider

import (
	"time"

	"github.com/vmcli/vmcli/internal/network"
)

// RunState is the normalized lifecycle state of an instance. Adapters map
// their provider's native states onto this set.
type RunState string

const (
	RunStatePending    RunState = "pending"
	RunStateRunning    RunState = "running"
	RunStateStopping   RunState = "stopping"
	RunStateStopped    RunState = "stopped"
	RunStateTerminated RunState = "terminated"
	RunStateUnknown    RunState = "unknown"
)

// Live reports whether the instance still occupies its name. Anything not
// positively terminated counts, so an unknown state blocks reuse.
func (s RunState) Live() bool {
	return s != RunStateTerminated
}

// ChecksStatus is the provider's own health checking of an instance, where
// the provider runs one (EC2 status checks). Providers without the concept
// report ChecksUnknown.
type ChecksStatus string

const (
	ChecksPassed  ChecksStatus = "passed"
	ChecksFailed  ChecksStatus = "failed"
	ChecksUnknown ChecksStatus = "unknown"
)

// InstanceView is the provider-neutral description of one instance.
type InstanceView struct {
	ID        string       `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	Cluster   string       `json:"cluster" yaml:"cluster"`
	State     RunState     `json:"state" yaml:"state"`
	Checks    ChecksStatus `json:"checks" yaml:"checks"`
	PublicIP  string       `json:"public_ip,omitempty" yaml:"public_ip,omitempty"`
	PrivateIP string       `json:"private_ip,omitempty" yaml:"private_ip,omitempty"`
	Size      string       `json:"size,omitempty" yaml:"size,omitempty"`
	Zone      string       `json:"zone,omitempty" yaml:"zone,omitempty"`
	KeyName   string       `json:"key_name,omitempty" yaml:"key_name,omitempty"`
	CreatedAt time.Time    `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Live filters views down to the instances still occupying their names.
func Live(views []InstanceView) []InstanceView {
	var live []InstanceView
	for _, v := range views {
		if v.State.Live() {
			live = append(live, v)
		}
	}
	return live
}

// ClusterStatus is a point-in-time read of everything tagged for a cluster.
type ClusterStatus struct {
	Provider  string         `json:"provider" yaml:"provider"`
	Cluster   string         `json:"cluster" yaml:"cluster"`
	Network   network.View   `json:"network" yaml:"network"`
	Instances []InstanceView `json:"instances" yaml:"instances"`
}

// Reachability is the network-path verdict for SSH to an instance.
type Reachability string

const (
	ReachabilityReachable   Reachability = "reachable"
	ReachabilityUnreachable Reachability = "unreachable"
	ReachabilityUnknown     Reachability = "unknown"
)

// IngressScope classifies how wide the SSH ingress rules are open.
type IngressScope string

const (
	IngressOpenWorld  IngressScope = "open-world"
	IngressRestricted IngressScope = "restricted"
	IngressClosed     IngressScope = "closed"
	IngressUnknown    IngressScope = "unknown"
)

// KeyProbeResult is the outcome of the non-mutating key-injection probe.
type KeyProbeResult string

const (
	KeyProbeOk          KeyProbeResult = "ok"
	KeyProbeDenied      KeyProbeResult = "denied"
	KeyProbeUnsupported KeyProbeResult = "unsupported"
	KeyProbeUnknown     KeyProbeResult = "unknown"
)

// Diagnosis is the overall health verdict for an instance.
type Diagnosis string

const (
	DiagnosisHealthy     Diagnosis = "healthy"
	DiagnosisDegraded    Diagnosis = "degraded"
	DiagnosisUnreachable Diagnosis = "unreachable"
)

// HealthReport carries the four probed signals and the diagnosis derived
// from them. Producing a report is success; a bad diagnosis is a finding,
// not an error.
type HealthReport struct {
	Name         string         `json:"name" yaml:"name"`
	ID           string         `json:"id" yaml:"id"`
	PublicIP     string         `json:"public_ip,omitempty" yaml:"public_ip,omitempty"`
	RunState     RunState       `json:"run_state" yaml:"run_state"`
	Checks       ChecksStatus   `json:"checks" yaml:"checks"`
	Reachability Reachability   `json:"reachability" yaml:"reachability"`
	Ingress      IngressScope   `json:"ingress" yaml:"ingress"`
	KeyProbe     KeyProbeResult `json:"key_probe" yaml:"key_probe"`
	KeyProbeNote string         `json:"key_probe_note,omitempty" yaml:"key_probe_note,omitempty"`
	Diagnosis    Diagnosis      `json:"diagnosis" yaml:"diagnosis"`
}

// Region is a provider region offering.
type Region struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Zone is an availability zone (or provider equivalent) within a region.
type Zone struct {
	Name   string `json:"name" yaml:"name"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
}
