package tags

import (
	"fmt"
	"regexp"
)

// Canonical tag keys (EC2/Lightsail dialect).
const (
	// KeyName holds the logical instance name within its cluster.
	KeyName = "Name"

	// KeyCluster identifies which cluster a resource belongs to.
	KeyCluster = "Cluster"

	// KeyManagedBy marks resources created by this tool.
	KeyManagedBy = "ManagedBy"
)

// Lowercase label keys for providers whose resources carry label maps
// (managed-compute, Hetzner) instead of free-form tags.
const (
	LabelCluster   = "vmcli-cluster"
	LabelName      = "vmcli-name"
	LabelManagedBy = "vmcli-managed-by"
)

// ManagedBy is the value recorded under KeyManagedBy/LabelManagedBy.
const ManagedBy = "vmcli"

// Builder assembles the identity tag set for one resource.
type Builder struct {
	tags map[string]string
}

// ForCluster starts a builder carrying the cluster identity and the
// managed-by marker.
func ForCluster(cluster string) *Builder {
	return &Builder{
		tags: map[string]string{
			KeyCluster:   cluster,
			KeyManagedBy: ManagedBy,
		},
	}
}

// ForInstance starts a builder carrying the full Name+Cluster pair.
func ForInstance(cluster, name string) *Builder {
	return ForCluster(cluster).WithName(name)
}

// WithName sets the logical resource name. Network resources use their
// deterministic "<cluster>-<type>" name here.
func (b *Builder) WithName(name string) *Builder {
	b.tags[KeyName] = name
	return b
}

// Build returns a copy of the canonical tag map.
func (b *Builder) Build() map[string]string {
	out := make(map[string]string, len(b.tags))
	for k, v := range b.tags {
		out[k] = v
	}
	return out
}

// Labels returns the same identity as a lowercase label map.
func (b *Builder) Labels() map[string]string {
	out := make(map[string]string, len(b.tags))
	for k, v := range b.tags {
		switch k {
		case KeyName:
			out[LabelName] = v
		case KeyCluster:
			out[LabelCluster] = v
		case KeyManagedBy:
			out[LabelManagedBy] = v
		}
	}
	return out
}

// Strings returns the identity as flat string tags for providers without
// key/value tagging (droplet-VPS): "vmcli-cluster:<cluster>" and friends.
func (b *Builder) Strings() []string {
	out := make([]string, 0, len(b.tags))
	// Deterministic order keeps request bodies and tests stable.
	if v, ok := b.tags[KeyCluster]; ok {
		out = append(out, ClusterString(v))
	}
	if v, ok := b.tags[KeyName]; ok {
		out = append(out, NameString(v))
	}
	return out
}

// ClusterString is the flat string-tag form of the cluster identity.
func ClusterString(cluster string) string {
	return fmt.Sprintf("%s:%s", LabelCluster, cluster)
}

// NameString is the flat string-tag form of the instance name.
func NameString(name string) string {
	return fmt.Sprintf("%s:%s", LabelName, name)
}

// ClusterSelector returns a label selector matching every labeled resource of
// a cluster.
func ClusterSelector(cluster string) string {
	return LabelCluster + "=" + cluster
}

// InstanceSelector returns a label selector matching exactly one logical
// instance.
func InstanceSelector(cluster, name string) string {
	return ClusterSelector(cluster) + "," + LabelName + "=" + name
}

// validName is the least common denominator across all five providers:
// resource names and label values everywhere, DNS-label rules, max 32 runes.
var validName = regexp.MustCompile(`^[a-z]([a-z0-9-]{0,30}[a-z0-9])?$`)

// ValidateName checks a cluster or instance name against the cross-provider
// naming rules. Names become tag values and resource-name components, so the
// strictest provider wins.
func ValidateName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name must not be empty", kind)
	}
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid %s name %q: must start with a lowercase letter, contain only lowercase letters, digits and hyphens, not end with a hyphen, and be at most 32 characters", kind, name)
	}
	return nil
}
