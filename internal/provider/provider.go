package provider

import (
	"context"
	"fmt"

	"github.com/vmcli/vmcli/internal/network"
)

// Provider is the capability contract one cloud adapter fulfils for one
// resolved cluster. An adapter is bound to its provider, account, region and
// cluster at construction; every method rediscovers resources from live tag
// queries, never from stored IDs.
type Provider interface {
	// Name returns the CLI group name of the adapter (ec2, gce, ...).
	Name() string

	// Up converges the cluster network, ensures the key material, and
	// creates the named instance. A non-terminated instance already
	// holding the tag pair is ErrNameCollision. The created instance is
	// returned even when a later step fails.
	Up(ctx context.Context, name string) (*InstanceView, error)

	// Status reads everything tagged for the cluster. It creates
	// nothing; an empty cluster is a valid result, not an error.
	Status(ctx context.Context) (*ClusterStatus, error)

	// Health probes the named instance and derives a diagnosis. The
	// report is returned whenever the probes could run, whatever they
	// found.
	Health(ctx context.Context, name, osUser string) (*HealthReport, error)

	// Reboot restarts the named instance and returns its view.
	Reboot(ctx context.Context, name string) (*InstanceView, error)

	// Destroy terminates the named instance, waits until the provider
	// reports it gone, and returns the final view. Network and key
	// material are left alone.
	Destroy(ctx context.Context, name string) (*InstanceView, error)

	// TeardownNetwork removes the cluster's network stack in reverse
	// build order, continuing past failures. The report records what
	// happened to each layer.
	TeardownNetwork(ctx context.Context) (*network.Teardown, error)

	// RemoveKeyMaterial deletes the cluster's imported key resource.
	// Providers without one treat this as a no-op.
	RemoveKeyMaterial(ctx context.Context) error

	// Regions lists the provider's regions.
	Regions(ctx context.Context) ([]Region, error)

	// Zones lists the availability zones of a region. An empty region
	// means the adapter's configured one.
	Zones(ctx context.Context, region string) ([]Zone, error)
}

// AccountReporter is implemented by adapters whose provider offers a cheap
// caller-identity call. Handlers log the identity before mutating anything.
type AccountReporter interface {
	Identity(ctx context.Context) (string, error)
}

// One resolves a tag-pair query to exactly one instance: zero matches is
// ErrInstanceNotFound, more than one is ErrAmbiguousTarget. Both name the
// tag pair so the operator can see what was searched for. Generic so
// adapters can resolve their SDK's instance type before converting.
func One[T any](matches []T, cluster, name string) (*T, error) {
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no instance tagged Cluster=%s, Name=%s: %w", cluster, name, ErrInstanceNotFound)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%d instances tagged Cluster=%s, Name=%s: %w", len(matches), cluster, name, ErrAmbiguousTarget)
	}
}
