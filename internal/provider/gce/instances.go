package gce

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"time"

	"google.golang.org/api/compute/v1"

	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/sshkey"
	"github.com/vmcli/vmcli/internal/tags"
	"github.com/vmcli/vmcli/internal/util/naming"
)

func runState(status string) provider.RunState {
	switch status {
	case "PROVISIONING", "STAGING":
		return provider.RunStatePending
	case "RUNNING":
		return provider.RunStateRunning
	case "STOPPING", "SUSPENDING":
		return provider.RunStateStopping
	// TERMINATED is the API's word for a stopped instance; deleted
	// instances vanish instead.
	case "TERMINATED", "SUSPENDED":
		return provider.RunStateStopped
	default:
		return provider.RunStateUnknown
	}
}

// lookup lists the cluster's instances in the configured zone by their label
// pair, narrowed to one logical name when name is non-empty.
func (a *Adapter) lookup(ctx context.Context, name string) ([]*compute.Instance, error) {
	filter := fmt.Sprintf("labels.%s=%q", tags.LabelCluster, a.cfg.ClusterName)
	if name != "" {
		filter += fmt.Sprintf(" AND labels.%s=%q", tags.LabelName, name)
	}
	var found []*compute.Instance
	token := ""
	for {
		page, err := call(ctx, func() (*compute.InstanceList, error) {
			return a.clients.Instances.List(ctx, a.cfg.Zone, filter, token)
		})
		if err != nil {
			return nil, err
		}
		found = append(found, page.Items...)
		if page.NextPageToken == "" {
			return found, nil
		}
		token = page.NextPageToken
	}
}

// resolve narrows a logical name to exactly one instance.
func (a *Adapter) resolve(ctx context.Context, name string) (*compute.Instance, error) {
	found, err := a.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	match, err := provider.One(found, a.cfg.ClusterName, name)
	if err != nil {
		return nil, err
	}
	return *match, nil
}

// getByName re-reads one instance by its prefixed resource name. An
// instance that is already gone yields nil.
func (a *Adapter) getByName(ctx context.Context, name string) (*compute.Instance, error) {
	inst, err := call(ctx, func() (*compute.Instance, error) {
		return a.clients.Instances.Get(ctx, a.cfg.Zone, name)
	})
	if isNotFound(err) {
		return nil, nil
	}
	return inst, err
}

// view converts an instance into the provider-neutral shape. The API hands
// back machine type and zone as URLs; only their last segments matter here.
func (a *Adapter) view(inst *compute.Instance) provider.InstanceView {
	v := provider.InstanceView{
		ID:      strconv.FormatUint(inst.Id, 10),
		Name:    inst.Labels[tags.LabelName],
		Cluster: a.cfg.ClusterName,
		State:   runState(inst.Status),
		Checks:  provider.ChecksUnknown,
		Size:    path.Base(inst.MachineType),
		Zone:    path.Base(inst.Zone),
	}
	if v.Name == "" {
		v.Name = inst.Name
	}
	if len(inst.NetworkInterfaces) > 0 {
		ni := inst.NetworkInterfaces[0]
		v.PrivateIP = ni.NetworkIP
		if len(ni.AccessConfigs) > 0 {
			v.PublicIP = ni.AccessConfigs[0].NatIP
		}
	}
	if created, err := time.Parse(time.RFC3339, inst.CreationTimestamp); err == nil {
		v.CreatedAt = created
	}
	return v
}

func (a *Adapter) views(instances []*compute.Instance) []provider.InstanceView {
	out := make([]provider.InstanceView, 0, len(instances))
	for _, inst := range instances {
		out = append(out, a.view(inst))
	}
	return out
}

// insertInstance submits the create call. The boot image is resolved from
// its family first so the instance pins a concrete image, not a moving
// alias. Network and subnetwork are referenced by partial URL.
func (a *Adapter) insertInstance(ctx context.Context, name string, netView network.View, key *sshkey.PublicKey) (*compute.Operation, error) {
	image, err := call(ctx, func() (*compute.Image, error) {
		return a.clients.Images.GetFromFamily(ctx, a.cfg.ImageProject, a.cfg.Image)
	})
	if err != nil {
		return nil, fmt.Errorf("resolving image family %s/%s: %w", a.cfg.ImageProject, a.cfg.Image, err)
	}

	sshEntry := a.cfg.OSUser + ":" + key.Material
	inst := &compute.Instance{
		Name:        naming.Instance(a.cfg.ClusterName, name),
		MachineType: fmt.Sprintf("zones/%s/machineTypes/%s", a.cfg.Zone, a.cfg.Size),
		Labels:      tags.ForInstance(a.cfg.ClusterName, name).Labels(),
		Disks: []*compute.AttachedDisk{{
			Boot:       true,
			AutoDelete: true,
			InitializeParams: &compute.AttachedDiskInitializeParams{
				SourceImage: image.SelfLink,
			},
		}},
		NetworkInterfaces: []*compute.NetworkInterface{{
			Network:    "global/networks/" + netView.NetworkID,
			Subnetwork: fmt.Sprintf("regions/%s/subnetworks/%s", a.region(), netView.SubnetID),
			AccessConfigs: []*compute.AccessConfig{{
				Type: "ONE_TO_ONE_NAT",
				Name: "External NAT",
			}},
		}},
		Metadata: &compute.Metadata{
			Items: []*compute.MetadataItems{{
				Key:   "ssh-keys",
				Value: &sshEntry,
			}},
		},
	}
	return call(ctx, func() (*compute.Operation, error) {
		return a.clients.Instances.Insert(ctx, a.cfg.Zone, inst)
	})
}
