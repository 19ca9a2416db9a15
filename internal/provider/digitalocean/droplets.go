package digitalocean

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/digitalocean/godo"

	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/tags"
	"github.com/vmcli/vmcli/internal/util/naming"
)

// Statuses the API reports for a droplet.
const (
	statusNew     = "new"
	statusActive  = "active"
	statusOff     = "off"
	statusArchive = "archive"
)

func runState(status string) provider.RunState {
	switch status {
	case statusNew:
		return provider.RunStatePending
	case statusActive:
		return provider.RunStateRunning
	case statusOff:
		return provider.RunStateStopped
	case statusArchive:
		return provider.RunStateTerminated
	default:
		return provider.RunStateUnknown
	}
}

// lookup lists the cluster's droplets by the cluster tag, narrowed to one
// logical name when name is non-empty. The name tag is matched client-side;
// the API filters on a single tag only. Archived droplets no longer hold
// their name.
func (a *Adapter) lookup(ctx context.Context, name string) ([]godo.Droplet, error) {
	droplets, err := call(ctx, func() ([]godo.Droplet, error) {
		return paginate(ctx, func(ctx context.Context, opt *godo.ListOptions) ([]godo.Droplet, *godo.Response, error) {
			return a.clients.Droplets.ListByTag(ctx, tags.ClusterString(a.cfg.ClusterName), opt)
		})
	})
	if err != nil {
		return nil, err
	}
	want := ""
	if name != "" {
		want = tags.NameString(name)
	}
	var out []godo.Droplet
	for _, d := range droplets {
		if d.Status == statusArchive {
			continue
		}
		if want != "" && !slices.Contains(d.Tags, want) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// resolve narrows a logical name to exactly one droplet.
func (a *Adapter) resolve(ctx context.Context, name string) (*godo.Droplet, error) {
	found, err := a.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return provider.One(found, a.cfg.ClusterName, name)
}

// getByID re-reads one droplet. A droplet that is already gone yields nil.
func (a *Adapter) getByID(ctx context.Context, id int) (*godo.Droplet, error) {
	droplet, err := call(ctx, func() (*godo.Droplet, error) {
		d, _, err := a.clients.Droplets.Get(ctx, id)
		return d, err
	})
	if isNotFound(err) {
		return nil, nil
	}
	return droplet, err
}

// view converts a droplet into the provider-neutral shape. The logical name
// lives in the tag pair; the droplet name is the prefixed form.
func (a *Adapter) view(d *godo.Droplet) provider.InstanceView {
	v := provider.InstanceView{
		ID:      strconv.Itoa(d.ID),
		Name:    nameFromTags(d.Tags),
		Cluster: a.cfg.ClusterName,
		State:   runState(d.Status),
		Checks:  provider.ChecksUnknown,
		Size:    d.SizeSlug,
		KeyName: a.cfg.KeyPairName,
	}
	if v.Name == "" {
		v.Name = d.Name
	}
	if ip, err := d.PublicIPv4(); err == nil {
		v.PublicIP = ip
	}
	if ip, err := d.PrivateIPv4(); err == nil {
		v.PrivateIP = ip
	}
	if d.Region != nil {
		v.Zone = d.Region.Slug
	}
	if created, err := time.Parse(time.RFC3339, d.Created); err == nil {
		v.CreatedAt = created
	}
	return v
}

func (a *Adapter) views(droplets []godo.Droplet) []provider.InstanceView {
	out := make([]provider.InstanceView, 0, len(droplets))
	for i := range droplets {
		out = append(out, a.view(&droplets[i]))
	}
	return out
}

// nameFromTags recovers the logical name from the droplet's string tags.
func nameFromTags(dropletTags []string) string {
	prefix := tags.LabelName + ":"
	for _, t := range dropletTags {
		if rest, ok := strings.CutPrefix(t, prefix); ok {
			return rest
		}
	}
	return ""
}

// createDroplet provisions the droplet inside the cluster VPC. The firewall
// needs no mention here; it targets the cluster tag.
func (a *Adapter) createDroplet(ctx context.Context, name string, netView network.View, key *godo.Key) (*godo.Droplet, error) {
	return call(ctx, func() (*godo.Droplet, error) {
		d, _, err := a.clients.Droplets.Create(ctx, &godo.DropletCreateRequest{
			Name:    naming.Instance(a.cfg.ClusterName, name),
			Region:  a.cfg.Region,
			Size:    a.cfg.Size,
			Image:   godo.DropletCreateImage{Slug: a.cfg.Image},
			SSHKeys: []godo.DropletCreateSSHKey{{ID: key.ID}},
			VPCUUID: netView.NetworkID,
			Tags:    tags.ForInstance(a.cfg.ClusterName, name).Strings(),
		})
		return d, err
	})
}
