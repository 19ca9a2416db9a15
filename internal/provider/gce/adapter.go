package gce

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/compute/v1"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/logging"
	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/sshkey"
	"github.com/vmcli/vmcli/internal/util/naming"
)

// Adapter drives Google Compute Engine for one cluster.
type Adapter struct {
	cfg         *config.Effective
	clients     *Clients
	waitTimeout time.Duration
}

var _ provider.Provider = (*Adapter)(nil)
var _ provider.AccountReporter = (*Adapter)(nil)

func (a *Adapter) Name() string {
	return string(config.ProviderGCE)
}

func (a *Adapter) log() *logrus.Entry {
	return logging.L().WithFields(logrus.Fields{
		"provider": a.Name(),
		"cluster":  a.cfg.ClusterName,
	})
}

// region is the configured region, derived from the zone when unset
// ("us-central1-a" belongs to "us-central1").
func (a *Adapter) region() string {
	if a.cfg.Region != "" {
		return a.cfg.Region
	}
	return regionFromZone(a.cfg.Zone)
}

func regionFromZone(zone string) string {
	if i := strings.LastIndex(zone, "-"); i > 0 {
		return zone[:i]
	}
	return zone
}

func (a *Adapter) Up(ctx context.Context, name string) (*provider.InstanceView, error) {
	existing, err := a.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("instance %q in cluster %q: %w", name, a.cfg.ClusterName, provider.ErrNameCollision)
	}

	netView, err := a.template().Ensure(ctx)
	if err != nil {
		return nil, err
	}
	key, err := sshkey.Load(a.cfg.SSHPublicKeyPath)
	if err != nil {
		return nil, err
	}

	a.log().WithFields(logrus.Fields{"name": name, "image": a.cfg.Image, "size": a.cfg.Size}).Info("Creating instance")
	op, err := a.insertInstance(ctx, name, netView, key)
	if err != nil {
		return nil, err
	}
	waitErr := a.waitOperation(ctx, op)

	inst, getErr := a.getByName(ctx, naming.Instance(a.cfg.ClusterName, name))
	if inst == nil {
		// Nothing readable to report as a partial view.
		if waitErr != nil {
			return nil, waitErr
		}
		return nil, getErr
	}
	view := a.view(inst)
	view.Name = name
	// The instance exists even when the wait failed; report it.
	return &view, waitErr
}

func (a *Adapter) Status(ctx context.Context) (*provider.ClusterStatus, error) {
	netView, err := a.template().Discover(ctx)
	if err != nil {
		return nil, err
	}
	instances, err := a.lookup(ctx, "")
	if err != nil {
		return nil, err
	}
	return &provider.ClusterStatus{
		Provider:  a.Name(),
		Cluster:   a.cfg.ClusterName,
		Network:   netView,
		Instances: a.views(instances),
	}, nil
}

func (a *Adapter) Reboot(ctx context.Context, name string) (*provider.InstanceView, error) {
	inst, err := a.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	op, err := call(ctx, func() (*compute.Operation, error) {
		return a.clients.Instances.Reset(ctx, a.cfg.Zone, inst.Name)
	})
	if err != nil {
		return nil, err
	}
	if err := a.waitOperation(ctx, op); err != nil {
		view := a.view(inst)
		return &view, err
	}
	a.log().WithField("name", name).Info("Reset requested")

	final, err := a.getByName(ctx, inst.Name)
	if err != nil || final == nil {
		view := a.view(inst)
		return &view, err
	}
	view := a.view(final)
	return &view, nil
}

func (a *Adapter) Destroy(ctx context.Context, name string) (*provider.InstanceView, error) {
	inst, err := a.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	op, err := call(ctx, func() (*compute.Operation, error) {
		return a.clients.Instances.Delete(ctx, a.cfg.Zone, inst.Name)
	})
	switch {
	case isNotFound(err):
		// Already gone.
	case err != nil:
		return nil, err
	default:
		if err := a.waitOperation(ctx, op); err != nil {
			view := a.view(inst)
			return &view, err
		}
	}
	a.log().WithField("name", name).Info("Instance deleted")

	// Deleted instances vanish from the API, so the final view is synthesized.
	view := a.view(inst)
	view.Name = name
	view.State = provider.RunStateTerminated
	return &view, nil
}

func (a *Adapter) TeardownNetwork(ctx context.Context) (*network.Teardown, error) {
	return a.template().EnsureAbsent(ctx)
}

func (a *Adapter) Regions(ctx context.Context) ([]provider.Region, error) {
	var regions []provider.Region
	token := ""
	for {
		page, err := call(ctx, func() (*compute.RegionList, error) {
			return a.clients.Regions.List(ctx, token)
		})
		if err != nil {
			return nil, err
		}
		for _, r := range page.Items {
			regions = append(regions, provider.Region{
				Name:        r.Name,
				Description: strings.ToLower(r.Status),
			})
		}
		if page.NextPageToken == "" {
			return regions, nil
		}
		token = page.NextPageToken
	}
}

func (a *Adapter) Zones(ctx context.Context, region string) ([]provider.Zone, error) {
	if region == "" {
		region = a.region()
	}
	var zones []provider.Zone
	token := ""
	for {
		page, err := call(ctx, func() (*compute.ZoneList, error) {
			return a.clients.Zones.List(ctx, token)
		})
		if err != nil {
			return nil, err
		}
		for _, z := range page.Items {
			if path.Base(z.Region) != region {
				continue
			}
			zones = append(zones, provider.Zone{
				Name:   z.Name,
				Region: region,
				Status: strings.ToLower(z.Status),
			})
		}
		if page.NextPageToken == "" {
			return zones, nil
		}
		token = page.NextPageToken
	}
}

// Identity reports the configured project; the compute API offers no cheap
// caller-identity call to resolve the service account.
func (a *Adapter) Identity(context.Context) (string, error) {
	return "project " + a.cfg.Project, nil
}

const operationDone = "DONE"

// waitOperation blocks until op reaches DONE, then reports the operation's
// own error, if any. The Wait calls park server-side and may return before
// the operation settles, so the loop re-issues them; the adapter wait
// timeout bounds the whole affair.
func (a *Adapter) waitOperation(ctx context.Context, op *compute.Operation) error {
	if op == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, a.waitTimeout)
	defer cancel()
	current := op
	for current.Status != operationDone {
		next, err := call(ctx, func() (*compute.Operation, error) {
			switch {
			case op.Zone != "":
				return a.clients.Operations.WaitZone(ctx, path.Base(op.Zone), op.Name)
			case op.Region != "":
				return a.clients.Operations.WaitRegion(ctx, path.Base(op.Region), op.Name)
			default:
				return a.clients.Operations.WaitGlobal(ctx, op.Name)
			}
		})
		if err != nil {
			return fmt.Errorf("waiting for %s: %w", op.OperationType, err)
		}
		current = next
	}
	return operationError(current)
}

// operationError surfaces the first error recorded on a finished operation.
func operationError(op *compute.Operation) error {
	if op.Error == nil || len(op.Error.Errors) == 0 {
		return nil
	}
	first := op.Error.Errors[0]
	return fmt.Errorf("operation %s failed: %s: %s", op.Name, first.Code, first.Message)
}
