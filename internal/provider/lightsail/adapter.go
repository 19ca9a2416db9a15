package lightsail

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lightsail"
	"github.com/sirupsen/logrus"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/logging"
	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/util/naming"
)

// Adapter drives AWS Lightsail for one cluster.
type Adapter struct {
	cfg          *config.Effective
	clients      *Clients
	waitTimeout  time.Duration
	pollInterval time.Duration
}

var _ provider.Provider = (*Adapter)(nil)

func (a *Adapter) Name() string {
	return string(config.ProviderLightsail)
}

func (a *Adapter) log() *logrus.Entry {
	return logging.L().WithFields(logrus.Fields{
		"provider": a.Name(),
		"cluster":  a.cfg.ClusterName,
	})
}

// az is the placement target: the configured zone, or the region's "a" zone
// when none is set.
func (a *Adapter) az() string {
	if a.cfg.Zone != "" {
		return a.cfg.Zone
	}
	return a.cfg.Region + "a"
}

// template is empty: Lightsail has no standalone network resources. The
// instance's public ports are set right after creation instead, so ensure
// and teardown are trivially complete.
func (a *Adapter) template() *network.Template {
	return &network.Template{Provider: a.Name(), Cluster: a.cfg.ClusterName}
}

func (a *Adapter) Up(ctx context.Context, name string) (*provider.InstanceView, error) {
	existing, err := a.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("instance %q in cluster %q: %w", name, a.cfg.ClusterName, provider.ErrNameCollision)
	}

	if _, err := a.template().Ensure(ctx); err != nil {
		return nil, err
	}
	if err := a.ensureKeyPair(ctx); err != nil {
		return nil, err
	}

	a.log().WithFields(logrus.Fields{"name": name, "blueprint": a.cfg.Image, "bundle": a.cfg.Size}).Info("Creating instance")
	instName := naming.Instance(a.cfg.ClusterName, name)
	if err := a.createInstance(ctx, instName, name); err != nil {
		return nil, err
	}
	inst, err := a.getByName(ctx, instName)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, fmt.Errorf("instance %q not visible after create", instName)
	}
	created := a.view(inst)
	created.Name = name

	// The instance exists from here on; report it even when a later step
	// fails.
	if err := a.openPorts(ctx, instName); err != nil {
		return &created, err
	}
	if err := a.awaitRunning(ctx, instName); err != nil {
		return &created, err
	}
	final, err := a.getByName(ctx, instName)
	if err != nil || final == nil {
		return &created, err
	}
	view := a.view(final)
	return &view, nil
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
	instName := aws.ToString(inst.Name)
	_, err = call(ctx, func() (*lightsail.RebootInstanceOutput, error) {
		return a.clients.Instances.RebootInstance(ctx, &lightsail.RebootInstanceInput{InstanceName: aws.String(instName)})
	})
	if err != nil {
		return nil, err
	}
	a.log().WithField("name", name).Info("Reboot requested")

	final, err := a.getByName(ctx, instName)
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
	instName := aws.ToString(inst.Name)
	_, err = call(ctx, func() (*lightsail.DeleteInstanceOutput, error) {
		return a.clients.Instances.DeleteInstance(ctx, &lightsail.DeleteInstanceInput{InstanceName: aws.String(instName)})
	})
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if err := a.awaitGone(ctx, instName); err != nil {
		view := a.view(inst)
		return &view, err
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
	out, err := call(ctx, func() (*lightsail.GetRegionsOutput, error) {
		return a.clients.Placement.GetRegions(ctx, &lightsail.GetRegionsInput{})
	})
	if err != nil {
		return nil, err
	}
	regions := make([]provider.Region, 0, len(out.Regions))
	for _, r := range out.Regions {
		regions = append(regions, provider.Region{
			Name:        string(r.Name),
			Description: aws.ToString(r.DisplayName),
		})
	}
	return regions, nil
}

func (a *Adapter) Zones(ctx context.Context, region string) ([]provider.Zone, error) {
	if region == "" {
		region = a.cfg.Region
	}
	out, err := call(ctx, func() (*lightsail.GetRegionsOutput, error) {
		return a.clients.Placement.GetRegions(ctx, &lightsail.GetRegionsInput{
			IncludeAvailabilityZones: aws.Bool(true),
		})
	})
	if err != nil {
		return nil, err
	}
	var zones []provider.Zone
	for _, r := range out.Regions {
		if string(r.Name) != region {
			continue
		}
		for _, z := range r.AvailabilityZones {
			zones = append(zones, provider.Zone{
				Name:   aws.ToString(z.ZoneName),
				Region: region,
				Status: aws.ToString(z.State),
			})
		}
	}
	return zones, nil
}

// await polls until done reports true, bounded by the adapter wait timeout.
// The first check runs before any sleep, so settled work costs no delay.
func (a *Adapter) await(ctx context.Context, what string, done func(ctx context.Context) (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, a.waitTimeout)
	defer cancel()
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()
	for {
		ok, err := done(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", what, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (a *Adapter) awaitRunning(ctx context.Context, instName string) error {
	return a.await(ctx, instName+" to run", func(ctx context.Context) (bool, error) {
		inst, err := a.getByName(ctx, instName)
		if err != nil {
			return false, err
		}
		if inst == nil || inst.State == nil {
			return false, nil
		}
		return aws.ToString(inst.State.Name) == stateRunning, nil
	})
}

func (a *Adapter) awaitGone(ctx context.Context, instName string) error {
	return a.await(ctx, instName+" to be deleted", func(ctx context.Context) (bool, error) {
		inst, err := a.getByName(ctx, instName)
		if err != nil {
			return false, err
		}
		return inst == nil, nil
	})
}
