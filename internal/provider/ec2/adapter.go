package ec2

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/sirupsen/logrus"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/logging"
	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/provider"
)

// Adapter drives AWS EC2 for one cluster.
type Adapter struct {
	cfg         *config.Effective
	clients     *Clients
	waitTimeout time.Duration
}

var _ provider.Provider = (*Adapter)(nil)
var _ provider.AccountReporter = (*Adapter)(nil)

func (a *Adapter) Name() string {
	return string(config.ProviderEC2)
}

func (a *Adapter) log() *logrus.Entry {
	return logging.L().WithFields(logrus.Fields{
		"provider": a.Name(),
		"cluster":  a.cfg.ClusterName,
	})
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
	if err := a.ensureKeyPair(ctx); err != nil {
		return nil, err
	}
	image, err := a.resolveImage(ctx)
	if err != nil {
		return nil, err
	}

	a.log().WithFields(logrus.Fields{"name": name, "image": image, "type": a.cfg.Size}).Info("Launching instance")
	inst, err := a.runInstance(ctx, name, image, netView)
	if err != nil {
		return nil, err
	}
	created := a.view(inst)
	created.Name = name

	if err := a.waitRunning(ctx, created.ID); err != nil {
		return &created, err
	}
	final, err := a.describeByID(ctx, created.ID)
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
	views := a.views(instances)
	a.fillChecks(ctx, views)
	return &provider.ClusterStatus{
		Provider:  a.Name(),
		Cluster:   a.cfg.ClusterName,
		Network:   netView,
		Instances: views,
	}, nil
}

func (a *Adapter) Reboot(ctx context.Context, name string) (*provider.InstanceView, error) {
	inst, err := a.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	id := aws.ToString(inst.InstanceId)
	_, err = call(ctx, func() (*awsec2.RebootInstancesOutput, error) {
		return a.clients.Instances.RebootInstances(ctx, &awsec2.RebootInstancesInput{InstanceIds: []string{id}})
	})
	if err != nil {
		return nil, err
	}
	a.log().WithField("name", name).Info("Reboot requested")

	final, err := a.describeByID(ctx, id)
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
	id := aws.ToString(inst.InstanceId)
	_, err = call(ctx, func() (*awsec2.TerminateInstancesOutput, error) {
		return a.clients.Instances.TerminateInstances(ctx, &awsec2.TerminateInstancesInput{InstanceIds: []string{id}})
	})
	if err != nil {
		return nil, err
	}
	if err := a.waitTerminated(ctx, id); err != nil {
		view := a.view(inst)
		return &view, err
	}
	a.log().WithField("name", name).Info("Instance terminated")

	view := provider.InstanceView{ID: id, Name: name, Cluster: a.cfg.ClusterName, State: provider.RunStateTerminated, Checks: provider.ChecksUnknown}
	if final, err := a.describeByID(ctx, id); err == nil && final != nil {
		view = a.view(final)
	}
	return &view, nil
}

func (a *Adapter) TeardownNetwork(ctx context.Context) (*network.Teardown, error) {
	return a.template().EnsureAbsent(ctx)
}

func (a *Adapter) Regions(ctx context.Context) ([]provider.Region, error) {
	out, err := call(ctx, func() (*awsec2.DescribeRegionsOutput, error) {
		return a.clients.Placement.DescribeRegions(ctx, &awsec2.DescribeRegionsInput{})
	})
	if err != nil {
		return nil, err
	}
	regions := make([]provider.Region, 0, len(out.Regions))
	for _, r := range out.Regions {
		regions = append(regions, provider.Region{
			Name:        aws.ToString(r.RegionName),
			Description: aws.ToString(r.Endpoint),
		})
	}
	return regions, nil
}

func (a *Adapter) Zones(ctx context.Context, region string) ([]provider.Zone, error) {
	if region == "" {
		region = a.cfg.Region
	}
	out, err := call(ctx, func() (*awsec2.DescribeAvailabilityZonesOutput, error) {
		return a.clients.Placement.DescribeAvailabilityZones(ctx, &awsec2.DescribeAvailabilityZonesInput{
			Filters: []types.Filter{{Name: aws.String("region-name"), Values: []string{region}}},
		})
	})
	if err != nil {
		return nil, err
	}
	zones := make([]provider.Zone, 0, len(out.AvailabilityZones))
	for _, z := range out.AvailabilityZones {
		zones = append(zones, provider.Zone{
			Name:   aws.ToString(z.ZoneName),
			Region: aws.ToString(z.RegionName),
			Status: string(z.State),
		})
	}
	return zones, nil
}

// Identity reports the caller identity behind the configured credentials.
func (a *Adapter) Identity(ctx context.Context) (string, error) {
	out, err := call(ctx, func() (*sts.GetCallerIdentityOutput, error) {
		return a.clients.Identity.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (account %s)", aws.ToString(out.Arn), aws.ToString(out.Account)), nil
}
