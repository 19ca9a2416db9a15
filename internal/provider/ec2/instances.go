package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/tags"
)

// nonTerminatedStates is the collision window: every state in which an
// instance still holds its name.
var nonTerminatedStates = []string{"pending", "running", "stopping", "stopped", "shutting-down"}

func runState(s types.InstanceStateName) provider.RunState {
	switch s {
	case types.InstanceStateNamePending:
		return provider.RunStatePending
	case types.InstanceStateNameRunning:
		return provider.RunStateRunning
	case types.InstanceStateNameStopping, types.InstanceStateNameShuttingDown:
		return provider.RunStateStopping
	case types.InstanceStateNameStopped:
		return provider.RunStateStopped
	case types.InstanceStateNameTerminated:
		return provider.RunStateTerminated
	default:
		return provider.RunStateUnknown
	}
}

// lookup lists non-terminated instances by the cluster tag, narrowed to one
// logical name when name is non-empty.
func (a *Adapter) lookup(ctx context.Context, name string) ([]types.Instance, error) {
	filters := []types.Filter{
		{Name: aws.String("tag:" + tags.KeyCluster), Values: []string{a.cfg.ClusterName}},
		{Name: aws.String("instance-state-name"), Values: nonTerminatedStates},
	}
	if name != "" {
		filters = append(filters, types.Filter{
			Name: aws.String("tag:" + tags.KeyName), Values: []string{name},
		})
	}

	var found []types.Instance
	pager := awsec2.NewDescribeInstancesPaginator(a.clients.Instances, &awsec2.DescribeInstancesInput{Filters: filters})
	for pager.HasMorePages() {
		out, err := call(ctx, func() (*awsec2.DescribeInstancesOutput, error) {
			return pager.NextPage(ctx)
		})
		if err != nil {
			return nil, err
		}
		for _, res := range out.Reservations {
			found = append(found, res.Instances...)
		}
	}
	return found, nil
}

// resolve narrows a logical name to exactly one live instance.
func (a *Adapter) resolve(ctx context.Context, name string) (*types.Instance, error) {
	found, err := a.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return provider.One(found, a.cfg.ClusterName, name)
}

// describeByID reads one instance regardless of state. A terminated or
// already vanished instance yields nil.
func (a *Adapter) describeByID(ctx context.Context, id string) (*types.Instance, error) {
	out, err := call(ctx, func() (*awsec2.DescribeInstancesOutput, error) {
		return a.clients.Instances.DescribeInstances(ctx, &awsec2.DescribeInstancesInput{InstanceIds: []string{id}})
	})
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for _, res := range out.Reservations {
		for _, inst := range res.Instances {
			return &inst, nil
		}
	}
	return nil, nil
}

// view converts an SDK instance into the provider-neutral shape. Checks is
// left ChecksUnknown; fillChecks adds it where wanted.
func (a *Adapter) view(inst *types.Instance) provider.InstanceView {
	v := provider.InstanceView{
		ID:        aws.ToString(inst.InstanceId),
		Cluster:   a.cfg.ClusterName,
		State:     provider.RunStateUnknown,
		Checks:    provider.ChecksUnknown,
		PublicIP:  aws.ToString(inst.PublicIpAddress),
		PrivateIP: aws.ToString(inst.PrivateIpAddress),
		Size:      string(inst.InstanceType),
		KeyName:   aws.ToString(inst.KeyName),
	}
	if inst.State != nil {
		v.State = runState(inst.State.Name)
	}
	if inst.Placement != nil {
		v.Zone = aws.ToString(inst.Placement.AvailabilityZone)
	}
	if inst.LaunchTime != nil {
		v.CreatedAt = *inst.LaunchTime
	}
	for _, t := range inst.Tags {
		if aws.ToString(t.Key) == tags.KeyName {
			v.Name = aws.ToString(t.Value)
		}
	}
	return v
}

func (a *Adapter) views(instances []types.Instance) []provider.InstanceView {
	out := make([]provider.InstanceView, 0, len(instances))
	for i := range instances {
		out = append(out, a.view(&instances[i]))
	}
	return out
}

// fillChecks annotates views with the provider's status checks, one batch
// call for the lot. A failure to read checks leaves them unknown rather
// than failing the listing.
func (a *Adapter) fillChecks(ctx context.Context, views []provider.InstanceView) {
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	if len(ids) == 0 {
		return
	}
	out, err := call(ctx, func() (*awsec2.DescribeInstanceStatusOutput, error) {
		return a.clients.Instances.DescribeInstanceStatus(ctx, &awsec2.DescribeInstanceStatusInput{
			InstanceIds:         ids,
			IncludeAllInstances: aws.Bool(true),
		})
	})
	if err != nil {
		return
	}
	byID := make(map[string]provider.ChecksStatus, len(out.InstanceStatuses))
	for _, st := range out.InstanceStatuses {
		byID[aws.ToString(st.InstanceId)] = checksStatus(st)
	}
	for i := range views {
		if c, ok := byID[views[i].ID]; ok {
			views[i].Checks = c
		}
	}
}

// checksStatus folds the instance and system check summaries: either
// impaired fails, both ok passes, anything else is unknown.
func checksStatus(st types.InstanceStatus) provider.ChecksStatus {
	instOK, sysOK := types.SummaryStatusOk, types.SummaryStatusOk
	if st.InstanceStatus != nil {
		instOK = st.InstanceStatus.Status
	}
	if st.SystemStatus != nil {
		sysOK = st.SystemStatus.Status
	}
	switch {
	case instOK == types.SummaryStatusImpaired || sysOK == types.SummaryStatusImpaired:
		return provider.ChecksFailed
	case instOK == types.SummaryStatusOk && sysOK == types.SummaryStatusOk:
		return provider.ChecksPassed
	default:
		return provider.ChecksUnknown
	}
}

// runInstance launches the instance into the cluster network.
func (a *Adapter) runInstance(ctx context.Context, name, image string, view network.View) (*types.Instance, error) {
	out, err := call(ctx, func() (*awsec2.RunInstancesOutput, error) {
		return a.clients.Instances.RunInstances(ctx, &awsec2.RunInstancesInput{
			ImageId:           aws.String(image),
			InstanceType:      types.InstanceType(a.cfg.Size),
			MinCount:          aws.Int32(1),
			MaxCount:          aws.Int32(1),
			KeyName:           aws.String(a.cfg.KeyPairName),
			SubnetId:          aws.String(view.SubnetID),
			SecurityGroupIds:  []string{view.SecurityBoundaryID},
			TagSpecifications: a.tagSpec(types.ResourceTypeInstance, name),
		})
	})
	if err != nil {
		return nil, err
	}
	if len(out.Instances) == 0 {
		return nil, fmt.Errorf("launch of %q reported no instance", name)
	}
	return &out.Instances[0], nil
}

func (a *Adapter) waitRunning(ctx context.Context, id string) error {
	waiter := awsec2.NewInstanceRunningWaiter(a.clients.Instances)
	if err := waiter.Wait(ctx, &awsec2.DescribeInstancesInput{InstanceIds: []string{id}}, a.waitTimeout); err != nil {
		return fmt.Errorf("waiting for %s to run: %w", id, err)
	}
	return nil
}

func (a *Adapter) waitTerminated(ctx context.Context, id string) error {
	waiter := awsec2.NewInstanceTerminatedWaiter(a.clients.Instances)
	if err := waiter.Wait(ctx, &awsec2.DescribeInstancesInput{InstanceIds: []string{id}}, a.waitTimeout); err != nil {
		return fmt.Errorf("waiting for %s to terminate: %w", id, err)
	}
	return nil
}
