package lightsail

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lightsail"
	"github.com/aws/aws-sdk-go-v2/service/lightsail/types"

	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/tags"
)

// States the API reports for an instance. Lightsail rides on EC2, so the
// names match the EC2 vocabulary.
const (
	statePending    = "pending"
	stateRunning    = "running"
	stateStopping   = "stopping"
	stateStopped    = "stopped"
	stateShutDown   = "shutting-down"
	stateTerminated = "terminated"
)

func runState(state string) provider.RunState {
	switch state {
	case statePending:
		return provider.RunStatePending
	case stateRunning:
		return provider.RunStateRunning
	case stateStopping, stateShutDown:
		return provider.RunStateStopping
	case stateStopped:
		return provider.RunStateStopped
	case stateTerminated:
		return provider.RunStateTerminated
	default:
		return provider.RunStateUnknown
	}
}

// lookup lists the cluster's instances by their tag pair, narrowed to one
// logical name when name is non-empty. The API lists the whole region and
// offers no tag filter, so the narrowing happens client-side.
func (a *Adapter) lookup(ctx context.Context, name string) ([]types.Instance, error) {
	var found []types.Instance
	var token *string
	for {
		out, err := call(ctx, func() (*lightsail.GetInstancesOutput, error) {
			return a.clients.Instances.GetInstances(ctx, &lightsail.GetInstancesInput{PageToken: token})
		})
		if err != nil {
			return nil, err
		}
		for _, inst := range out.Instances {
			if tagValue(inst.Tags, tags.KeyCluster) != a.cfg.ClusterName {
				continue
			}
			if name != "" && tagValue(inst.Tags, tags.KeyName) != name {
				continue
			}
			if inst.State != nil && aws.ToString(inst.State.Name) == stateTerminated {
				continue
			}
			found = append(found, inst)
		}
		if out.NextPageToken == nil {
			return found, nil
		}
		token = out.NextPageToken
	}
}

// resolve narrows a logical name to exactly one instance.
func (a *Adapter) resolve(ctx context.Context, name string) (*types.Instance, error) {
	found, err := a.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return provider.One(found, a.cfg.ClusterName, name)
}

// getByName re-reads one instance by its prefixed resource name. An
// instance that is already gone yields nil.
func (a *Adapter) getByName(ctx context.Context, instName string) (*types.Instance, error) {
	out, err := call(ctx, func() (*lightsail.GetInstanceOutput, error) {
		return a.clients.Instances.GetInstance(ctx, &lightsail.GetInstanceInput{InstanceName: aws.String(instName)})
	})
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out.Instance, nil
}

// view converts an SDK instance into the provider-neutral shape. Lightsail
// addresses instances by name, so the prefixed resource name doubles as the
// ID; the logical name lives in the tag pair.
func (a *Adapter) view(inst *types.Instance) provider.InstanceView {
	v := provider.InstanceView{
		ID:        aws.ToString(inst.Name),
		Name:      tagValue(inst.Tags, tags.KeyName),
		Cluster:   a.cfg.ClusterName,
		State:     provider.RunStateUnknown,
		Checks:    provider.ChecksUnknown,
		PublicIP:  aws.ToString(inst.PublicIpAddress),
		PrivateIP: aws.ToString(inst.PrivateIpAddress),
		Size:      aws.ToString(inst.BundleId),
		KeyName:   aws.ToString(inst.SshKeyName),
	}
	if v.Name == "" {
		v.Name = aws.ToString(inst.Name)
	}
	if inst.State != nil {
		v.State = runState(aws.ToString(inst.State.Name))
	}
	if inst.Location != nil {
		v.Zone = aws.ToString(inst.Location.AvailabilityZone)
	}
	if inst.CreatedAt != nil {
		v.CreatedAt = *inst.CreatedAt
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

func tagValue(tt []types.Tag, key string) string {
	for _, t := range tt {
		if aws.ToString(t.Key) == key {
			return aws.ToString(t.Value)
		}
	}
	return ""
}

// tagList builds the identity tags for a new instance, sorted so request
// bodies are stable.
func (a *Adapter) tagList(name string) []types.Tag {
	m := tags.ForInstance(a.cfg.ClusterName, name).Build()
	tt := make([]types.Tag, 0, len(m))
	for k, v := range m {
		tt = append(tt, types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	sort.Slice(tt, func(i, j int) bool { return aws.ToString(tt[i].Key) < aws.ToString(tt[j].Key) })
	return tt
}

// createInstance submits the create call. The API returns operations, not
// the instance, so callers re-read it by name afterwards.
func (a *Adapter) createInstance(ctx context.Context, instName, name string) error {
	_, err := call(ctx, func() (*lightsail.CreateInstancesOutput, error) {
		return a.clients.Instances.CreateInstances(ctx, &lightsail.CreateInstancesInput{
			InstanceNames:    []string{instName},
			AvailabilityZone: aws.String(a.az()),
			BlueprintId:      aws.String(a.cfg.Image),
			BundleId:         aws.String(a.cfg.Size),
			KeyPairName:      aws.String(a.cfg.KeyPairName),
			Tags:             a.tagList(name),
		})
	})
	return err
}
