package ec2

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2instanceconnect"
	"github.com/aws/smithy-go"

	"github.com/vmcli/vmcli/internal/probe"
	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/sshkey"
)

// Health probes one instance: run state and status checks from the API, SSH
// reachability from its security group rules, and a key-injection attempt
// through EC2 Instance Connect. The probe never mutates the instance.
func (a *Adapter) Health(ctx context.Context, name, osUser string) (*provider.HealthReport, error) {
	inst, err := a.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	views := []provider.InstanceView{a.view(inst)}
	a.fillChecks(ctx, views)
	view := views[0]

	ingress := a.classifyIngress(ctx, inst)
	keyResult, note := a.keyProbe(ctx, inst, &view, osUser)

	return probe.Report(&view, ingress, keyResult, note), nil
}

// classifyIngress reads the instance's security group rules and grades the
// SSH path. Unreadable rules are an unknown, not a failure.
func (a *Adapter) classifyIngress(ctx context.Context, inst *types.Instance) provider.IngressScope {
	ids := make([]string, 0, len(inst.SecurityGroups))
	for _, g := range inst.SecurityGroups {
		ids = append(ids, aws.ToString(g.GroupId))
	}
	if len(ids) == 0 {
		return provider.IngressUnknown
	}
	out, err := call(ctx, func() (*awsec2.DescribeSecurityGroupsOutput, error) {
		return a.clients.Network.DescribeSecurityGroups(ctx, &awsec2.DescribeSecurityGroupsInput{GroupIds: ids})
	})
	if err != nil {
		return provider.IngressUnknown
	}

	var rules []probe.Rule
	for _, sg := range out.SecurityGroups {
		for _, perm := range sg.IpPermissions {
			rules = append(rules, normalizeRule(perm))
		}
	}
	return probe.ClassifySSHIngress(rules)
}

func normalizeRule(perm types.IpPermission) probe.Rule {
	r := probe.Rule{
		Protocol: aws.ToString(perm.IpProtocol),
		FromPort: int(aws.ToInt32(perm.FromPort)),
		ToPort:   int(aws.ToInt32(perm.ToPort)),
	}
	if r.Protocol == "-1" {
		r.Protocol = "all"
	}
	for _, ipr := range perm.IpRanges {
		r.Sources = append(r.Sources, aws.ToString(ipr.CidrIp))
	}
	for _, ipr := range perm.Ipv6Ranges {
		r.Sources = append(r.Sources, aws.ToString(ipr.CidrIpv6))
	}
	for _, pair := range perm.UserIdGroupPairs {
		r.Sources = append(r.Sources, aws.ToString(pair.GroupId))
	}
	return r
}

// keyProbe stages the configured public key through EC2 Instance Connect.
// The preconditions are checked in a fixed order so the reported reason is
// deterministic: a stopped instance wins over a missing address, which wins
// over a missing zone, which wins over an unreadable key file.
func (a *Adapter) keyProbe(ctx context.Context, inst *types.Instance, view *provider.InstanceView, osUser string) (provider.KeyProbeResult, string) {
	if view.State != provider.RunStateRunning {
		return provider.KeyProbeUnknown, "instance is not running"
	}
	if view.PublicIP == "" {
		return provider.KeyProbeUnknown, "instance has no public address"
	}
	if view.Zone == "" {
		return provider.KeyProbeUnknown, "availability zone unknown"
	}
	key, err := sshkey.Load(a.cfg.SSHPublicKeyPath)
	if err != nil {
		return provider.KeyProbeUnknown, fmt.Sprintf("public key unreadable: %v", err)
	}
	if osUser == "" {
		osUser = a.cfg.OSUser
	}

	out, err := call(ctx, func() (*ec2instanceconnect.SendSSHPublicKeyOutput, error) {
		return a.clients.Connect.SendSSHPublicKey(ctx, &ec2instanceconnect.SendSSHPublicKeyInput{
			InstanceId:       inst.InstanceId,
			InstanceOSUser:   aws.String(osUser),
			SSHPublicKey:     aws.String(key.Material),
			AvailabilityZone: aws.String(view.Zone),
		})
	})
	if err != nil {
		return classifyConnectError(err)
	}
	if !out.Success {
		return provider.KeyProbeDenied, "instance connect reported failure"
	}
	return provider.KeyProbeOk, ""
}

func classifyConnectError(err error) (provider.KeyProbeResult, string) {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return provider.KeyProbeUnknown, err.Error()
	}
	switch apiErr.ErrorCode() {
	case "AccessDeniedException", "AuthException", "AuthFailure", "UnauthorizedOperation":
		return provider.KeyProbeDenied, apiErr.ErrorMessage()
	case "EC2InstanceTypeInvalidException", "EC2InstanceUnavailableException", "OperationNotPermittedException":
		return provider.KeyProbeUnsupported, apiErr.ErrorMessage()
	default:
		return provider.KeyProbeUnknown, apiErr.ErrorMessage()
	}
}
