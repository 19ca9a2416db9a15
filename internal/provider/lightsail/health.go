package lightsail

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lightsail"
	"github.com/aws/aws-sdk-go-v2/service/lightsail/types"
	"github.com/aws/smithy-go"

	"github.com/vmcli/vmcli/internal/probe"
	"github.com/vmcli/vmcli/internal/provider"
)

// Health probes one instance: run state from the API, SSH reachability from
// its public port states, and an access-details request as the key probe.
// Lightsail runs no separate status checks, so that signal stays unknown.
func (a *Adapter) Health(ctx context.Context, name, _ string) (*provider.HealthReport, error) {
	inst, err := a.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	view := a.view(inst)
	instName := aws.ToString(inst.Name)

	ingress := a.classifyIngress(ctx, instName)
	keyResult, note := a.keyProbe(ctx, instName, &view)

	return probe.Report(&view, ingress, keyResult, note), nil
}

// classifyIngress grades the SSH path from the instance's public port
// states. Lightsail closes everything not explicitly opened, which the
// classifier's empty-rule verdict already says.
func (a *Adapter) classifyIngress(ctx context.Context, instName string) provider.IngressScope {
	out, err := call(ctx, func() (*lightsail.GetInstancePortStatesOutput, error) {
		return a.clients.Ports.GetInstancePortStates(ctx, &lightsail.GetInstancePortStatesInput{
			InstanceName: aws.String(instName),
		})
	})
	if err != nil {
		return provider.IngressUnknown
	}
	var rules []probe.Rule
	for _, ps := range out.PortStates {
		if ps.State != types.PortStateOpen {
			continue
		}
		rules = append(rules, normalizePortState(ps))
	}
	return probe.ClassifySSHIngress(rules)
}

func normalizePortState(ps types.InstancePortState) probe.Rule {
	r := probe.Rule{
		Protocol: string(ps.Protocol),
		FromPort: int(ps.FromPort),
		ToPort:   int(ps.ToPort),
	}
	r.Sources = append(r.Sources, ps.Cidrs...)
	r.Sources = append(r.Sources, ps.Ipv6Cidrs...)
	for _, alias := range ps.CidrListAliases {
		// Aliases ("lightsail-connect") name peer groups, not ranges.
		r.Sources = append(r.Sources, "alias:"+alias)
	}
	return r
}

// keyProbe asks for temporary SSH access details. The call stages nothing
// on the instance; it only proves the caller may retrieve access, which is
// the closest non-mutating signal Lightsail offers.
func (a *Adapter) keyProbe(ctx context.Context, instName string, view *provider.InstanceView) (provider.KeyProbeResult, string) {
	if view.State != provider.RunStateRunning {
		return provider.KeyProbeUnknown, "instance is not running"
	}
	_, err := call(ctx, func() (*lightsail.GetInstanceAccessDetailsOutput, error) {
		return a.clients.Access.GetInstanceAccessDetails(ctx, &lightsail.GetInstanceAccessDetailsInput{
			InstanceName: aws.String(instName),
			Protocol:     types.InstanceAccessProtocolSsh,
		})
	})
	if err != nil {
		return classifyAccessError(err)
	}
	return provider.KeyProbeOk, ""
}

func classifyAccessError(err error) (provider.KeyProbeResult, string) {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return provider.KeyProbeUnknown, err.Error()
	}
	switch apiErr.ErrorCode() {
	case "AccessDeniedException", "UnauthenticatedException":
		return provider.KeyProbeDenied, apiErr.ErrorMessage()
	default:
		return provider.KeyProbeUnknown, apiErr.ErrorMessage()
	}
}
