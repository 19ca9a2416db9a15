package lightsail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lightsail"
	"github.com/aws/aws-sdk-go-v2/service/lightsail/types"

	"github.com/vmcli/vmcli/internal/network"
)

// openPorts writes the instance's whole public port set in one call. Put
// semantics close anything not listed, so repeated runs converge on the
// same state.
func (a *Adapter) openPorts(ctx context.Context, instName string) error {
	infos := make([]types.PortInfo, 0, len(network.IngressPorts))
	for _, p := range network.IngressPorts {
		infos = append(infos, types.PortInfo{
			FromPort:  int32(p),
			ToPort:    int32(p),
			Protocol:  types.NetworkProtocolTcp,
			Cidrs:     []string{"0.0.0.0/0"},
			Ipv6Cidrs: []string{"::/0"},
		})
	}
	_, err := call(ctx, func() (*lightsail.PutInstancePublicPortsOutput, error) {
		return a.clients.Ports.PutInstancePublicPorts(ctx, &lightsail.PutInstancePublicPortsInput{
			InstanceName: aws.String(instName),
			PortInfos:    infos,
		})
	})
	if err != nil {
		return fmt.Errorf("open public ports on %s: %w", instName, err)
	}
	a.log().WithField("instance", instName).Info("Opened public ports")
	return nil
}
