package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ubuntuAMIParameter is Canonical's public SSM parameter tracking the
// current Ubuntu 24.04 LTS AMI for the configured region.
const ubuntuAMIParameter = "/aws/service/canonical/ubuntu/server/24.04/stable/current/amd64/hvm/ebs-gp3/ami-id"

// resolveImage returns the configured AMI, or the current Ubuntu LTS AMI
// when none is configured.
func (a *Adapter) resolveImage(ctx context.Context) (string, error) {
	if a.cfg.Image != "" {
		return a.cfg.Image, nil
	}
	out, err := call(ctx, func() (*ssm.GetParameterOutput, error) {
		return a.clients.Params.GetParameter(ctx, &ssm.GetParameterInput{
			Name: aws.String(ubuntuAMIParameter),
		})
	})
	if err != nil {
		return "", fmt.Errorf("resolve ubuntu AMI: %w", err)
	}
	return aws.ToString(out.Parameter.Value), nil
}
