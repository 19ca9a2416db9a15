// Package awsauth builds AWS SDK configurations from environment-only
// static credentials, shared by the EC2 and Lightsail adapters.
package awsauth

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/vmcli/vmcli/internal/config"
)

// Load validates the credential environment for p and returns an SDK config
// pinned to region. The SDK's own retry layer is disabled; backoff is the
// adapter's policy, applied per call.
func Load(ctx context.Context, p config.Provider, region string) (aws.Config, error) {
	if err := config.ValidateEnv(p); err != nil {
		return aws.Config{}, err
	}
	accessKey, secretKey, sessionToken := config.AWSStaticCredentials()

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, sessionToken)),
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws sdk config: %w", err)
	}
	return cfg, nil
}
