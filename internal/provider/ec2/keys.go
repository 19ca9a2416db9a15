package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/vmcli/vmcli/internal/logging"
	"github.com/vmcli/vmcli/internal/sshkey"
)

// ensureKeyPair imports the configured public key under the cluster's key
// pair name unless a pair with that name already exists.
func (a *Adapter) ensureKeyPair(ctx context.Context) error {
	name := a.cfg.KeyPairName
	out, err := call(ctx, func() (*awsec2.DescribeKeyPairsOutput, error) {
		return a.clients.Keys.DescribeKeyPairs(ctx, &awsec2.DescribeKeyPairsInput{KeyNames: []string{name}})
	})
	if err == nil && len(out.KeyPairs) > 0 {
		return nil
	}
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("look up key pair %q: %w", name, err)
	}

	key, err := sshkey.Load(a.cfg.SSHPublicKeyPath)
	if err != nil {
		return err
	}
	_, err = call(ctx, func() (*awsec2.ImportKeyPairOutput, error) {
		return a.clients.Keys.ImportKeyPair(ctx, &awsec2.ImportKeyPairInput{
			KeyName:           aws.String(name),
			PublicKeyMaterial: []byte(key.Material),
			TagSpecifications: a.tagSpec(types.ResourceTypeKeyPair, name),
		})
	})
	if err != nil {
		return fmt.Errorf("import key pair %q: %w", name, err)
	}
	logging.L().WithField("key_pair", name).WithField("fingerprint", key.Fingerprint).Info("Imported key pair")
	return nil
}

// RemoveKeyMaterial deletes the cluster's imported key pair. A pair that is
// already gone is fine.
func (a *Adapter) RemoveKeyMaterial(ctx context.Context) error {
	name := a.cfg.KeyPairName
	_, err := call(ctx, func() (*awsec2.DeleteKeyPairOutput, error) {
		return a.clients.Keys.DeleteKeyPair(ctx, &awsec2.DeleteKeyPairInput{KeyName: aws.String(name)})
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete key pair %q: %w", name, err)
	}
	return nil
}
