package lightsail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lightsail"

	"github.com/vmcli/vmcli/internal/logging"
	"github.com/vmcli/vmcli/internal/sshkey"
)

// ensureKeyPair imports the configured public key under the cluster's key
// pair name unless a pair with that name already exists.
func (a *Adapter) ensureKeyPair(ctx context.Context) error {
	name := a.cfg.KeyPairName
	_, err := call(ctx, func() (*lightsail.GetKeyPairOutput, error) {
		return a.clients.Keys.GetKeyPair(ctx, &lightsail.GetKeyPairInput{KeyPairName: aws.String(name)})
	})
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("look up key pair %q: %w", name, err)
	}

	key, err := sshkey.Load(a.cfg.SSHPublicKeyPath)
	if err != nil {
		return err
	}
	_, err = call(ctx, func() (*lightsail.ImportKeyPairOutput, error) {
		return a.clients.Keys.ImportKeyPair(ctx, &lightsail.ImportKeyPairInput{
			KeyPairName:     aws.String(name),
			PublicKeyBase64: aws.String(key.Material),
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
	_, err := call(ctx, func() (*lightsail.DeleteKeyPairOutput, error) {
		return a.clients.Keys.DeleteKeyPair(ctx, &lightsail.DeleteKeyPairInput{KeyPairName: aws.String(name)})
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete key pair %q: %w", name, err)
	}
	return nil
}
