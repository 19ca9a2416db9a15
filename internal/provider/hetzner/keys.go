package hetzner

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/vmcli/vmcli/internal/logging"
	"github.com/vmcli/vmcli/internal/sshkey"
	"github.com/vmcli/vmcli/internal/tags"
)

// ensureSSHKey imports the configured public key under the cluster's key
// name unless one already exists, and returns the key resource for server
// creation.
func (a *Adapter) ensureSSHKey(ctx context.Context) (*hcloud.SSHKey, error) {
	name := a.cfg.KeyPairName
	existing, err := call(ctx, func() (*hcloud.SSHKey, error) {
		k, _, err := a.clients.SSHKeys.GetByName(ctx, name)
		return k, err
	})
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("look up ssh key %q: %w", name, err)
	}
	if existing != nil {
		return existing, nil
	}

	key, err := sshkey.Load(a.cfg.SSHPublicKeyPath)
	if err != nil {
		return nil, err
	}
	created, err := call(ctx, func() (*hcloud.SSHKey, error) {
		k, _, err := a.clients.SSHKeys.Create(ctx, hcloud.SSHKeyCreateOpts{
			Name:      name,
			PublicKey: key.Material,
			Labels:    tags.ForCluster(a.cfg.ClusterName).WithName(name).Labels(),
		})
		return k, err
	})
	if err != nil {
		// Hetzner keys one account-wide namespace off the fingerprint.
		if isUniqueness(err) {
			return nil, fmt.Errorf("public key %s is already imported under another name: %w", key.Fingerprint, err)
		}
		return nil, fmt.Errorf("import ssh key %q: %w", name, err)
	}
	logging.L().WithField("ssh_key", name).WithField("fingerprint", key.Fingerprint).Info("Imported SSH key")
	return created, nil
}

// RemoveKeyMaterial deletes the cluster's imported SSH key. A key that is
// already gone is fine.
func (a *Adapter) RemoveKeyMaterial(ctx context.Context) error {
	name := a.cfg.KeyPairName
	existing, err := call(ctx, func() (*hcloud.SSHKey, error) {
		k, _, err := a.clients.SSHKeys.GetByName(ctx, name)
		return k, err
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("look up ssh key %q: %w", name, err)
	}
	if existing == nil {
		return nil
	}
	_, err = call(ctx, func() (*hcloud.Response, error) {
		return a.clients.SSHKeys.Delete(ctx, existing)
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete ssh key %q: %w", name, err)
	}
	return nil
}
