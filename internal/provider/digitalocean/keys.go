package digitalocean

import (
	"context"
	"fmt"

	"github.com/digitalocean/godo"

	"github.com/vmcli/vmcli/internal/logging"
	"github.com/vmcli/vmcli/internal/sshkey"
)

// findKey locates the cluster's imported key by name. Key names are not
// unique, so more than one match is rejected.
func (a *Adapter) findKey(ctx context.Context, name string) (*godo.Key, error) {
	keys, err := call(ctx, func() ([]godo.Key, error) {
		return paginate(ctx, func(ctx context.Context, opt *godo.ListOptions) ([]godo.Key, *godo.Response, error) {
			return a.clients.Keys.List(ctx, opt)
		})
	})
	if err != nil {
		return nil, err
	}
	var matches []godo.Key
	for _, k := range keys {
		if k.Name == name {
			matches = append(matches, k)
		}
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%d ssh keys named %q", len(matches), name)
	}
}

// ensureKey imports the configured public key under the cluster's key name
// unless one already exists, and returns the key resource for droplet
// creation.
func (a *Adapter) ensureKey(ctx context.Context) (*godo.Key, error) {
	name := a.cfg.KeyPairName
	existing, err := a.findKey(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("look up ssh key %q: %w", name, err)
	}
	if existing != nil {
		return existing, nil
	}

	key, err := sshkey.Load(a.cfg.SSHPublicKeyPath)
	if err != nil {
		return nil, err
	}
	created, err := call(ctx, func() (*godo.Key, error) {
		k, _, err := a.clients.Keys.Create(ctx, &godo.KeyCreateRequest{
			Name:      name,
			PublicKey: key.Material,
		})
		return k, err
	})
	if err != nil {
		// The account keys one namespace off the fingerprint.
		if isUnprocessable(err) {
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
	existing, err := a.findKey(ctx, name)
	if err != nil {
		return fmt.Errorf("look up ssh key %q: %w", name, err)
	}
	if existing == nil {
		return nil
	}
	_, err = call(ctx, func() (*godo.Response, error) {
		return a.clients.Keys.DeleteByID(ctx, existing.ID)
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete ssh key %q: %w", name, err)
	}
	return nil
}
