package digitalocean

import (
	"context"
	"fmt"
	"time"

	"github.com/digitalocean/godo"
	"github.com/sirupsen/logrus"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/logging"
	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/provider"
)

// Adapter drives DigitalOcean for one cluster.
type Adapter struct {
	cfg          *config.Effective
	clients      *Clients
	waitTimeout  time.Duration
	pollInterval time.Duration
}

var _ provider.Provider = (*Adapter)(nil)
var _ provider.AccountReporter = (*Adapter)(nil)

func (a *Adapter) Name() string {
	return string(config.ProviderDO)
}

func (a *Adapter) log() *logrus.Entry {
	return logging.L().WithFields(logrus.Fields{
		"provider": a.Name(),
		"cluster":  a.cfg.ClusterName,
	})
}

func (a *Adapter) Up(ctx context.Context, name string) (*provider.InstanceView, error) {
	existing, err := a.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("instance %q in cluster %q: %w", name, a.cfg.ClusterName, provider.ErrNameCollision)
	}

	netView, err := a.template().Ensure(ctx)
	if err != nil {
		return nil, err
	}
	key, err := a.ensureKey(ctx)
	if err != nil {
		return nil, err
	}

	a.log().WithFields(logrus.Fields{"name": name, "image": a.cfg.Image, "size": a.cfg.Size}).Info("Creating droplet")
	droplet, err := a.createDroplet(ctx, name, netView, key)
	if err != nil {
		return nil, err
	}
	created := a.view(droplet)
	created.Name = name

	if err := a.awaitActive(ctx, droplet.ID); err != nil {
		return &created, err
	}
	final, err := a.getByID(ctx, droplet.ID)
	if err != nil || final == nil {
		return &created, err
	}
	view := a.view(final)
	return &view, nil
}

func (a *Adapter) Status(ctx context.Context) (*provider.ClusterStatus, error) {
	netView, err := a.template().Discover(ctx)
	if err != nil {
		return nil, err
	}
	droplets, err := a.lookup(ctx, "")
	if err != nil {
		return nil, err
	}
	return &provider.ClusterStatus{
		Provider:  a.Name(),
		Cluster:   a.cfg.ClusterName,
		Network:   netView,
		Instances: a.views(droplets),
	}, nil
}

func (a *Adapter) Reboot(ctx context.Context, name string) (*provider.InstanceView, error) {
	droplet, err := a.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	action, err := call(ctx, func() (*godo.Action, error) {
		act, _, err := a.clients.DropletActions.Reboot(ctx, droplet.ID)
		return act, err
	})
	if err != nil {
		return nil, err
	}
	if err := a.awaitAction(ctx, action); err != nil {
		view := a.view(droplet)
		return &view, err
	}
	a.log().WithField("name", name).Info("Reboot requested")

	final, err := a.getByID(ctx, droplet.ID)
	if err != nil || final == nil {
		view := a.view(droplet)
		return &view, err
	}
	view := a.view(final)
	return &view, nil
}

func (a *Adapter) Destroy(ctx context.Context, name string) (*provider.InstanceView, error) {
	droplet, err := a.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	_, err = call(ctx, func() (*godo.Response, error) {
		return a.clients.Droplets.Delete(ctx, droplet.ID)
	})
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if err := a.awaitGone(ctx, droplet.ID); err != nil {
		view := a.view(droplet)
		return &view, err
	}
	a.log().WithField("name", name).Info("Droplet deleted")

	// Deleted droplets vanish from the API, so the final view is synthesized.
	view := a.view(droplet)
	view.Name = name
	view.State = provider.RunStateTerminated
	return &view, nil
}

func (a *Adapter) TeardownNetwork(ctx context.Context) (*network.Teardown, error) {
	return a.template().EnsureAbsent(ctx)
}

func (a *Adapter) Regions(ctx context.Context) ([]provider.Region, error) {
	all, err := a.listRegions(ctx)
	if err != nil {
		return nil, err
	}
	regions := make([]provider.Region, 0, len(all))
	for _, r := range all {
		desc := r.Name
		if !r.Available {
			desc += " (unavailable)"
		}
		regions = append(regions, provider.Region{
			Name:        r.Slug,
			Description: desc,
		})
	}
	return regions, nil
}

// Zones reports the region itself; DigitalOcean has no zone concept below
// it.
func (a *Adapter) Zones(ctx context.Context, region string) ([]provider.Zone, error) {
	if region == "" {
		region = a.cfg.Region
	}
	all, err := a.listRegions(ctx)
	if err != nil {
		return nil, err
	}
	var zones []provider.Zone
	for _, r := range all {
		if r.Slug != region {
			continue
		}
		status := "available"
		if !r.Available {
			status = "unavailable"
		}
		zones = append(zones, provider.Zone{
			Name:   r.Slug,
			Region: r.Slug,
			Status: status,
		})
	}
	return zones, nil
}

// Identity reports the account behind the configured token.
func (a *Adapter) Identity(ctx context.Context) (string, error) {
	acct, err := call(ctx, func() (*godo.Account, error) {
		acc, _, err := a.clients.Account.Get(ctx)
		return acc, err
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (account %s)", acct.Email, acct.UUID), nil
}

func (a *Adapter) listRegions(ctx context.Context) ([]godo.Region, error) {
	return call(ctx, func() ([]godo.Region, error) {
		return paginate(ctx, func(ctx context.Context, opt *godo.ListOptions) ([]godo.Region, *godo.Response, error) {
			return a.clients.Regions.List(ctx, opt)
		})
	})
}

// await polls until done reports true, bounded by the adapter wait timeout.
// The first check runs before any sleep, so settled work costs no delay.
func (a *Adapter) await(ctx context.Context, what string, done func(ctx context.Context) (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, a.waitTimeout)
	defer cancel()
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()
	for {
		ok, err := done(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", what, ctx.Err())
		case <-ticker.C:
		}
	}
}

// awaitAction polls one action until it completes. Nil actions are skipped.
func (a *Adapter) awaitAction(ctx context.Context, action *godo.Action) error {
	if action == nil {
		return nil
	}
	return a.await(ctx, fmt.Sprintf("action %d", action.ID), func(ctx context.Context) (bool, error) {
		current, err := call(ctx, func() (*godo.Action, error) {
			act, _, err := a.clients.Actions.Get(ctx, action.ID)
			return act, err
		})
		if err != nil {
			return false, err
		}
		switch current.Status {
		case godo.ActionCompleted:
			return true, nil
		case godo.ActionInProgress:
			return false, nil
		default:
			return false, fmt.Errorf("action %d (%s) %s", current.ID, current.Type, current.Status)
		}
	})
}

func (a *Adapter) awaitActive(ctx context.Context, id int) error {
	return a.await(ctx, fmt.Sprintf("droplet %d to become active", id), func(ctx context.Context) (bool, error) {
		droplet, err := a.getByID(ctx, id)
		if err != nil {
			return false, err
		}
		return droplet != nil && droplet.Status == statusActive, nil
	})
}

func (a *Adapter) awaitGone(ctx context.Context, id int) error {
	return a.await(ctx, fmt.Sprintf("droplet %d to go away", id), func(ctx context.Context) (bool, error) {
		droplet, err := a.getByID(ctx, id)
		if err != nil {
			return false, err
		}
		return droplet == nil, nil
	})
}
