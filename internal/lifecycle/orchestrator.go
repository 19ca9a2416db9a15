package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/logging"
	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/sshconfig"
	"github.com/vmcli/vmcli/internal/sshkey"
	"github.com/vmcli/vmcli/internal/tags"
)

// Orchestrator binds one resolved cluster config to one provider adapter.
type Orchestrator struct {
	cfg *config.Effective
	p   provider.Provider
}

// New builds an orchestrator for one invocation.
func New(cfg *config.Effective, p provider.Provider) *Orchestrator {
	return &Orchestrator{cfg: cfg, p: p}
}

// wrap attaches the operation identity to an adapter error.
func (o *Orchestrator) wrap(op, target string, err error) error {
	if err == nil {
		return nil
	}
	return &provider.OpError{
		Provider: o.p.Name(),
		Op:       op,
		Cluster:  o.cfg.ClusterName,
		Target:   target,
		Err:      err,
	}
}

func (o *Orchestrator) log() *logrus.Entry {
	return logging.L().WithFields(logrus.Fields{
		"provider": o.p.Name(),
		"cluster":  o.cfg.ClusterName,
	})
}

// UpResult reports what up achieved. Instance is set as soon as the provider
// created one, even when a later step failed; Status is the post-create
// cluster read backing the ssh_config refresh.
type UpResult struct {
	Instance      *provider.InstanceView
	Status        *provider.ClusterStatus
	SSHConfigPath string
}

// Up creates the named instance and refreshes the cluster ssh_config. The
// created instance is always part of the result once it exists: a failure
// after creation (a wait, a read, the config write) comes back alongside it,
// never instead of it.
func (o *Orchestrator) Up(ctx context.Context, name string) (*UpResult, error) {
	if err := tags.ValidateName("instance", name); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}

	inst, upErr := o.p.Up(ctx, name)
	if inst == nil {
		return nil, o.wrap("up", name, upErr)
	}
	res := &UpResult{Instance: inst, SSHConfigPath: o.cfg.SSHConfigPath}

	// The instance exists and is billed from here on; say so before
	// anything else can fail.
	o.log().WithFields(logrus.Fields{
		"name": name, "id": inst.ID, "public_ip": inst.PublicIP,
	}).Info("Instance created")

	if upErr != nil {
		return res, o.wrap("up", name, upErr)
	}

	st, err := o.refreshSSHConfig(ctx)
	res.Status = st
	if err != nil {
		return res, o.wrap("up", name, err)
	}
	return res, nil
}

// Status reads the cluster and rewrites its ssh_config from what it found.
func (o *Orchestrator) Status(ctx context.Context) (*provider.ClusterStatus, error) {
	st, err := o.refreshSSHConfig(ctx)
	if err != nil {
		return st, o.wrap("status", "", err)
	}
	return st, nil
}

// refreshSSHConfig re-derives the ssh_config from a fresh cluster read. The
// status is returned even when the write fails, so callers can still show
// what the cluster looks like.
func (o *Orchestrator) refreshSSHConfig(ctx context.Context) (*provider.ClusterStatus, error) {
	st, err := o.p.Status(ctx)
	if err != nil {
		return nil, err
	}
	keyPath, err := sshkey.ExpandHome(o.cfg.SSHPublicKeyPath)
	if err != nil {
		return st, err
	}
	identity := sshkey.DerivePrivatePath(keyPath)
	if err := sshconfig.Write(o.cfg.SSHConfigPath, o.cfg.ClusterName, o.cfg.OSUser, identity, st.Instances); err != nil {
		return st, err
	}
	return st, nil
}

// Health probes the named instance. A computed report is a success whatever
// the diagnosis says; only a probe that could not run is an error.
func (o *Orchestrator) Health(ctx context.Context, name, osUser string) (*provider.HealthReport, error) {
	report, err := o.p.Health(ctx, name, osUser)
	if err != nil {
		return nil, o.wrap("health", name, err)
	}
	return report, nil
}

// Reboot restarts the named instance.
func (o *Orchestrator) Reboot(ctx context.Context, name string) (*provider.InstanceView, error) {
	inst, err := o.p.Reboot(ctx, name)
	if err != nil {
		return inst, o.wrap("reboot", name, err)
	}
	return inst, nil
}

// Destroy terminates the named instance. Network resources stay; prune owns
// those.
func (o *Orchestrator) Destroy(ctx context.Context, name string) (*provider.InstanceView, error) {
	inst, err := o.p.Destroy(ctx, name)
	if err != nil {
		return inst, o.wrap("destroy", name, err)
	}
	return inst, nil
}

// PruneResult reports what prune removed.
type PruneResult struct {
	Teardown   *network.Teardown
	KeyRemoved bool
}

// Prune tears down the cluster network once no instance is left. Any
// non-terminated instance blocks the whole operation before a single
// resource is touched. With force, the imported key material goes too. A
// partial teardown is reported step by step and surfaces ErrPartialTeardown;
// re-running resumes from whatever is still tagged.
func (o *Orchestrator) Prune(ctx context.Context, force bool) (*PruneResult, error) {
	st, err := o.p.Status(ctx)
	if err != nil {
		return nil, o.wrap("prune", "", err)
	}
	if live := provider.Live(st.Instances); len(live) > 0 {
		names := make([]string, 0, len(live))
		for _, inst := range live {
			names = append(names, inst.Name)
		}
		sort.Strings(names)
		return nil, o.wrap("prune", "", fmt.Errorf("%d instances still exist (%s): %w",
			len(names), strings.Join(names, ", "), provider.ErrClusterNotEmpty))
	}

	res := &PruneResult{}
	td, tdErr := o.p.TeardownNetwork(ctx)
	res.Teardown = td

	// Key removal is idempotent, so it is attempted even after a partial
	// teardown; the network failure still decides the outcome.
	var keyErr error
	if force {
		if keyErr = o.p.RemoveKeyMaterial(ctx); keyErr == nil {
			res.KeyRemoved = true
			o.log().Info("Removed key material")
		}
	}

	if tdErr != nil {
		return res, o.wrap("prune", "", fmt.Errorf("%w: %w", provider.ErrPartialTeardown, tdErr))
	}
	if keyErr != nil {
		return res, o.wrap("prune", "", keyErr)
	}
	return res, nil
}

// Init scaffolds the local configuration for a new cluster. It talks to no
// provider; the cluster exists on the cloud side only once up runs.
func Init(p config.Provider, cluster string) (string, error) {
	path, err := config.Scaffold(p, cluster)
	if err != nil {
		return "", err
	}
	logging.L().WithFields(logrus.Fields{
		"provider": string(p), "cluster": cluster, "config": path,
	}).Info("Cluster initialized")
	return path, nil
}
