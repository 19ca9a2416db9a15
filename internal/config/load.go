package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vmcli/vmcli/internal/tags"
	"github.com/vmcli/vmcli/internal/util/naming"
)

// loadFile strictly decodes one TOML file. Unknown keys are rejected so a
// typo never silently becomes a default.
func loadFile(path string) (*File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s: unknown keys: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	return &f, nil
}

// loadOptional returns (nil, nil) when the file does not exist.
func loadOptional(path string) (*File, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return loadFile(path)
}

// Resolve builds the effective configuration for one cluster-scoped command.
// Layers, lowest to highest: built-in defaults, global file, cluster file,
// override file (-c, may be empty), CLI flag overrides.
//
// The cluster file must exist (init creates it). Any file declaring a
// cluster_name different from cluster is an identity mismatch.
func Resolve(p Provider, cluster, overridePath string, ov Overrides) (*Effective, error) {
	if err := tags.ValidateName("cluster", cluster); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	globalPath, err := GlobalPath()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	clusterPath, err := ClusterPath(p, cluster)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	global, err := loadOptional(globalPath)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(clusterPath); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s/%s (run \"vmcli %s init %s\" first)", ErrNotInitialized, p, cluster, p, cluster)
	}
	clusterFile, err := loadFile(clusterPath)
	if err != nil {
		return nil, err
	}

	var override *File
	if overridePath != "" {
		override, err = loadFile(overridePath)
		if err != nil {
			return nil, err
		}
	}

	for _, f := range []*File{clusterFile, override} {
		if f != nil && f.ClusterName != "" && f.ClusterName != cluster {
			return nil, fmt.Errorf("%w: config declares %q, command names %q", ErrIdentityMismatch, f.ClusterName, cluster)
		}
	}

	e := newEffective(p, cluster)
	for _, f := range []*File{global, clusterFile, override} {
		e.overlay(f.section(p))
	}
	e.applyOverrides(ov)
	finalize(e)

	if err := validate(e); err != nil {
		return nil, err
	}

	dir, err := ClusterDir(p, cluster)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	e.ClusterDir = dir
	e.SSHConfigPath = filepath.Join(dir, "ssh_config")
	return e, nil
}

// ResolveGlobal builds an effective configuration without a cluster context,
// for cluster-independent reads (regions, zones).
func ResolveGlobal(p Provider, overridePath string) (*Effective, error) {
	globalPath, err := GlobalPath()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	global, err := loadOptional(globalPath)
	if err != nil {
		return nil, err
	}
	var override *File
	if overridePath != "" {
		override, err = loadFile(overridePath)
		if err != nil {
			return nil, err
		}
	}

	e := newEffective(p, "")
	e.overlay(global.section(p))
	e.overlay(override.section(p))
	finalize(e)
	return e, nil
}

func newEffective(p Provider, cluster string) *Effective {
	s := defaultSection(p)
	e := &Effective{Provider: p, ClusterName: cluster}
	e.overlay(&s)
	return e
}

// finalize derives fields that merge alone cannot produce.
func finalize(e *Effective) {
	if e.KeyPairName == "" && e.ClusterName != "" {
		e.KeyPairName = naming.KeyPair(e.ClusterName)
	}
	// A GCE zone implies its region (us-central1-a -> us-central1).
	if e.Provider == ProviderGCE && e.Region == "" && e.Zone != "" {
		if i := strings.LastIndex(e.Zone, "-"); i > 0 {
			e.Region = e.Zone[:i]
		}
	}
}

// Scaffold creates the cluster directory and writes the default cluster
// config. It also writes the global template on first use. Fails when the
// cluster config already exists.
func Scaffold(p Provider, cluster string) (string, error) {
	if err := tags.ValidateName("cluster", cluster); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	dir, err := ClusterDir(p, cluster)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrAlreadyInitialized, path)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", ErrInvalid, dir, err)
	}
	if err := os.WriteFile(path, []byte(DefaultTOML(p, cluster)), 0o644); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", ErrInvalid, path, err)
	}

	globalPath, err := GlobalPath()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := os.Stat(globalPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(globalPath, []byte(GlobalTOML()), 0o644); err != nil {
			return "", fmt.Errorf("%w: writing %s: %v", ErrInvalid, globalPath, err)
		}
	}
	return path, nil
}
