package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfigDir overrides the config root, mainly for tests and CI.
const EnvConfigDir = "VMCLI_CONFIG_DIR"

// Root returns the configuration root, normally <user config dir>/vmcli.
func Root() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, "vmcli"), nil
}

// GlobalPath returns the path of the global config file.
func GlobalPath() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "config.toml"), nil
}

// ClusterDir returns the directory holding one cluster's config and rendered
// ssh_config.
func ClusterDir(p Provider, cluster string) (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, string(p), cluster), nil
}

// ClusterPath returns the path of a cluster's config file.
func ClusterPath(p Provider, cluster string) (string, error) {
	dir, err := ClusterDir(p, cluster)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// SSHConfigPath returns the path of a cluster's rendered ssh_config fragment.
func SSHConfigPath(p Provider, cluster string) (string, error) {
	dir, err := ClusterDir(p, cluster)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ssh_config"), nil
}
