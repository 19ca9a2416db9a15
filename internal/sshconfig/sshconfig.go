// Package sshconfig renders the per-cluster ssh_config file, one Host block
// per instance with a public address. The file is regenerated wholesale on
// every up and status, so it is always a function of live cluster state.
package sshconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmcli/vmcli/internal/provider"
)

// Render produces the full ssh_config content. Instances without a public
// address are skipped; blocks are sorted by name so rewrites are stable.
func Render(cluster, osUser, identityFile string, instances []provider.InstanceView) string {
	hosts := make([]provider.InstanceView, 0, len(instances))
	for _, inst := range instances {
		if inst.PublicIP != "" {
			hosts = append(hosts, inst)
		}
	}
	sort.Slice(hosts, func(i, j int) bool { return hosts[i].Name < hosts[j].Name })

	var b strings.Builder
	fmt.Fprintf(&b, "# Hosts of vmcli cluster %q.\n", cluster)
	b.WriteString("# Generated file, rewritten by up and status. Do not edit.\n")
	for _, h := range hosts {
		fmt.Fprintf(&b, "\nHost %s\n", h.Name)
		fmt.Fprintf(&b, "    HostName %s\n", h.PublicIP)
		fmt.Fprintf(&b, "    User %s\n", osUser)
		fmt.Fprintf(&b, "    IdentityFile %s\n", identityFile)
		b.WriteString("    IdentitiesOnly yes\n")
		b.WriteString("    StrictHostKeyChecking accept-new\n")
	}
	return b.String()
}

// Write renders and atomically replaces the file at path, staging the
// content in a temp file in the same directory and renaming it over the
// target. Readers never see a half-written config.
func Write(path, cluster, osUser, identityFile string, instances []provider.InstanceView) error {
	content := Render(cluster, osUser, identityFile, instances)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ssh_config-")
	if err != nil {
		return fmt.Errorf("stage ssh_config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write ssh_config: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("write ssh_config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write ssh_config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace ssh_config: %w", err)
	}
	return nil
}
