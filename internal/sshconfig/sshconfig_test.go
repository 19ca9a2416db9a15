package sshconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmcli/vmcli/internal/provider"
)

func TestRender(t *testing.T) {
	instances := []provider.InstanceView{
		{Name: "web-2", PublicIP: "198.51.100.8", State: provider.RunStateRunning},
		{Name: "web-1", PublicIP: "198.51.100.7", State: provider.RunStateRunning},
		{Name: "db-1", State: provider.RunStateStopped}, // no address, skipped
	}

	got := Render("dev", "ubuntu", "/home/u/.ssh/vmcli", instances)

	want := `# Hosts of vmcli cluster "dev".
# Generated file, rewritten by up and status. Do not edit.

Host web-1
    HostName 198.51.100.7
    User ubuntu
    IdentityFile /home/u/.ssh/vmcli
    IdentitiesOnly yes
    StrictHostKeyChecking accept-new

Host web-2
    HostName 198.51.100.8
    User ubuntu
    IdentityFile /home/u/.ssh/vmcli
    IdentitiesOnly yes
    StrictHostKeyChecking accept-new
`
	assert.Equal(t, want, got)
}

func TestRenderEmptyCluster(t *testing.T) {
	got := Render("dev", "root", "/home/u/.ssh/vmcli", nil)

	assert.Contains(t, got, `cluster "dev"`)
	assert.NotContains(t, got, "Host ")
}

func TestWriteReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ssh_config")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	instances := []provider.InstanceView{
		{Name: "web-1", PublicIP: "198.51.100.7"},
	}
	require.NoError(t, Write(path, "dev", "ubuntu", "/home/u/.ssh/vmcli", instances))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Host web-1")
	assert.NotContains(t, string(content), "stale")

	// No staging leftovers.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ssh_config", entries[0].Name())
}

func TestWriteFailsWithoutClusterDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "ssh_config")

	err := Write(path, "dev", "ubuntu", "/home/u/.ssh/vmcli", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ssh_config")
}
