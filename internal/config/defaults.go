package config

import (
	"fmt"
	"strings"
)

// DefaultSSHPublicKeyPath is the key imported into every provider unless a
// cluster overrides it.
const DefaultSSHPublicKeyPath = "~/.ssh/vmcli.pub"

// defaultSection returns the built-in bottom layer for p.
func defaultSection(p Provider) Section {
	switch p {
	case ProviderEC2:
		return Section{
			Region:           "ap-northeast-1",
			Size:             "t3.micro",
			SSHPublicKeyPath: DefaultSSHPublicKeyPath,
			OSUser:           "ubuntu",
		}
	case ProviderLightsail:
		return Section{
			Region:           "ap-northeast-1",
			Size:             "nano_3_0",
			Image:            "ubuntu_24_04",
			SSHPublicKeyPath: DefaultSSHPublicKeyPath,
			OSUser:           "ubuntu",
		}
	case ProviderGCE:
		return Section{
			Zone:             "us-central1-a",
			Size:             "e2-micro",
			Image:            "ubuntu-2404-lts-amd64",
			ImageProject:     "ubuntu-os-cloud",
			SSHPublicKeyPath: DefaultSSHPublicKeyPath,
			OSUser:           "ubuntu",
		}
	case ProviderDO:
		return Section{
			Region:           "nyc1",
			Size:             "s-1vcpu-1gb",
			Image:            "ubuntu-24-04-x64",
			SSHPublicKeyPath: DefaultSSHPublicKeyPath,
			OSUser:           "root",
		}
	case ProviderHCloud:
		return Section{
			Region:           "nbg1",
			Size:             "cx22",
			Image:            "ubuntu-24.04",
			SSHPublicKeyPath: DefaultSSHPublicKeyPath,
			OSUser:           "root",
		}
	}
	return Section{}
}

// DefaultTOML renders the scaffold written by init for a new cluster. The
// values spell out the built-in defaults so users see what they can change.
func DefaultTOML(p Provider, cluster string) string {
	s := defaultSection(p)

	var b strings.Builder
	fmt.Fprintf(&b, "# vmcli cluster configuration (%s)\n", p)
	b.WriteString("# Values here override the global config for this cluster only.\n\n")
	fmt.Fprintf(&b, "cluster_name = %q\n\n", cluster)
	fmt.Fprintf(&b, "[%s]\n", p)

	write := func(key, val string) {
		if val != "" {
			fmt.Fprintf(&b, "%s = %q\n", key, val)
		}
	}
	write("region", s.Region)
	write("zone", s.Zone)
	if p == ProviderGCE {
		// No sensible default exists for a GCP project.
		b.WriteString("project = \"\" # required\n")
	}
	write("size", s.Size)
	write("image", s.Image)
	write("image_project", s.ImageProject)
	write("ssh_public_key_path", s.SSHPublicKeyPath)
	write("os_user", s.OSUser)

	return b.String()
}

// GlobalTOML renders the commented template written once to the global
// config file.
func GlobalTOML() string {
	var b strings.Builder
	b.WriteString("# vmcli global configuration\n")
	b.WriteString("# Per-provider tables here apply to every cluster; cluster files override\n")
	b.WriteString("# per field. Credentials are never read from this file.\n")
	b.WriteString("#\n")
	for _, p := range Providers() {
		fmt.Fprintf(&b, "# [%s]\n", p)
		fmt.Fprintf(&b, "# region = %q\n", defaultSection(p).Region)
		fmt.Fprintf(&b, "# size = %q\n", defaultSection(p).Size)
		b.WriteString("#\n")
	}
	return b.String()
}

// validate checks provider-required fields after all layers are merged.
func validate(e *Effective) error {
	if e.SSHPublicKeyPath == "" {
		return fmt.Errorf("%w: ssh_public_key_path must be set", ErrInvalid)
	}
	if e.Size == "" {
		return fmt.Errorf("%w: size must be set", ErrInvalid)
	}
	switch e.Provider {
	case ProviderGCE:
		if e.Project == "" {
			return fmt.Errorf("%w: gce requires project", ErrInvalid)
		}
		if e.Zone == "" {
			return fmt.Errorf("%w: gce requires zone", ErrInvalid)
		}
	default:
		if e.Region == "" {
			return fmt.Errorf("%w: %s requires region", ErrInvalid, e.Provider)
		}
	}
	return nil
}
