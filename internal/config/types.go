package config

// Provider selects one of the supported cloud backends.
type Provider string

const (
	ProviderEC2       Provider = "ec2"
	ProviderLightsail Provider = "lightsail"
	ProviderGCE       Provider = "gce"
	ProviderDO        Provider = "do"
	ProviderHCloud    Provider = "hcloud"
)

// Providers lists all supported backends in CLI order.
func Providers() []Provider {
	return []Provider{ProviderEC2, ProviderLightsail, ProviderGCE, ProviderDO, ProviderHCloud}
}

// Valid reports whether p names a supported backend.
func (p Provider) Valid() bool {
	switch p {
	case ProviderEC2, ProviderLightsail, ProviderGCE, ProviderDO, ProviderHCloud:
		return true
	}
	return false
}

// File is the on-disk TOML shape shared by the global, cluster and override
// files. Sections are pointers so an absent table contributes nothing to the
// merge.
type File struct {
	ClusterName string `toml:"cluster_name"`

	EC2       *Section `toml:"ec2"`
	Lightsail *Section `toml:"lightsail"`
	GCE       *Section `toml:"gce"`
	DO        *Section `toml:"do"`
	HCloud    *Section `toml:"hcloud"`
}

// Section holds one provider's settings. Field meaning shifts slightly per
// provider (Size is an instance type, bundle id, machine type, droplet size
// or server type; Image is an AMI id, blueprint id, image family, image slug
// or image name). Empty means "not set" at this layer.
type Section struct {
	Region           string `toml:"region"`
	Zone             string `toml:"zone"`
	Project          string `toml:"project"`
	Size             string `toml:"size"`
	Image            string `toml:"image"`
	ImageProject     string `toml:"image_project"`
	SSHPublicKeyPath string `toml:"ssh_public_key_path"`
	KeyPairName      string `toml:"key_pair_name"`
	OSUser           string `toml:"os_user"`
}

// section returns the table for p, which may be nil.
func (f *File) section(p Provider) *Section {
	if f == nil {
		return nil
	}
	switch p {
	case ProviderEC2:
		return f.EC2
	case ProviderLightsail:
		return f.Lightsail
	case ProviderGCE:
		return f.GCE
	case ProviderDO:
		return f.DO
	case ProviderHCloud:
		return f.HCloud
	}
	return nil
}

// Effective is the fully resolved configuration for one invocation. It is
// rebuilt from the file layers on every command and never persisted.
type Effective struct {
	Provider    Provider
	ClusterName string

	Region       string
	Zone         string
	Project      string
	Size         string
	Image        string
	ImageProject string

	SSHPublicKeyPath string
	KeyPairName      string
	OSUser           string

	// Resolved local paths.
	ClusterDir    string
	SSHConfigPath string
}

// overlay copies every non-empty field of s onto e.
func (e *Effective) overlay(s *Section) {
	if s == nil {
		return
	}
	if s.Region != "" {
		e.Region = s.Region
	}
	if s.Zone != "" {
		e.Zone = s.Zone
	}
	if s.Project != "" {
		e.Project = s.Project
	}
	if s.Size != "" {
		e.Size = s.Size
	}
	if s.Image != "" {
		e.Image = s.Image
	}
	if s.ImageProject != "" {
		e.ImageProject = s.ImageProject
	}
	if s.SSHPublicKeyPath != "" {
		e.SSHPublicKeyPath = s.SSHPublicKeyPath
	}
	if s.KeyPairName != "" {
		e.KeyPairName = s.KeyPairName
	}
	if s.OSUser != "" {
		e.OSUser = s.OSUser
	}
}

// Overrides carries CLI flag values, the highest-precedence layer.
type Overrides struct {
	Size   string
	OSUser string
}

func (e *Effective) applyOverrides(ov Overrides) {
	if ov.Size != "" {
		e.Size = ov.Size
	}
	if ov.OSUser != "" {
		e.OSUser = ov.OSUser
	}
}
