// Package digitalocean adapts DigitalOcean droplets to the provider
// interface. Droplets carry the vmcli string-tag pair for discovery; the
// cluster network is a VPC found by its deterministic name (VPCs are
// untaggable) plus a firewall that targets droplets through the cluster
// tag. Key material is imported as an account-level SSH key.
package digitalocean
