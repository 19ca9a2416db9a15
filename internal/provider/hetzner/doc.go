// Package hetzner is the Hetzner Cloud adapter: a labeled private network
// and firewall per cluster, servers discovered by their vmcli label pair,
// the firewall applied through a cluster label selector, and key material
// imported as an hcloud SSH key resource.
package hetzner
