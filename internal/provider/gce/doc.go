// Package gce adapts Google Compute Engine to the provider interface.
// Instances carry the vmcli label pair for discovery; the cluster network is
// a custom-mode network with one subnet and one ingress firewall, all found
// by their deterministic names (GCE network resources take no labels). Key
// material is staged through instance metadata, so there is no account-level
// key resource to manage.
package gce
