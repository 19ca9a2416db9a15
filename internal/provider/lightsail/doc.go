// Package lightsail adapts AWS Lightsail to the provider interface.
// Instances carry the Name+Cluster tag pair for discovery and are addressed
// by their prefixed resource name in every API call. Lightsail has no
// standalone network resources; the instance's public ports are set right
// after creation, so the network template is empty and trivially complete.
// Key material is imported as a Lightsail key pair.
package lightsail
