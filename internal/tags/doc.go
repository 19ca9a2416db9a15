// Package tags defines the identity convention attached to every cloud
// resource this tool manages.
//
// The canonical pair is Name=<instance> plus Cluster=<cluster> in the tag
// dialect of the VPC-family providers; label-map and string-tag providers
// carry the same identity as vmcli-cluster/vmcli-name. Tag queries are the
// only discovery mechanism; no resource identifier is ever persisted
// locally.
package tags
