// Package config resolves the effective per-cluster configuration.
//
// Configuration is layered per field: built-in defaults, then the global
// file, then the cluster file, then an optional override file (-c), then CLI
// flags. Files are TOML with one table per provider; a cluster file may
// declare cluster_name, which must match the cluster named on the command
// line. Credentials never live in files; they are read from the environment
// and validated here before any provider call.
package config
