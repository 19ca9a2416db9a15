// Package lifecycle is the dispatch layer between the CLI and one provider
// adapter. It enforces the cross-provider invariants (the prune guard, the
// name validation, error wrapping with operation identity) and keeps the
// rendered ssh_config in step with live cluster state. It holds nothing
// between invocations: the provider's tagged resources are the only state.
//
// Two up calls racing for the same name are a documented best-effort risk:
// the adapter re-checks for a collision immediately before creating, but no
// cross-invocation lock exists.
package lifecycle
