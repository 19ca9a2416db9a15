package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for outcomes the caller must tell apart. Adapters wrap
// them with detail; the CLI maps them to exit codes.
var (
	// ErrNameCollision: a non-terminated instance already holds the
	// requested tag pair. Nothing was created.
	ErrNameCollision = errors.New("instance name already in use")

	// ErrInstanceNotFound: no instance carries the requested tag pair.
	ErrInstanceNotFound = errors.New("instance not found")

	// ErrAmbiguousTarget: the tag pair matches more than one instance,
	// so no targeted operation can proceed.
	ErrAmbiguousTarget = errors.New("ambiguous target")

	// ErrClusterNotEmpty: prune refused to touch the network while
	// non-terminated instances remain.
	ErrClusterNotEmpty = errors.New("cluster not empty")

	// ErrProviderUnavailable: the provider API could not be reached, or
	// kept failing transiently until the retry budget ran out.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrPartialTeardown: teardown removed some network layers but not
	// all. Re-running prune resumes from what is still tagged.
	ErrPartialTeardown = errors.New("partial teardown")
)

// OpError wraps an adapter failure with the identity of the operation that
// hit it. Unwrap exposes the cause so sentinel checks keep working.
type OpError struct {
	Provider string
	Op       string
	Cluster  string
	Target   string
	Err      error
}

func (e *OpError) Error() string {
	switch {
	case e.Cluster != "" && e.Target != "":
		return fmt.Sprintf("%s %s %s/%s: %v", e.Provider, e.Op, e.Cluster, e.Target, e.Err)
	case e.Cluster != "":
		return fmt.Sprintf("%s %s %s: %v", e.Provider, e.Op, e.Cluster, e.Err)
	case e.Target != "":
		return fmt.Sprintf("%s %s %s: %v", e.Provider, e.Op, e.Target, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
}

func (e *OpError) Unwrap() error {
	return e.Err
}
