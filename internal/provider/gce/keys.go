package gce

import "context"

// RemoveKeyMaterial is a no-op. Key material lives in per-instance metadata
// and dies with the instance; there is no account-level key resource to
// clean up.
func (a *Adapter) RemoveKeyMaterial(context.Context) error {
	return nil
}
