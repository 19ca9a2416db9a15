package hetzner

import (
	"context"
	"errors"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/util/retry"
)

// transientCodes are hcloud API error codes worth retrying: rate limits and
// the lock/conflict family that clears once a running action settles.
var transientCodes = map[hcloud.ErrorCode]bool{
	hcloud.ErrorCodeRateLimitExceeded:   true,
	hcloud.ErrorCodeConflict:            true,
	hcloud.ErrorCodeLocked:              true,
	hcloud.ErrorCodeResourceLocked:      true,
	hcloud.ErrorCodeResourceUnavailable: true,
}

func isTransient(err error) bool {
	var apiErr hcloud.Error
	if errors.As(err, &apiErr) {
		return transientCodes[apiErr.Code]
	}
	// Transport-level failures carry no API code.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// classify marks structural API failures fatal so the retry loop surfaces
// them immediately instead of burning its budget.
func classify(err error) error {
	if err == nil || isTransient(err) {
		return err
	}
	return retry.Fatal(err)
}

func isNotFound(err error) bool {
	var apiErr hcloud.Error
	return errors.As(err, &apiErr) && apiErr.Code == hcloud.ErrorCodeNotFound
}

func isUniqueness(err error) bool {
	var apiErr hcloud.Error
	return errors.As(err, &apiErr) && apiErr.Code == hcloud.ErrorCodeUniquenessError
}

// call runs one SDK call under the shared retry policy. A call that is
// still failing transiently when the budget runs out, or that the context
// cut short, comes back as ErrProviderUnavailable; structural failures come
// back as themselves.
func call[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var out T
	err := retry.WithExponentialBackoff(ctx, func() error {
		var callErr error
		out, callErr = fn()
		return classify(callErr)
	})
	if err != nil {
		var zero T
		if ctx.Err() != nil || isTransient(err) {
			return zero, fmt.Errorf("%w: %w", provider.ErrProviderUnavailable, err)
		}
		return zero, err
	}
	return out, nil
}
