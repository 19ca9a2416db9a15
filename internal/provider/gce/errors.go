package gce

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/util/retry"
)

// apiError extracts the structured error behind a compute API failure, or
// nil for transport-level failures that never produced a response.
func apiError(err error) *googleapi.Error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr
	}
	return nil
}

// The API hides quota pressure behind 403 with a rate-limit reason, so the
// status code alone does not separate transient from structural there.
func isRateLimited(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded":
			return true
		}
	}
	return false
}

func isTransient(err error) bool {
	if gerr := apiError(err); gerr != nil {
		if gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500 {
			return true
		}
		return gerr.Code == http.StatusForbidden && isRateLimited(gerr)
	}
	// Transport-level failures carry no status.
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
	gerr := apiError(err)
	return gerr != nil && gerr.Code == http.StatusNotFound
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
