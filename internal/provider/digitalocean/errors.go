package digitalocean

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/digitalocean/godo"

	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/util/retry"
)

// statusOf extracts the HTTP status behind a godo API error, or 0 for
// transport-level failures that never produced a response.
func statusOf(err error) int {
	var respErr *godo.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return respErr.Response.StatusCode
	}
	return 0
}

// The API reports failures as bare HTTP statuses: rate limits and the 5xx
// family are worth retrying, the rest of 4xx is structural.
func isTransient(err error) bool {
	if status := statusOf(err); status != 0 {
		return status == http.StatusTooManyRequests || status >= 500
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
	return statusOf(err) == http.StatusNotFound
}

// isUnprocessable covers the 422 validation family; after local key checks
// the dominant cause is a duplicate fingerprint.
func isUnprocessable(err error) bool {
	return statusOf(err) == http.StatusUnprocessableEntity
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
