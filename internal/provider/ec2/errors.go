package ec2

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"

	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/util/retry"
)

// transientCodes are EC2 API error codes worth retrying.
var transientCodes = map[string]bool{
	"RequestLimitExceeded":    true,
	"Throttling":              true,
	"ThrottlingException":     true,
	"RequestThrottled":        true,
	"ServiceUnavailable":      true,
	"Unavailable":             true,
	"InternalError":           true,
	"InternalFailure":         true,
	"RequestTimeout":          true,
	"RequestTimeoutException": true,
}

func isTransient(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return transientCodes[apiErr.ErrorCode()] || apiErr.ErrorFault() == smithy.FaultServer
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
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()
	return strings.HasSuffix(code, ".NotFound") || strings.HasSuffix(code, "NotFoundException")
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
