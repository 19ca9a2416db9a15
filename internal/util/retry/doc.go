// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable attempt
// count, initial delay, and delay cap. Structural failures are marked with
// [Fatal] so only transient provider errors consume the budget.
package retry
