package config

import "errors"

// Configuration errors abort before any provider call is made.
var (
	ErrNotInitialized     = errors.New("cluster not initialized")
	ErrAlreadyInitialized = errors.New("cluster already initialized")
	ErrIdentityMismatch   = errors.New("cluster_name in config does not match the requested cluster")
	ErrProfileEnv         = errors.New("profile-selection environment variables are not supported")
	ErrMissingCredentials = errors.New("provider credentials missing from environment")
	ErrInvalid            = errors.New("invalid configuration")
)

var configErrors = []error{
	ErrNotInitialized,
	ErrAlreadyInitialized,
	ErrIdentityMismatch,
	ErrProfileEnv,
	ErrMissingCredentials,
	ErrInvalid,
}

// IsConfigError reports whether err belongs to the configuration error
// family.
func IsConfigError(err error) bool {
	for _, e := range configErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
