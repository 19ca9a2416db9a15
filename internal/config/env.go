package config

import (
	"fmt"
	"os"
)

// Environment variables consulted per provider. Credentials are environment
// only; profile-based resolution is rejected where it would shadow them.
const (
	EnvAWSAccessKey      = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretKey      = "AWS_SECRET_ACCESS_KEY"
	EnvAWSSessionToken   = "AWS_SESSION_TOKEN"
	EnvAWSProfile        = "AWS_PROFILE"
	EnvAWSDefaultProfile = "AWS_DEFAULT_PROFILE"
	EnvGoogleCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvDOToken           = "DIGITALOCEAN_TOKEN"
	EnvDOAccessToken     = "DIGITALOCEAN_ACCESS_TOKEN"
	EnvHCloudToken       = "HCLOUD_TOKEN"
)

// ValidateEnv checks that credentials for p are present in the environment
// and that no rejected profile-selection variable is set.
func ValidateEnv(p Provider) error {
	switch p {
	case ProviderEC2, ProviderLightsail:
		for _, v := range []string{EnvAWSProfile, EnvAWSDefaultProfile} {
			if os.Getenv(v) != "" {
				return fmt.Errorf("%w: unset %s (credentials must come from %s/%s)",
					ErrProfileEnv, v, EnvAWSAccessKey, EnvAWSSecretKey)
			}
		}
		if os.Getenv(EnvAWSAccessKey) == "" || os.Getenv(EnvAWSSecretKey) == "" {
			return fmt.Errorf("%w: set %s and %s", ErrMissingCredentials, EnvAWSAccessKey, EnvAWSSecretKey)
		}
	case ProviderGCE:
		if os.Getenv(EnvGoogleCredentials) == "" {
			return fmt.Errorf("%w: set %s to a service account key file", ErrMissingCredentials, EnvGoogleCredentials)
		}
	case ProviderDO:
		if Token(p) == "" {
			return fmt.Errorf("%w: set %s", ErrMissingCredentials, EnvDOToken)
		}
	case ProviderHCloud:
		if Token(p) == "" {
			return fmt.Errorf("%w: set %s", ErrMissingCredentials, EnvHCloudToken)
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalid, p)
	}
	return nil
}

// Token returns the API token for token-authenticated providers.
func Token(p Provider) string {
	switch p {
	case ProviderDO:
		if t := os.Getenv(EnvDOToken); t != "" {
			return t
		}
		return os.Getenv(EnvDOAccessToken)
	case ProviderHCloud:
		return os.Getenv(EnvHCloudToken)
	}
	return ""
}

// AWSStaticCredentials returns the key pair for the AWS-family providers.
func AWSStaticCredentials() (accessKey, secretKey, sessionToken string) {
	return os.Getenv(EnvAWSAccessKey), os.Getenv(EnvAWSSecretKey), os.Getenv(EnvAWSSessionToken)
}
