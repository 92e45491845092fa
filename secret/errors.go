package secret

import "errors"

// Sentinel errors for secret resolution.
var (
	ErrInvalidRef         = errors.New("secret: invalid reference")
	ErrUnknownProvider    = errors.New("secret: provider is not registered")
	ErrProviderRegistered = errors.New("secret: provider already registered")
	ErrEmptySecret        = errors.New("secret: resolved to an empty value")
	ErrMissingEnv         = errors.New("secret: missing environment variables")
	ErrNotFound           = errors.New("secret: not found")
)
