package studioclient

import "errors"

// Common errors for client configuration and token inspection.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNoToken       = errors.New("no token")
	ErrNoExpiry      = errors.New("token has no expiry claim")
)
