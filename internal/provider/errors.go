package provider

import "errors"

// Sentinel errors for provider operations.
var (
	// ErrRateLimit indicates the provider returned a rate limit response.
	ErrRateLimit = errors.New("provider rate limited")

	// ErrProviderDown indicates the provider is temporarily unavailable,
	// including when the circuit breaker is open.
	ErrProviderDown = errors.New("provider unavailable")
)
