// Package errs holds sentinel errors shared across the ingestion layers.
package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrConfig      = errors.New("config")
	ErrAuth        = errors.New("auth")
	ErrRateLimited = errors.New("rate_limited")
	ErrTooLarge    = errors.New("payload_too_large")
)
