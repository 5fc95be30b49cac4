package usecase

import "errors"

var (
	// ErrUnknownCity means the name stayed unresolvable even after a full
	// catalog refresh. Not retryable without a corrected name.
	ErrUnknownCity = errors.New("unknown city")

	ErrInvalidRequest = errors.New("invalid request")

	// ErrSourceUnavailable wraps fetch or parse failures of the upstream
	// portal. The core never retries; that call is the caller's.
	ErrSourceUnavailable = errors.New("route source unavailable")
)
