package quality

import "errors"

var (
	// ErrInvalidArgument marks user-input errors such as a rating outside [1,5].
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDataUnavailable marks advisory data that could not be produced.
	// Callers fall back to default guidance; it is never shown as a failure.
	ErrDataUnavailable = errors.New("best practice data unavailable")

	// ErrUpstreamFailure marks a failed call to the completion service or a store.
	ErrUpstreamFailure = errors.New("upstream failure")

	// ErrNotSupported marks a capability the configured collaborator lacks.
	ErrNotSupported = errors.New("not supported")
)
