package navgate

import "errors"

// Builder and configuration errors. All are returned from [Builder.Build]
// (directly or wrapped with the offending value) and match with errors.Is.
var (
	// ErrBuilderReused is returned when Build is called twice on the same
	// Builder. A Builder produces exactly one Core.
	ErrBuilderReused = errors.New("navgate: builder already used")

	// ErrMissingBaseURL is returned when no API base URL was configured.
	ErrMissingBaseURL = errors.New("navgate: api base url required")

	// ErrInvalidBaseURL is returned when the configured base URL does not
	// parse as an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("navgate: invalid api base url")

	// ErrInvalidPath is returned when a redirect path does not start
	// with "/".
	ErrInvalidPath = errors.New("navgate: redirect path must be rooted")

	// ErrInvalidConfig is returned for out-of-range numeric settings.
	ErrInvalidConfig = errors.New("navgate: invalid config value")
)
