package source

import "errors"

// Errors returned by source rendering.
var (
	// ErrSourceUnavailable indicates the source file cannot be read or the
	// requested radius leaves nothing to show. Callers degrade to a bare
	// position line; this is never fatal.
	ErrSourceUnavailable = errors.New("source unavailable")
)
