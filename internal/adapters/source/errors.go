package source

import "errors"

// Sentinel kinds for source loading errors.
var (
	ErrSourceMissing   = errors.New("source file missing")
	ErrMalformedSource = errors.New("malformed source file")
)
