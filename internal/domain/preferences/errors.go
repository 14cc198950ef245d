package preferences

import "errors"

// Sentinel kinds for preference errors.
var (
	ErrInvalidPreference = errors.New("invalid preference")
)
