package repository

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrDataUnavailable = errors.New("festival data unavailable")
	ErrNilLoader       = errors.New("snapshot cache requires a loader")
)
