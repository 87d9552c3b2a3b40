package storage

import "errors"

// Sentinel errors for storage operations.
var (
	ErrEmpty          = errors.New("storage is empty")
	ErrCorrupt        = errors.New("snapshot is corrupt")
	ErrUnknownDriver  = errors.New("unknown storage driver")
	ErrNotConfigured  = errors.New("storage is not configured")
	ErrMissingSetting = errors.New("required storage setting is missing")
)
