package config

import "errors"

// Load wraps source failures (file, env) in ErrLoadConfig; Validate wraps
// every rejected setting in ErrInvalidConfig. Load returns either.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
