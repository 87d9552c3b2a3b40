package seeddata

import "time"

// Default run parameters.
const (
	DefaultProjects = 60
	DefaultJudges   = 12
	DefaultCriteria = 6
	DefaultCoverage = 0.8
	DefaultSeed     = 2024
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Verification constants.
const (
	averageTolerance = 1e-9
	progressInterval = time.Second
	topListed        = 10
)
