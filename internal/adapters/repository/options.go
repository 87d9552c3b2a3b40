package repository

import (
	"time"

	"github.com/okian/jury/pkg/logger"
)

// Option applies a configuration option to the Repository.
type Option func(*Repository)

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator overrides identity minting for projects, judges and criteria.
func WithIDGenerator(newID func() string) Option {
	return func(r *Repository) {
		if newID != nil {
			r.newID = newID
		}
	}
}

// WithLogger sets a custom logger for the repository.
func WithLogger(l logger.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}
