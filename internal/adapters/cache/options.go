package cache

import "time"

// Option configures the cache.
type Option func(*Snapshot)

// WithTTL sets the entry lifetime. Zero or negative disables caching.
func WithTTL(ttl time.Duration) Option {
	return func(c *Snapshot) {
		c.ttl = ttl
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Snapshot) {
		if now != nil {
			c.now = now
		}
	}
}
