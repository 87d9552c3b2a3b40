package notify

import (
	"github.com/okian/jury/pkg/logger"
)

// Option applies a configuration option to the Notifier.
type Option func(*Notifier)

// WithLogger sets a custom logger for the notifier.
func WithLogger(l logger.Logger) Option {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l
		}
	}
}
