package alloc

import (
	"log/slog"
)

// Option configures a BumpAllocator.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	maxSegs int
}

func defaultConfig() config {
	return config{
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger used for debug events. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxSegments caps the number of segments the allocator will hold.
// Zero means no cap beyond what the provider allows.
func WithMaxSegments(n int) Option {
	return func(c *config) {
		c.maxSegs = n
	}
}
