package capture

import (
	"time"

	"github.com/okian/muster/pkg/logger"
)

// Option configures a Loop.
type Option func(*Loop)

// WithTickInterval sets how often the detector is polled.
func WithTickInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.tick = d
		}
	}
}

// WithMatchThreshold sets the minimum confidence required to act on a
// match.
func WithMatchThreshold(t float64) Option {
	return func(l *Loop) {
		if t > 0 && t <= 1 {
			l.threshold = t
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger overrides the loop's logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loop) {
		if log != nil {
			l.log = log
		}
	}
}
