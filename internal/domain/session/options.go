package session

import (
	"time"

	"github.com/okian/muster/pkg/logger"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithClock replaces the manager's time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets a custom logger for the manager.
func WithLogger(log logger.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}
