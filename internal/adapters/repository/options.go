package repository

import "time"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithLateAfter sets the grace period after slot start before a check-in
// is recorded as Late instead of Normal.
func WithLateAfter(grace time.Duration) Option {
	return func(s *MemStore) {
		if grace > 0 {
			s.lateAfter = grace
		}
	}
}

// WithRecentLimit bounds the recent-activity feed.
func WithRecentLimit(limit int) Option {
	return func(s *MemStore) {
		if limit > 0 {
			s.recentLimit = limit
		}
	}
}
