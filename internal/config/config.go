// Package config defines service configuration structures and loading hooks.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TickIntervalMS sets the capture loop's detection polling period.
	TickIntervalMS int `koanf:"tick_interval_ms"`

	// MatchThreshold is the minimum confidence for an actionable match.
	MatchThreshold float64 `koanf:"match_threshold"`

	// DistanceCap is the Euclidean distance at which confidence reaches zero.
	DistanceCap float64 `koanf:"distance_cap"`

	// CooldownSeconds is the per-person re-record suppression window.
	CooldownSeconds int `koanf:"cooldown_seconds"`

	// DescriptorDim is the embedding size enforced at roster load.
	DescriptorDim int `koanf:"descriptor_dim"`

	// QueueSize bounds the in-memory check-in queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of recording workers.
	WorkerCount int `koanf:"worker_count"`

	// LateAfterMinutes is the grace period before a check-in counts as late.
	LateAfterMinutes int `koanf:"late_after_minutes"`

	// RecentLimit bounds the recent-activity feed.
	RecentLimit int `koanf:"recent_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		TickIntervalMS:   200,
		MatchThreshold:   0.45,
		DistanceCap:      1.0,
		CooldownSeconds:  30,
		DescriptorDim:    128,
		QueueSize:        1024,
		WorkerCount:      runtime.NumCPU(),
		LateAfterMinutes: 15,
		RecentLimit:      100,
	}
}
