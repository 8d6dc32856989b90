package service

import (
	"time"

	"github.com/okian/muster/internal/capture"
	"github.com/okian/muster/internal/domain/liveness"
	"github.com/okian/muster/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDetector wires the external face detector. Without one the
// capture loop is not started and only manual check-ins are possible.
func WithDetector(d capture.Detector) Option {
	return func(s *Service) {
		s.detector = d
	}
}

// WithLivenessChecker wires the external anti-spoofing checker.
func WithLivenessChecker(c liveness.Checker) Option {
	return func(s *Service) {
		s.checker = c
	}
}

// WithWorkerCount sets the number of recording workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the check-in queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithCooldown sets the per-person re-record suppression window.
func WithCooldown(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.cooldown = d
		}
	}
}

// WithTickInterval sets the capture loop's polling period.
func WithTickInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithMatchThreshold sets the minimum actionable match confidence.
func WithMatchThreshold(t float64) Option {
	return func(s *Service) {
		if t > 0 && t <= 1 {
			s.matchThreshold = t
		}
	}
}

// WithDistanceCap sets the distance at which confidence reaches zero.
func WithDistanceCap(limit float64) Option {
	return func(s *Service) {
		if limit > 0 {
			s.distanceCap = limit
		}
	}
}

// WithDescriptorDim sets the embedding size enforced at roster load.
func WithDescriptorDim(dim int) Option {
	return func(s *Service) {
		if dim > 0 {
			s.descriptorDim = dim
		}
	}
}

// WithLateAfter sets the grace period before a check-in counts as late.
func WithLateAfter(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.lateAfter = d
		}
	}
}

// WithRecentLimit bounds the recent-activity feed.
func WithRecentLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.recentLimit = limit
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}
