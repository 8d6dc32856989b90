// Package matcher computes the closest roster identity for a probe descriptor.
package matcher

// Option applies a configuration option to the EuclideanMatcher.
type Option func(*EuclideanMatcher)

// WithDistanceCap sets the distance at which confidence reaches zero.
// Values at or above the cap map to confidence 0.
func WithDistanceCap(cap float64) Option {
	return func(m *EuclideanMatcher) {
		if cap > 0 {
			m.distanceCap = cap
		}
	}
}
